package pricelist

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Update sets the inc-GST pack cost of one SKU.
type Update struct {
	SKUName        string          `json:"sku_name"`
	PackCostIncGST decimal.Decimal `json:"pack_cost_inc_gst"`
	// Line is the 1-based line of the source text the update came from.
	Line int `json:"line"`
}

var priceToken = regexp.MustCompile(`\$?\s*\d[\d,]*(?:\.\d+)?`)

// Parse reads one "<sku name> <price>" entry per line. The price is the last
// number on the line; a leading "$" and thousands separators are accepted. Lines
// with no name or no price are skipped and counted.
func Parse(text string) ([]Update, int) {
	var (
		updates []Update
		skipped int
	)
	for idx, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		update, ok := parseLine(line)
		if !ok {
			skipped++
			continue
		}
		update.Line = idx + 1
		updates = append(updates, update)
	}
	return updates, skipped
}

func parseLine(line string) (Update, bool) {
	matches := priceToken.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return Update{}, false
	}
	last := matches[len(matches)-1]

	token := strings.NewReplacer("$", "", ",", "", " ", "").Replace(line[last[0]:last[1]])
	price, err := decimal.NewFromString(token)
	if err != nil {
		return Update{}, false
	}

	name := strings.TrimRight(line[:last[0]], " \t:|-=")
	name = strings.TrimSpace(name)
	if name == "" {
		return Update{}, false
	}
	return Update{SKUName: name, PackCostIncGST: price}, true
}

// Resolve maps every update onto a known SKU name. Names match after folding case
// and punctuation, then by a small edit distance. Updates that match nothing are
// returned by name in unmatched.
func Resolve(updates []Update, skuNames []string) (resolved []Update, unmatched []string) {
	normalized := make([]string, len(skuNames))
	for i, name := range skuNames {
		normalized[i] = normalizeName(name)
	}

	for _, update := range updates {
		target := normalizeName(update.SKUName)
		match := -1
		for i, candidate := range normalized {
			if candidate == target {
				match = i
				break
			}
		}
		if match < 0 {
			for i, candidate := range normalized {
				if similarName(candidate, target) {
					match = i
					break
				}
			}
		}
		if match < 0 {
			unmatched = append(unmatched, update.SKUName)
			continue
		}
		update.SKUName = skuNames[match]
		resolved = append(resolved, update)
	}
	return resolved, unmatched
}

func normalizeName(value string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func similarName(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	limit := 1
	if len(a) >= 8 || len(b) >= 8 {
		limit = 2
	}
	if len(a) >= 12 || len(b) >= 12 {
		limit = 3
	}
	return levenshtein(a, b) <= limit
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
