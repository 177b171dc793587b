package pricelist

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	text := `Supplier: Fresh Co
Beef Mince 5kg   $1,082.50
Gin 700ml: 61.60

Brioche Bun - 13.2
just a heading
`
	updates, skipped := Parse(text)

	want := []struct {
		name  string
		price string
		line  int
	}{
		{"Beef Mince 5kg", "1082.5", 2},
		{"Gin 700ml", "61.6", 3},
		{"Brioche Bun", "13.2", 5},
	}
	if len(updates) != len(want) {
		t.Fatalf("expected %d updates, got %+v", len(want), updates)
	}
	for i, w := range want {
		if updates[i].SKUName != w.name || updates[i].PackCostIncGST.String() != w.price || updates[i].Line != w.line {
			t.Fatalf("update %d = %+v, want %+v", i, updates[i], w)
		}
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped lines, got %d", skipped)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	updates, _ := Parse("beef-mince 80\nCampary 45\nTruffle Oil 90\n")
	resolved, unmatched := Resolve(updates, []string{"Beef Mince", "Campari", "Gin"})

	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved updates, got %+v", resolved)
	}
	if resolved[0].SKUName != "Beef Mince" || resolved[1].SKUName != "Campari" {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
	if len(unmatched) != 1 || unmatched[0] != "Truffle Oil" {
		t.Fatalf("unexpected unmatched names: %v", unmatched)
	}
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	text, err := ExtractText([]byte("Gin 61.60\n"), "text/plain; charset=utf-8")
	if err != nil || text != "Gin 61.60\n" {
		t.Fatalf("unexpected text extraction: %q, %v", text, err)
	}

	if _, err := ExtractText([]byte{0x89, 0x50}, "image/png"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}

	if _, err := ExtractText([]byte("not a pdf"), "application/pdf"); err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}

func TestMimeTypeFromName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"prices.PDF": "application/pdf",
		"prices.txt": "text/plain",
		"prices.csv": "text/csv",
		"prices.bin": "application/octet-stream",
	}
	for name, want := range tests {
		if got := MimeTypeFromName(name); got != want {
			t.Fatalf("MimeTypeFromName(%q) = %q, want %q", name, got, want)
		}
	}
}
