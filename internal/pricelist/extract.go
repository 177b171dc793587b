// Package pricelist reads supplier price lists and turns them into SKU pack-cost
// updates.
package pricelist

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType is returned for uploads that carry no readable text.
var ErrUnsupportedType = errors.New("pricelist: unsupported file type")

// ExtractText returns the plain text of a PDF or text upload.
func ExtractText(data []byte, mime string) (string, error) {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "pdf"):
		return extractTextFromPDF(data)
	case strings.HasPrefix(lower, "text/"), strings.Contains(lower, "csv"), lower == "":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Row grouping keeps each price next to its product name.
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					builder.WriteByte(' ')
				}
				builder.WriteString(word.S)
			}
			builder.WriteByte('\n')
		}
	}
	return builder.String(), nil
}

// MimeTypeFromName guesses the content type of an upload from its file name.
func MimeTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
