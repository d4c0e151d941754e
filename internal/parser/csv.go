package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/contentlint/internal/doctree"
)

// ParseManifest reads a CSV export with one document per row. The header
// row names the columns; id, title, slug, featured and body are recognised
// in any order, unknown columns are ignored.
func ParseManifest(r io.Reader) ([]*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// First row is headers.
	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["body"]; !ok {
		return nil, fmt.Errorf("parse csv: missing body column")
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	docs := make([]*doctree.Document, 0, len(records)-1)
	for n, row := range records[1:] {
		doc := &doctree.Document{
			ID:    strings.TrimSpace(field(row, "id")),
			Title: field(row, "title"),
			Slug:  strings.TrimSpace(field(row, "slug")),
			Body:  field(row, "body"),
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("row-%d", n+2) // 1-indexed, skip header
		}
		if v := strings.TrimSpace(field(row, "featured")); v != "" {
			featured, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: featured: %w", n+2, err)
			}
			doc.HasFeaturedAsset = featured
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
