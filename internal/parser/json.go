package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/contentlint/internal/doctree"
)

// JSONParser reads a host export: {"id","title","slug","body","has_featured_asset"}.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	var doc doctree.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.ID == "" {
		doc.ID = titleFromFilename(filename)
	}
	return &doc, nil
}
