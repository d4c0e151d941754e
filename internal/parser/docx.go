package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles Word drafts. Heading styles become heading blocks,
// other non-empty paragraphs become paragraph blocks. The first Heading 1
// (or Title style) paragraph is used as the document title.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "contentlint-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	parsed, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &doctree.Document{
		ID:    titleFromFilename(filename),
		Title: titleFromFilename(filename),
	}
	titled := false

	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		level := docxHeadingLevel(para)
		switch {
		case level == 1 && !titled:
			doc.Title = text
			titled = true
		case level > 0:
			doc.Blocks = append(doc.Blocks, headingBlock(level, escapeText(text)))
		default:
			doc.Blocks = append(doc.Blocks, textParagraph(text))
		}
	}
	doctree.Number(doc.Blocks)
	doc.Body = doctree.Serialize(doc.Blocks)
	return doc, nil
}

// docxHeadingLevel maps heading styles to levels. The Title style counts
// as level 1.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
