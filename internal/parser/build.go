package parser

import (
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/contentlint/internal/doctree"
)

// Block constructors used by the importers. They emit the same markup the
// block editor stores, so serialized output parses back identically.

func paragraphBlock(innerHTML string) *doctree.Block {
	return doctree.NewBlock(doctree.NameParagraph, nil, "<p>"+innerHTML+"</p>", nil)
}

func textParagraph(text string) *doctree.Block {
	return paragraphBlock(escapeText(text))
}

func escapeText(s string) string {
	return html.EscapeString(s)
}

func headingBlock(level int, innerHTML string) *doctree.Block {
	if level < 1 || level > 6 {
		level = 2
	}
	attrs := map[string]any{}
	if level != 2 {
		attrs["level"] = float64(level)
	}
	markup := fmt.Sprintf(`<h%d class="wp-block-heading">%s</h%d>`, level, innerHTML, level)
	return doctree.NewBlock(doctree.NameHeading, attrs, markup, nil)
}

func imageBlock(src, alt string) *doctree.Block {
	attrs := map[string]any{}
	if alt != "" {
		attrs["alt"] = alt
	}
	markup := fmt.Sprintf(`<figure class="wp-block-image"><img src="%s" alt="%s"/></figure>`,
		html.EscapeString(src), html.EscapeString(alt))
	return doctree.NewBlock(doctree.NameImage, attrs, markup, nil)
}

func listBlock(ordered bool, items []*doctree.Block) *doctree.Block {
	tag := "ul"
	attrs := map[string]any{}
	if ordered {
		tag = "ol"
		attrs["ordered"] = true
	}
	chunks := make([]string, len(items)+1)
	chunks[0] = "<" + tag + ">"
	chunks[len(items)] = "</" + tag + ">"
	b := doctree.NewBlock("core/list", attrs, strings.Join(chunks, ""), items)
	b.InnerContent = chunks
	return b
}

func listItemBlock(innerHTML string) *doctree.Block {
	return doctree.NewBlock(doctree.NameListItem, nil, "<li>"+innerHTML+"</li>", nil)
}

func rawBlock(name, markup string) *doctree.Block {
	return doctree.NewBlock(name, nil, markup, nil)
}
