package doctree

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Serialize renders blocks back into comment-delimited block markup.
func Serialize(blocks []*Block) string {
	var buf strings.Builder
	for _, b := range blocks {
		writeBlock(&buf, b)
	}
	return buf.String()
}

func writeBlock(buf *strings.Builder, b *Block) {
	if b == nil {
		return
	}
	if b.Kind == KindNone {
		buf.WriteString(b.InnerHTML)
		for _, c := range b.Children {
			writeBlock(buf, c)
		}
		return
	}

	name := strings.TrimPrefix(b.Name, "core/")
	buf.WriteString("<!-- wp:")
	buf.WriteString(name)
	if attrs := encodeAttrs(b.Attrs); attrs != "" {
		buf.WriteByte(' ')
		buf.WriteString(attrs)
	}

	if b.InnerHTML == "" && len(b.Children) == 0 {
		buf.WriteString(" /-->")
		return
	}
	buf.WriteString(" -->")

	if len(b.InnerContent) == len(b.Children)+1 {
		for i, chunk := range b.InnerContent {
			buf.WriteString(chunk)
			if i < len(b.Children) {
				writeBlock(buf, b.Children[i])
			}
		}
	} else {
		buf.WriteString(b.InnerHTML)
		for _, c := range b.Children {
			writeBlock(buf, c)
		}
	}

	buf.WriteString("<!-- /wp:")
	buf.WriteString(name)
	buf.WriteString(" -->")
}

// encodeAttrs marshals attributes so they cannot terminate the comment.
func encodeAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(attrs); err != nil {
		return ""
	}
	out := strings.TrimSpace(buf.String())
	return strings.ReplaceAll(out, "--", `\u002d\u002d`)
}
