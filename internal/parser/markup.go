package parser

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes markup from an HTML fragment and trims the result.
// Script and style contents are dropped; character references are kept
// as written so counts match the stored markup.
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}

	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(buf.String())
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Raw())
			}
		case html.StartTagToken:
			if isRawTextTag(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawTextTag(z) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawTextTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

// HasImageAlt reports whether any <img> in the fragment carries an alt
// attribute with non-whitespace content.
func HasImageAlt(fragment string) bool {
	if !strings.Contains(fragment, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "img" {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "alt" && strings.TrimSpace(a.Val) != "" {
					return true
				}
			}
		}
	}
}

// HeadingElements returns the plain text of every <hN> element at the
// given level found in the fragment, in document order.
func HeadingElements(fragment string, level int) []string {
	if level < 1 || level > 6 || !strings.Contains(fragment, "<") {
		return nil
	}
	tag := "h" + strconv.Itoa(level)

	var out []string
	var buf strings.Builder
	depth := 0
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return out
		case html.TextToken:
			if depth > 0 {
				buf.Write(z.Raw())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == tag {
				if depth == 0 {
					buf.Reset()
				}
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == tag && depth > 0 {
				depth--
				if depth == 0 {
					out = append(out, strings.TrimSpace(buf.String()))
				}
			}
		}
	}
}

// Link is an anchor found in markup.
type Link struct {
	Href string
	Text string
}

// Links returns every <a href> in the fragment with its trimmed text.
func Links(fragment string) []Link {
	if !strings.Contains(fragment, "<a") && !strings.Contains(fragment, "<A") {
		return nil
	}

	var out []Link
	var current *Link
	var text strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return out
		case html.TextToken:
			if current != nil {
				text.Write(z.Text())
			}
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "href" && a.Val != "" {
					current = &Link{Href: a.Val}
					text.Reset()
					break
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "a" && current != nil {
				current.Text = strings.TrimSpace(text.String())
				out = append(out, *current)
				current = nil
			}
		}
	}
}
