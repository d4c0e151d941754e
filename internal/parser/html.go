package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/contentlint/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles .html files. Files containing block delimiters are
// kept as block markup; anything else is treated as classic editor HTML
// and converted into blocks.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	doc := &doctree.Document{
		ID:    titleFromFilename(filename),
		Title: titleFromFilename(filename),
	}
	if bytes.Contains(src, []byte("<!-- wp:")) {
		doc.Body = string(src)
		return doc, nil
	}

	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	start := findBody(root)
	if start == nil {
		start = root
	}
	doc.Blocks = classicBlocks(start)
	doctree.Number(doc.Blocks)
	doc.Body = doctree.Serialize(doc.Blocks)
	return doc, nil
}

// classicBlocks converts the children of n into blocks.
func classicBlocks(n *html.Node) []*doctree.Block {
	var out []*doctree.Block
	var loose strings.Builder

	flushLoose := func() {
		t := strings.TrimSpace(loose.String())
		if t != "" {
			out = append(out, paragraphBlock(t))
		}
		loose.Reset()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			loose.WriteString(html.EscapeString(c.Data))
			continue
		case html.ElementNode:
		default:
			continue
		}

		if level := headingLevel(c.Data); level > 0 {
			flushLoose()
			out = append(out, headingBlock(level, innerHTML(c)))
			continue
		}

		switch c.Data {
		case "script", "style", "nav", "footer", "header":
			continue
		case "a", "b", "strong", "em", "i", "span", "code", "br", "small", "mark":
			loose.WriteString(outerHTML(c))
			continue
		}

		flushLoose()
		switch c.Data {
		case "p":
			if img := soleImage(c); img != nil {
				out = append(out, imageBlock(attr(img, "src"), attr(img, "alt")))
				continue
			}
			out = append(out, paragraphBlock(innerHTML(c)))
		case "img":
			out = append(out, imageBlock(attr(c, "src"), attr(c, "alt")))
		case "figure":
			if img := findElement(c, "img"); img != nil {
				out = append(out, imageBlock(attr(img, "src"), attr(img, "alt")))
			}
		case "ul", "ol":
			var items []*doctree.Block
			for li := c.FirstChild; li != nil; li = li.NextSibling {
				if li.Type == html.ElementNode && li.Data == "li" {
					items = append(items, listItemBlock(innerHTML(li)))
				}
			}
			out = append(out, listBlock(c.Data == "ol", items))
		case "blockquote", "pre", "table", "hr":
			out = append(out, rawBlock("core/"+classicBlockName(c.Data), outerHTML(c)))
		default:
			// Containers (div, section, article, main, ...) are unwrapped.
			out = append(out, classicBlocks(c)...)
		}
	}
	flushLoose()
	return out
}

func classicBlockName(tag string) string {
	switch tag {
	case "blockquote":
		return "quote"
	case "pre":
		return "code"
	case "hr":
		return "separator"
	}
	return tag
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return strings.TrimSpace(buf.String())
}

func outerHTML(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// soleImage returns the only element child of n when it is an <img>
// and n carries no other text.
func soleImage(n *html.Node) *html.Node {
	var img *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		case html.ElementNode:
			if c.Data != "img" || img != nil {
				return nil
			}
			img = c
		}
	}
	return img
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	return findElement(n, "body")
}
