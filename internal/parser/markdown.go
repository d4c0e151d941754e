package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// MarkdownParser handles Markdown files using goldmark. An optional YAML
// front matter block supplies id, title, slug and featured.
type MarkdownParser struct{}

type frontMatter struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Slug     string `yaml:"slug"`
	Featured bool   `yaml:"featured"`
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	doc := &doctree.Document{
		ID:               meta.ID,
		Title:            meta.Title,
		Slug:             meta.Slug,
		HasFeaturedAsset: meta.Featured,
	}
	if doc.ID == "" {
		doc.ID = titleFromFilename(filename)
	}
	if doc.Title == "" {
		doc.Title = titleFromFilename(filename)
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if b := markdownBlock(md, n, body); b != nil {
			doc.Blocks = append(doc.Blocks, b)
		}
	}
	doctree.Number(doc.Blocks)
	doc.Body = doctree.Serialize(doc.Blocks)
	return doc, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block.
func splitFrontMatter(src []byte) (frontMatter, []byte, error) {
	var meta frontMatter
	if !bytes.HasPrefix(src, []byte("---\n")) && !bytes.HasPrefix(src, []byte("---\r\n")) {
		return meta, src, nil
	}
	rest := src[bytes.IndexByte(src, '\n')+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return meta, src, nil
	}
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return meta, nil, fmt.Errorf("parse front matter: %w", err)
	}
	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return meta, body, nil
}

func markdownBlock(md goldmark.Markdown, n ast.Node, src []byte) *doctree.Block {
	switch node := n.(type) {
	case *ast.Heading:
		return headingBlock(node.Level, renderInline(md, node, src))

	case *ast.Paragraph:
		if img, ok := soleMarkdownImage(node); ok {
			return imageBlock(string(img.Destination), string(img.Text(src)))
		}
		return paragraphBlock(renderInline(md, node, src))

	case *ast.List:
		var items []*doctree.Block
		for li := node.FirstChild(); li != nil; li = li.NextSibling() {
			items = append(items, listItemBlock(renderInline(md, li, src)))
		}
		return listBlock(node.IsOrdered(), items)

	case *ast.Blockquote:
		return rawBlock("core/quote", renderNode(md, node, src))

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return rawBlock("core/code", renderNode(md, node, src))

	case *ast.ThematicBreak:
		return rawBlock("core/separator", `<hr class="wp-block-separator"/>`)

	case *ast.HTMLBlock:
		return doctree.Freeform(renderNode(md, node, src))
	}
	return nil
}

// soleMarkdownImage reports whether a paragraph holds nothing but an image.
func soleMarkdownImage(p *ast.Paragraph) (*ast.Image, bool) {
	if p.ChildCount() != 1 {
		return nil, false
	}
	img, ok := p.FirstChild().(*ast.Image)
	return img, ok
}

func renderNode(md goldmark.Markdown, n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, n); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

// renderInline renders the inline children of a block node, without the
// wrapping element goldmark would emit for the node itself.
func renderInline(md goldmark.Markdown, n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock {
			buf.WriteString(renderInline(md, c, src))
			continue
		}
		if err := md.Renderer().Render(&buf, src, c); err != nil {
			continue
		}
	}
	return strings.TrimSpace(buf.String())
}
