package parser

import (
	"encoding/json"
	"strings"

	"github.com/dgallion1/contentlint/internal/doctree"
)

// ParseBlocks converts comment-delimited block markup into a block tree.
//
// Parsing is total: unknown names become KindOther blocks, stray markup
// becomes typeless freeform blocks, invalid attribute JSON decodes to an
// empty map and unclosed blocks are closed at end of input.
func ParseBlocks(markup string) []*doctree.Block {
	p := &blockParser{doc: markup}
	for p.proceed() {
	}
	doctree.Number(p.output)
	return p.output
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	tokenOpener
	tokenCloser
	tokenVoid
)

type token struct {
	kind  tokenKind
	name  string
	attrs map[string]any
	start int
	end   int
}

type frame struct {
	name     string
	attrs    map[string]any
	start    int // offset of the opener comment
	next     int // offset where the next markup chunk begins
	chunks   []string
	children []*doctree.Block
}

type blockParser struct {
	doc    string
	offset int
	output []*doctree.Block
	stack  []*frame
}

func (p *blockParser) proceed() bool {
	tok := p.nextToken()

	switch tok.kind {
	case tokenNone:
		if len(p.stack) == 0 {
			p.addFreeform(len(p.doc))
			return false
		}
		for len(p.stack) > 0 {
			p.closeTop(len(p.doc), len(p.doc))
		}
		return false

	case tokenVoid:
		b := doctree.NewBlock(tok.name, tok.attrs, "", nil)
		if len(p.stack) == 0 {
			p.addFreeform(tok.start)
			p.output = append(p.output, b)
		} else {
			p.attach(p.stack[len(p.stack)-1], b, tok.start, tok.end)
		}
		p.offset = tok.end
		return true

	case tokenOpener:
		if len(p.stack) == 0 {
			p.addFreeform(tok.start)
		}
		p.stack = append(p.stack, &frame{
			name:  tok.name,
			attrs: tok.attrs,
			start: tok.start,
			next:  tok.end,
		})
		p.offset = tok.end
		return true

	case tokenCloser:
		if len(p.stack) == 0 {
			// Nothing to close: the remainder is opaque markup.
			p.addFreeform(len(p.doc))
			return false
		}
		p.closeTop(tok.start, tok.end)
		p.offset = tok.end
		return true
	}
	return false
}

// closeTop finalizes the innermost open block. contentEnd is where its own
// markup stops; resume is where parsing continues in the parent.
func (p *blockParser) closeTop(contentEnd, resume int) {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	if contentEnd < f.next {
		contentEnd = f.next
	}
	f.chunks = append(f.chunks, p.doc[f.next:contentEnd])
	b := doctree.NewBlock(f.name, f.attrs, strings.Join(f.chunks, ""), f.children)
	b.InnerContent = f.chunks

	if len(p.stack) == 0 {
		p.output = append(p.output, b)
		return
	}
	p.attach(p.stack[len(p.stack)-1], b, f.start, resume)
}

func (p *blockParser) attach(parent *frame, child *doctree.Block, childStart, childEnd int) {
	if childStart < parent.next {
		childStart = parent.next
	}
	parent.chunks = append(parent.chunks, p.doc[parent.next:childStart])
	parent.children = append(parent.children, child)
	if childEnd < childStart {
		childEnd = childStart
	}
	parent.next = childEnd
}

func (p *blockParser) addFreeform(end int) {
	if end <= p.offset {
		return
	}
	p.output = append(p.output, doctree.Freeform(p.doc[p.offset:end]))
	p.offset = end
}

// nextToken finds the next block delimiter at or after the current offset.
func (p *blockParser) nextToken() token {
	from := p.offset
	for {
		i := strings.Index(p.doc[from:], "<!--")
		if i < 0 {
			return token{kind: tokenNone}
		}
		start := from + i
		if tok, ok := scanDelimiter(p.doc, start); ok {
			return tok
		}
		from = start + len("<!--")
	}
}

// scanDelimiter matches
//
//	<!--\s+(/)?wp:(ns/)?name\s+({json}\s+)?(/)?-->
//
// at doc[start:].
func scanDelimiter(doc string, start int) (token, bool) {
	pos := start + len("<!--")
	ws := skipSpace(doc, pos)
	if ws == pos {
		return token{}, false
	}
	pos = ws

	closer := false
	if pos < len(doc) && doc[pos] == '/' {
		closer = true
		pos++
	}
	if !strings.HasPrefix(doc[pos:], "wp:") {
		return token{}, false
	}
	pos += len("wp:")

	name, n := scanName(doc[pos:])
	if n == 0 {
		return token{}, false
	}
	pos += n

	ws = skipSpace(doc, pos)
	if ws == pos {
		return token{}, false
	}
	pos = ws

	var attrs map[string]any
	if !closer && pos < len(doc) && doc[pos] == '{' {
		end, ok := attrsEnd(doc, pos)
		if !ok {
			return token{}, false
		}
		attrs = decodeAttrs(doc[pos : end+1])
		pos = skipSpace(doc, end+1)
	}

	void := false
	if pos < len(doc) && doc[pos] == '/' {
		void = true
		pos++
	}
	if !strings.HasPrefix(doc[pos:], "-->") {
		return token{}, false
	}
	pos += len("-->")

	tok := token{name: name, attrs: attrs, start: start, end: pos}
	switch {
	case closer:
		tok.kind = tokenCloser
	case void:
		tok.kind = tokenVoid
	default:
		tok.kind = tokenOpener
	}
	return tok, true
}

// attrsEnd returns the index of the brace closing the attribute object:
// the first '}' followed by whitespace and an optional '/' before '-->'.
func attrsEnd(doc string, open int) (int, bool) {
	for i := open + 1; i < len(doc); i++ {
		if doc[i] != '}' {
			continue
		}
		j := skipSpace(doc, i+1)
		if j == i+1 {
			continue
		}
		if j < len(doc) && doc[j] == '/' {
			j++
		}
		if strings.HasPrefix(doc[j:], "-->") {
			return i, true
		}
	}
	return 0, false
}

func decodeAttrs(raw string) map[string]any {
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil || attrs == nil {
		return map[string]any{}
	}
	return attrs
}

// scanName reads [a-z][a-z0-9_-]* optionally prefixed by a namespace of
// the same shape and a slash.
func scanName(s string) (string, int) {
	first := nameSegment(s)
	if first == 0 {
		return "", 0
	}
	if first < len(s) && s[first] == '/' {
		second := nameSegment(s[first+1:])
		if second == 0 {
			return "", 0
		}
		n := first + 1 + second
		return s[:n], n
	}
	return s[:first], first
}

func nameSegment(s string) int {
	if len(s) == 0 || s[0] < 'a' || s[0] > 'z' {
		return 0
	}
	i := 1
	for i < len(s) {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-' {
			i++
			continue
		}
		break
	}
	return i
}

func skipSpace(doc string, pos int) int {
	for pos < len(doc) {
		switch doc[pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			pos++
		default:
			return pos
		}
	}
	return pos
}
