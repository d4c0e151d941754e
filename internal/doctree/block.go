package doctree

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the closed set of block kinds the rules understand.
type Kind int

const (
	KindNone Kind = iota // typeless wrapper or freeform HTML
	KindHeading
	KindParagraph
	KindImage
	KindGallery
	KindCover
	KindMediaText
	KindListItem
	KindPatternRef
	KindOther // typed, but not inspected by any rule
)

// Block names as they appear in serialized markup (namespace included).
const (
	NameHeading    = "core/heading"
	NameParagraph  = "core/paragraph"
	NameImage      = "core/image"
	NameGallery    = "core/gallery"
	NameCover      = "core/cover"
	NameMediaText  = "core/media-text"
	NameListItem   = "core/list-item"
	NamePatternRef = "core/block"
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindImage:
		return "image"
	case KindGallery:
		return "gallery"
	case KindCover:
		return "cover"
	case KindMediaText:
		return "media-text"
	case KindListItem:
		return "list-item"
	case KindPatternRef:
		return "pattern-ref"
	case KindOther:
		return "other"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindOf maps a fully qualified block name to its kind.
func KindOf(name string) Kind {
	switch name {
	case "":
		return KindNone
	case NameHeading:
		return KindHeading
	case NameParagraph:
		return KindParagraph
	case NameImage:
		return KindImage
	case NameGallery:
		return KindGallery
	case NameCover:
		return KindCover
	case NameMediaText:
		return KindMediaText
	case NameListItem:
		return KindListItem
	case NamePatternRef:
		return KindPatternRef
	}
	return KindOther
}

// QualifyName adds the implicit "core/" namespace to bare block names.
func QualifyName(name string) string {
	if name == "" || strings.Contains(name, "/") {
		return name
	}
	return "core/" + name
}

// TypedAttrs is implemented by the per-kind attribute schemas below.
type TypedAttrs interface {
	isTypedAttrs()
}

// HeadingAttrs holds heading attributes. Level defaults to 2.
type HeadingAttrs struct {
	Level int
}

// ImageAttrs holds core/image attributes.
type ImageAttrs struct {
	Alt string
	URL string
}

// GalleryImage is one entry of a gallery's images attribute.
type GalleryImage struct {
	ID  string
	Alt string
	URL string
}

// GalleryAttrs holds core/gallery attributes.
type GalleryAttrs struct {
	Images []GalleryImage
}

// CoverAttrs holds core/cover attributes. URL is the background image.
type CoverAttrs struct {
	URL string
	Alt string
}

// MediaTextAttrs holds core/media-text attributes.
type MediaTextAttrs struct {
	MediaURL  string
	MediaAlt  string
	MediaType string
}

// PatternRefAttrs holds the shared pattern reference of a core/block.
type PatternRefAttrs struct {
	Ref string
}

func (HeadingAttrs) isTypedAttrs()    {}
func (ImageAttrs) isTypedAttrs()      {}
func (GalleryAttrs) isTypedAttrs()    {}
func (CoverAttrs) isTypedAttrs()      {}
func (MediaTextAttrs) isTypedAttrs()  {}
func (PatternRefAttrs) isTypedAttrs() {}

// Block is one node of a parsed document body.
type Block struct {
	ID        int    // pre-order position within its parse tree
	Name      string // fully qualified, empty for wrappers
	Kind      Kind
	ClassName string
	Attrs     map[string]any
	Typed     TypedAttrs // nil for kinds without a schema
	InnerHTML string     // own markup, nested blocks excluded

	// InnerContent holds the markup chunks around nested blocks:
	// chunk[0] child[0] chunk[1] ... child[n-1] chunk[n]. May be nil.
	InnerContent []string
	Children     []*Block
}

// NewBlock builds a block, decoding the typed schema for its kind.
// Malformed attribute values decode to their zero value.
func NewBlock(name string, attrs map[string]any, innerHTML string, children []*Block) *Block {
	name = QualifyName(name)
	if attrs == nil {
		attrs = map[string]any{}
	}
	b := &Block{
		Name:      name,
		Kind:      KindOf(name),
		ClassName: attrString(attrs, "className"),
		Attrs:     attrs,
		InnerHTML: innerHTML,
		Children:  children,
	}
	b.Typed = decodeTyped(b.Kind, attrs)
	return b
}

// Freeform returns a typeless block carrying raw markup.
func Freeform(html string) *Block {
	return &Block{Kind: KindNone, Attrs: map[string]any{}, InnerHTML: html}
}

// HeadingLevel returns the heading level, or 0 for non-headings.
func (b *Block) HeadingLevel() int {
	if h, ok := b.Typed.(HeadingAttrs); ok {
		return h.Level
	}
	return 0
}

// IsHeading reports whether b is a heading at the given level.
func (b *Block) IsHeading(level int) bool {
	return b.Kind == KindHeading && b.HeadingLevel() == level
}

func decodeTyped(kind Kind, attrs map[string]any) TypedAttrs {
	switch kind {
	case KindHeading:
		level := attrInt(attrs, "level")
		if level <= 0 {
			level = 2
		}
		return HeadingAttrs{Level: level}
	case KindImage:
		return ImageAttrs{Alt: attrString(attrs, "alt"), URL: attrString(attrs, "url")}
	case KindGallery:
		var images []GalleryImage
		if raw, ok := attrs["images"].([]any); ok {
			for _, item := range raw {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				images = append(images, GalleryImage{
					ID:  attrString(m, "id"),
					Alt: attrString(m, "alt"),
					URL: attrString(m, "url"),
				})
			}
		}
		return GalleryAttrs{Images: images}
	case KindCover:
		return CoverAttrs{URL: attrString(attrs, "url"), Alt: attrString(attrs, "alt")}
	case KindMediaText:
		return MediaTextAttrs{
			MediaURL:  attrString(attrs, "mediaUrl"),
			MediaAlt:  attrString(attrs, "mediaAlt"),
			MediaType: attrString(attrs, "mediaType"),
		}
	case KindPatternRef:
		return PatternRefAttrs{Ref: attrString(attrs, "ref")}
	}
	return nil
}

// attrString reads a scalar attribute as a string. Numbers are formatted
// without a fractional part when integral, so {"ref": 42} reads as "42".
func attrString(attrs map[string]any, key string) string {
	switch v := attrs[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func attrInt(attrs map[string]any, key string) int {
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n
		}
	}
	return 0
}
