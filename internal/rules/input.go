package rules

import (
	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/parser"
)

// TitleBlockID marks a location in the document title rather than a block.
const TitleBlockID = -1

// Input is a document prepared for rule evaluation. The block tree is
// parsed and flattened once and shared read-only by every rule.
type Input struct {
	Title            string
	Slug             string
	HasFeaturedAsset bool
	Blocks           []*doctree.Block
	Flat             []*doctree.Block
}

// NewInput prepares doc. Blocks already attached to the document are
// used as is; otherwise the body is parsed.
func NewInput(doc *doctree.Document) *Input {
	blocks := doc.Blocks
	if blocks == nil {
		blocks = parser.ParseBlocks(doc.Body)
	}
	return &Input{
		Title:            doc.Title,
		Slug:             doc.Slug,
		HasFeaturedAsset: doc.HasFeaturedAsset,
		Blocks:           blocks,
		Flat:             doctree.Flatten(blocks),
	}
}

// headingText is the plain text of one heading found in the body.
type headingText struct {
	block *doctree.Block
	text  string
}

// headingsAt collects headings of the given level in reading order. Typed
// heading blocks use their level attribute; <hN> elements in the markup of
// any other block, including freeform HTML, are found by tag.
func (in *Input) headingsAt(level int) []headingText {
	var out []headingText
	doctree.Walk(in.Blocks, func(b *doctree.Block) {
		if b.Kind == doctree.KindHeading {
			if b.HeadingLevel() == level {
				out = append(out, headingText{b, parser.StripTags(b.InnerHTML)})
			}
			return
		}
		for _, text := range parser.HeadingElements(b.InnerHTML, level) {
			out = append(out, headingText{b, text})
		}
	})
	return out
}

func titleLocation(detail string) Location {
	return Location{BlockID: TitleBlockID, Block: "title", Detail: detail}
}

func blockLocation(b *doctree.Block, detail string) Location {
	name := b.Name
	if name == "" {
		name = "freeform"
	}
	return Location{BlockID: b.ID, Block: name, Detail: detail}
}
