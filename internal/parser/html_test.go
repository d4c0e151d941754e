package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLParser_ClassicMarkup(t *testing.T) {
	input := `<html><head><title>My Post</title></head><body>
<div class="entry"><h2>Intro</h2><p>Hello</p><p><img src="a.png" alt=""></p><ul><li>x</li><li>y</li></ul></div>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "post.html")
	require.NoError(t, err)

	assert.Equal(t, "My Post", doc.Title)
	assert.Equal(t, "post", doc.ID)
	require.Len(t, doc.Blocks, 4)

	assert.True(t, doc.Blocks[0].IsHeading(2))
	assert.Equal(t, "<p>Hello</p>", doc.Blocks[1].InnerHTML)
	assert.Equal(t, doctree.KindImage, doc.Blocks[2].Kind)
	assert.Equal(t, doctree.ImageAttrs{}, doc.Blocks[2].Typed)
	assert.Len(t, doc.Blocks[3].Children, 2)

	// Body holds block markup that parses back to the same shape.
	reparsed := doctree.Flatten(ParseBlocks(doc.Body))
	assert.Len(t, reparsed, len(doctree.Flatten(doc.Blocks)))
}

func TestHTMLParser_BlockMarkupKeptVerbatim(t *testing.T) {
	input := `<!-- wp:paragraph --><p>x</p><!-- /wp:paragraph -->`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "export.htm")
	require.NoError(t, err)

	assert.Equal(t, input, doc.Body)
	assert.Nil(t, doc.Blocks)
	assert.Equal(t, "export", doc.Title)
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.json", "a.HTML", "a.md", "a.txt", "a.pdf", "a.docx"} {
		p, err := ForFile(name)
		assert.NoError(t, err, name)
		assert.NotNil(t, p, name)
	}

	_, err := ForFile("a.csv")
	assert.Error(t, err)
	_, err = ForFile("a.exe")
	assert.Error(t, err)

	assert.True(t, IsSupportedExtension("docs/x.Markdown"))
	assert.False(t, IsSupportedExtension("x.go"))
}

func TestJSONParser(t *testing.T) {
	input := `{"title":"T","slug":"s","body":"<!-- wp:paragraph --><p>x</p><!-- /wp:paragraph -->","has_featured_asset":true}`
	p := &JSONParser{}
	doc, err := p.Parse(strings.NewReader(input), "dir/123.json")
	require.NoError(t, err)

	assert.Equal(t, "123", doc.ID)
	assert.Equal(t, "T", doc.Title)
	assert.True(t, doc.HasFeaturedAsset)

	_, err = p.Parse(strings.NewReader("{"), "bad.json")
	assert.Error(t, err)
}
