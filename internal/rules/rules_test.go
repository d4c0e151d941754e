package rules

import (
	"strings"
	"testing"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(title, body string) *Input {
	return NewInput(&doctree.Document{Title: title, Body: body})
}

func heading(level int, text string) string {
	if level == 2 {
		return `<!-- wp:heading --><h2 class="wp-block-heading">` + text + `</h2><!-- /wp:heading -->`
	}
	lv := string(rune('0' + level))
	return `<!-- wp:heading {"level":` + lv + `} --><h` + lv + ` class="wp-block-heading">` + text + `</h` + lv + `><!-- /wp:heading -->`
}

func paragraph(text string) string {
	return `<!-- wp:paragraph --><p>` + text + `</p><!-- /wp:paragraph -->`
}

const image = `<!-- wp:image {"id":1} --><figure class="wp-block-image"><img src="a.jpg" alt=""/></figure><!-- /wp:image -->`

func TestTitleVersusHeadingKeywords(t *testing.T) {
	cfg := &Config{
		ForbiddenTitle:   []string{"scam", "fraud"},
		ForbiddenHeading: []string{"scam", "fraud"},
	}

	in := input("scam scam-alert", "")
	assert.Equal(t, 1, checkForbiddenTitle(in, cfg).Count, "one matching token, not occurrences")

	in = input("", heading(2, "scam one")+heading(2, "scam and fraud")+heading(3, "scam"))
	f := checkForbiddenH2(in, cfg)
	assert.Equal(t, 2, f.Count, "each H2 counts at most once")
	require.Len(t, f.Locations, 2)
	assert.Equal(t, "scam one", f.Locations[0].Detail)
}

func TestHeadingKeywords_ClassicMarkup(t *testing.T) {
	cfg := &Config{CautionHeading: []string{"投資"}}
	in := input("", `<h2>投資の話</h2><p>text</p><h2>other</h2>`)
	assert.Equal(t, 1, checkCautionH2(in, cfg).Count)
}

func TestHeadingKeywords_EmptyListContributesZero(t *testing.T) {
	in := input("", heading(2, "anything"))
	assert.Equal(t, 0, checkForbiddenH2(in, &Config{}).Count)
}

func TestDuplicate(t *testing.T) {
	cfg := &Config{DuplicateTitle: []string{"詐欺", "口コミ", "評判"}}
	in := input("詐欺の口コミ 詐欺 評判 口コミ 口コミ", "")
	f := checkDuplicate(in, cfg)
	assert.Equal(t, 2, f.Count, "two tokens repeat, regardless of how often")
}

func TestH2RequiredKeyword(t *testing.T) {
	cfg := &Config{H2Required: []string{"refund", "lawyer", "absent"}}
	in := input("refund and lawyer guide", heading(2, "How refund works")+heading(3, "lawyer"))
	f := checkH2RequiredKeyword(in, cfg)
	assert.Equal(t, 1, f.Count)
	assert.Equal(t, "lawyer", f.Locations[0].Detail)

	assert.Equal(t, 0, checkH2RequiredKeyword(input("", heading(2, "x")), cfg).Count)
}

func TestRequiredAndRecommendedKeywords(t *testing.T) {
	cfg := &Config{RequiredTitle: []string{"a", "b", "c"}, RecommendedTitle: []string{"z"}}
	in := input("a c", "")
	assert.Equal(t, 1, checkRequiredKeyword(in, cfg).Count)
	assert.Equal(t, 1, checkRecommendedKeyword(in, cfg).Count)
}

func TestBannedPatterns(t *testing.T) {
	cfg := &Config{BannedPatterns: []string{"**", "TODO"}}
	body := paragraph("bold **x** and TODO") +
		`<!-- wp:list --><ul><!-- wp:list-item --><li>**</li><!-- /wp:list-item --></ul><!-- /wp:list -->` +
		`<!-- wp:code --><pre>**</pre><!-- /wp:code -->`
	in := input("title **", body)

	f := checkBannedPatterns(in, cfg)
	assert.Equal(t, 4, f.Count, "title, two in paragraph, list item; code ignored")
	assert.Equal(t, TitleBlockID, f.Locations[0].BlockID)
}

func TestAltMissing(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty alt attr and markup", image, 1},
		{"alt attribute", `<!-- wp:image {"alt":"x"} --><figure><img src="a.jpg"/></figure><!-- /wp:image -->`, 0},
		{"alt only in markup", `<!-- wp:image --><figure><img src="a.jpg" alt="cat"/></figure><!-- /wp:image -->`, 0},
		{"whitespace alt attribute", `<!-- wp:image {"alt":"  "} --><figure><img src="a.jpg"/></figure><!-- /wp:image -->`, 1},
		{"gallery one of three missing", `<!-- wp:gallery {"images":[{"id":1,"alt":"a"},{"id":2,"alt":""},{"id":3,"alt":"c"}]} --><figure></figure><!-- /wp:gallery -->`, 1},
		{"gallery all missing", `<!-- wp:gallery {"images":[{"id":1},{"id":2},{"id":3}]} --><figure></figure><!-- /wp:gallery -->`, 3},
		{"cover without image", `<!-- wp:cover --><div class="wp-block-cover"></div><!-- /wp:cover -->`, 0},
		{"cover with image", `<!-- wp:cover {"url":"bg.jpg"} --><div class="wp-block-cover"><img src="bg.jpg"/></div><!-- /wp:cover -->`, 1},
		{"media text with alt", `<!-- wp:media-text {"mediaUrl":"m.jpg","mediaAlt":"m"} --><div></div><!-- /wp:media-text -->`, 0},
		{"media text without media", `<!-- wp:media-text --><div></div><!-- /wp:media-text -->`, 0},
		{"nested image", `<!-- wp:group --><div>` + image + `</div><!-- /wp:group -->`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkAltMissing(input("", tt.body), &Config{}).Count)
		})
	}
}

func TestLongParagraph_Boundary(t *testing.T) {
	cfg := &Config{ParagraphThreshold: 10}
	assert.Equal(t, 1, checkLongParagraph(input("", paragraph(strings.Repeat("あ", 10))), cfg).Count)
	assert.Equal(t, 0, checkLongParagraph(input("", paragraph(strings.Repeat("あ", 9))), cfg).Count)
	assert.Equal(t, 0, checkLongParagraph(input("", paragraph("<strong>"+strings.Repeat("x", 9)+"</strong>")), cfg).Count,
		"tags are not counted")
}

func TestLongParagraph_DefaultThreshold(t *testing.T) {
	in := input("", paragraph(strings.Repeat("x", DefaultParagraphThreshold)))
	assert.Equal(t, 1, checkLongParagraph(in, &Config{}).Count)
}

func TestLongParagraph_ExclusionInherited(t *testing.T) {
	cfg := &Config{ParagraphThreshold: 5, ExcludeClasses: []string{"swell-block-accordion__body"}}
	long := paragraph("long enough text")

	viaMarkup := `<!-- wp:swell/accordion-item --><div class="x swell-block-accordion__body">` +
		`<!-- wp:group --><div>` + long + `</div><!-- /wp:group -->` +
		`</div><!-- /wp:swell/accordion-item -->`
	assert.Equal(t, 0, checkLongParagraph(input("", viaMarkup), cfg).Count)

	viaClassName := `<!-- wp:group {"className":"swell-block-accordion__body"} --><div>` + long + `</div><!-- /wp:group -->`
	assert.Equal(t, 0, checkLongParagraph(input("", viaClassName), cfg).Count)

	// Markup mentioning the token without class= does not exclude.
	noClassAttr := `<!-- wp:group --><div data-x="swell-block-accordion__body">` + long + `</div><!-- /wp:group -->`
	assert.Equal(t, 1, checkLongParagraph(input("", noClassAttr), cfg).Count)

	sibling := viaClassName + long
	assert.Equal(t, 1, checkLongParagraph(input("", sibling), cfg).Count, "exclusion does not leak to siblings")
}

func TestH2H3Direct(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"h2 h3", heading(2, "a") + heading(3, "b"), 1},
		{"h2 image h3", heading(2, "a") + image + heading(3, "b"), 1},
		{"h2 paragraph h3", heading(2, "a") + paragraph("p") + heading(3, "b"), 0},
		{"h2 image paragraph", heading(2, "a") + image + paragraph("p"), 0},
		{"h2 at end", paragraph("p") + heading(2, "a"), 0},
		{"whitespace between blocks", heading(2, "a") + "\n\n" + heading(3, "b"), 1},
		{"nested in group", `<!-- wp:group --><div>` + heading(2, "a") + `</div><!-- /wp:group -->` + heading(3, "b"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkH2H3Direct(input("", tt.body), &Config{}).Count)
		})
	}
}

func TestDuplicateHeading(t *testing.T) {
	body := heading(2, "A") + heading(3, "B") + heading(2, " A ") + heading(4, "A") + heading(2, "")
	f := checkDuplicateHeading(input("", body), &Config{})
	assert.Equal(t, 1, f.Count)
	assert.Equal(t, "A", f.Locations[0].Detail)
}

func TestDuplicatePattern(t *testing.T) {
	body := `<!-- wp:block {"ref":12} /--><!-- wp:block {"ref":12} /-->` +
		`<!-- wp:block {"ref":7} /--><!-- wp:block {"ref":7} /--><!-- wp:block {"ref":7} /-->` +
		`<!-- wp:block {"ref":99} /-->`
	cfg := &Config{WatchedPatterns: []string{"12", "99"}}
	assert.Equal(t, 1, checkDuplicatePattern(input("", body), cfg).Count)

	assert.Equal(t, 0, checkDuplicatePattern(input("", body), &Config{}).Count)
}

func TestValidSlug(t *testing.T) {
	tests := map[string]bool{
		"":          true,
		"123":       false,
		"my_slug":   false,
		"my-slug-2": true,
		"MySlug":    true,
		"日本語":       false,
		"a b":       false,
		"-":         true,
	}
	for slug, want := range tests {
		assert.Equal(t, want, ValidSlug(slug), "slug %q", slug)
	}
}

func TestFeaturedImage(t *testing.T) {
	assert.Equal(t, 1, checkFeaturedImage(&Input{}, &Config{}).Count)
	assert.Equal(t, 0, checkFeaturedImage(&Input{HasFeaturedAsset: true}, &Config{}).Count)
}

func TestTitleLength(t *testing.T) {
	cfg := &Config{TitleMin: 3, TitleMax: 5}
	assert.Equal(t, 0, checkTitleLength(input("", ""), cfg).Count, "empty title is not judged")
	assert.Equal(t, 1, checkTitleLength(input("ab", ""), cfg).Count)
	assert.Equal(t, 0, checkTitleLength(input("abcde", ""), cfg).Count)
	assert.Equal(t, 1, checkTitleLength(input("abcdef", ""), cfg).Count)

	// Decomposed kana normalise to one character each.
	assert.Equal(t, 3, TitleLen("\u304b\u3099\u304b\u3099\u304b\u3099"))
}

func TestNakedURL(t *testing.T) {
	assert.True(t, IsNakedURL("https://www.example.com/", "http://example.com"))
	assert.True(t, IsNakedURL("https://example.com/a/b", "https://example.com/a"))
	assert.False(t, IsNakedURL("https://example.com/", "Example site"))
	assert.False(t, IsNakedURL("https://example.com/", ""))
	assert.False(t, IsNakedURL("https://example.com/", "https://other.org"))

	body := paragraph(`see <a href="https://example.com/">https://example.com</a> or <a href="https://example.com">here</a>`) +
		`<p>classic <a href="http://x.io">http://x.io/</a></p>`
	assert.Equal(t, 2, checkNakedURL(input("", body), &Config{}).Count)
}

func TestRulesDoNotMutateInput(t *testing.T) {
	body := heading(2, "A") + heading(3, "A") + image + paragraph(strings.Repeat("x", 300))
	in := input("A title", body)
	before := doctree.Serialize(in.Blocks)
	cfg := &Config{BannedPatterns: []string{"x"}}

	for _, k := range Order {
		r, ok := Lookup(k)
		require.True(t, ok, "rule %s is registered", k)
		first := r.Check(in, cfg)
		second := r.Check(in, cfg)
		assert.Equal(t, first, second, "rule %s is deterministic", k)
		assert.Equal(t, k, first.Rule)
	}
	assert.Equal(t, before, doctree.Serialize(in.Blocks))
}

func TestSet(t *testing.T) {
	s := NewSet(NakedURL, Slug, AltMissing)
	assert.Equal(t, []Kind{Slug, AltMissing, NakedURL}, s.Kinds())
	assert.Equal(t, []string{"alt_missing", "naked_url", "slug"}, s.Strings())
	assert.False(t, Set(nil).Has(Slug))
	assert.Len(t, For(s), 3)

	k, err := ParseKind(" long_paragraph ")
	require.NoError(t, err)
	assert.Equal(t, LongParagraph, k)
	_, err = ParseKind("nope")
	assert.Error(t, err)
}
