package rules

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/parser"
	"golang.org/x/text/unicode/norm"
)

// ValidSlug reports whether slug is acceptable. The empty slug is valid
// since it has not been assigned yet.
func ValidSlug(slug string) bool {
	if slug == "" {
		return true
	}
	digits := true
	for i := 0; i < len(slug); i++ {
		c := slug[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-':
			digits = false
		default:
			return false
		}
	}
	return !digits
}

func checkSlug(in *Input, _ *Config) Finding {
	f := Finding{Rule: Slug}
	if !ValidSlug(in.Slug) {
		f.add(Location{BlockID: TitleBlockID, Block: "slug", Detail: in.Slug})
	}
	return f
}

func checkFeaturedImage(in *Input, _ *Config) Finding {
	f := Finding{Rule: FeaturedImage}
	if !in.HasFeaturedAsset {
		f.add(Location{BlockID: TitleBlockID, Block: "featured_image"})
	}
	return f
}

// TitleLen is the title length in characters after NFC normalisation.
func TitleLen(title string) int {
	return utf8.RuneCountInString(norm.NFC.String(title))
}

// checkTitleLength flags a non-empty title outside the configured bounds.
func checkTitleLength(in *Input, cfg *Config) Finding {
	f := Finding{Rule: TitleLength}
	n := TitleLen(in.Title)
	if n == 0 {
		return f
	}
	lo, hi := cfg.titleBounds()
	if n < lo || n > hi {
		f.add(titleLocation(strconv.Itoa(n)))
	}
	return f
}

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s<>"']+`)

// IsNakedURL reports whether a link's anchor text is the URL it points to.
func IsNakedURL(href, text string) bool {
	if text == "" || !urlPattern.MatchString(text) {
		return false
	}
	h, t := normalizeURL(href), normalizeURL(text)
	return h == t || strings.Contains(h, t) || strings.Contains(t, h)
}

func normalizeURL(u string) string {
	u = strings.ToLower(u)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	u = strings.TrimRight(u, "/")
	return strings.TrimSpace(u)
}

// checkNakedURL counts links whose anchor text is a bare URL.
func checkNakedURL(in *Input, _ *Config) Finding {
	f := Finding{Rule: NakedURL}
	doctree.Walk(in.Blocks, func(b *doctree.Block) {
		for _, link := range parser.Links(b.InnerHTML) {
			if IsNakedURL(link.Href, link.Text) {
				f.add(blockLocation(b, link.Text))
			}
		}
	})
	return f
}
