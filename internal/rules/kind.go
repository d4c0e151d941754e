package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies a rule. The string value is the stable key used in
// reports, settings and the HTTP API.
type Kind string

const (
	ForbiddenTitle     Kind = "forbidden_title"
	ForbiddenH2        Kind = "forbidden_h2"
	CautionTitle       Kind = "caution_title"
	CautionH2          Kind = "caution_h2"
	Duplicate          Kind = "duplicate"
	Slug               Kind = "slug"
	FeaturedImage      Kind = "featured_image"
	AltMissing         Kind = "alt_missing"
	LongParagraph      Kind = "long_paragraph"
	BannedPatterns     Kind = "banned_patterns"
	H2H3Direct         Kind = "h2_h3_direct"
	DuplicateHeading   Kind = "duplicate_heading"
	H2RequiredKeyword  Kind = "h2_required_keyword"
	DuplicatePattern   Kind = "duplicate_pattern"
	TitleLength        Kind = "title_length"
	RequiredKeyword    Kind = "required_keyword"
	RecommendedKeyword Kind = "recommended_keyword"
	NakedURL           Kind = "naked_url"
)

// Order lists every rule in report order.
var Order = []Kind{
	ForbiddenTitle,
	ForbiddenH2,
	CautionTitle,
	CautionH2,
	Duplicate,
	Slug,
	FeaturedImage,
	AltMissing,
	LongParagraph,
	BannedPatterns,
	H2H3Direct,
	DuplicateHeading,
	H2RequiredKeyword,
	DuplicatePattern,
	TitleLength,
	RequiredKeyword,
	RecommendedKeyword,
	NakedURL,
}

// ParseKind resolves a rule key.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	for _, known := range Order {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown rule %q", s)
}

// Set is a set of enabled rules.
type Set map[Kind]bool

// NewSet returns a set containing kinds.
func NewSet(kinds ...Kind) Set {
	s := make(Set, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

// Has reports whether k is enabled. A nil set has nothing enabled.
func (s Set) Has(k Kind) bool {
	return s[k]
}

// Kinds returns the enabled rules in report order.
func (s Set) Kinds() []Kind {
	out := make([]Kind, 0, len(s))
	for _, k := range Order {
		if s[k] {
			out = append(out, k)
		}
	}
	return out
}

// Strings returns the enabled rule keys sorted, for logging and display.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for k, on := range s {
		if on {
			out = append(out, string(k))
		}
	}
	sort.Strings(out)
	return out
}
