// Package rules implements the content checks. Every rule is a pure
// function of an Input and a Config and returns a Finding; rules share no
// state and may run in any order.
package rules

// Location points at the part of a document that triggered a rule.
type Location struct {
	BlockID int    `json:"block_id"`
	Block   string `json:"block"`
	Detail  string `json:"detail,omitempty"`
}

// Finding is the result of one rule on one document.
type Finding struct {
	Rule      Kind       `json:"rule"`
	Count     int        `json:"count"`
	Locations []Location `json:"locations,omitempty"`
}

func (f *Finding) add(loc Location) {
	f.Count++
	f.Locations = append(f.Locations, loc)
}

// Check evaluates one rule.
type Check func(in *Input, cfg *Config) Finding

// Rule pairs a kind with its check.
type Rule struct {
	Kind  Kind
	Check Check
}

var registry = map[Kind]Check{
	ForbiddenTitle:     checkForbiddenTitle,
	ForbiddenH2:        checkForbiddenH2,
	CautionTitle:       checkCautionTitle,
	CautionH2:          checkCautionH2,
	Duplicate:          checkDuplicate,
	Slug:               checkSlug,
	FeaturedImage:      checkFeaturedImage,
	AltMissing:         checkAltMissing,
	LongParagraph:      checkLongParagraph,
	BannedPatterns:     checkBannedPatterns,
	H2H3Direct:         checkH2H3Direct,
	DuplicateHeading:   checkDuplicateHeading,
	H2RequiredKeyword:  checkH2RequiredKeyword,
	DuplicatePattern:   checkDuplicatePattern,
	TitleLength:        checkTitleLength,
	RequiredKeyword:    checkRequiredKeyword,
	RecommendedKeyword: checkRecommendedKeyword,
	NakedURL:           checkNakedURL,
}

// Lookup returns the rule for k.
func Lookup(k Kind) (Rule, bool) {
	check, ok := registry[k]
	return Rule{Kind: k, Check: check}, ok
}

// For returns the rules enabled in set, in report order.
func For(set Set) []Rule {
	var out []Rule
	for _, k := range set.Kinds() {
		if r, ok := Lookup(k); ok {
			out = append(out, r)
		}
	}
	return out
}
