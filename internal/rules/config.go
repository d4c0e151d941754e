package rules

// DefaultParagraphThreshold is the long-paragraph threshold used when none
// is configured.
const DefaultParagraphThreshold = 200

// Default title length bounds, in characters.
const (
	DefaultTitleMin = 28
	DefaultTitleMax = 40
)

// Config holds everything the rules read. Token lists are consumed in
// order and may contain duplicates. A Config is never mutated by a rule.
type Config struct {
	ForbiddenTitle   []string
	ForbiddenHeading []string
	CautionTitle     []string
	CautionHeading   []string
	DuplicateTitle   []string
	RequiredTitle    []string
	RecommendedTitle []string
	H2Required       []string
	BannedPatterns   []string

	// WatchedPatterns are the shared pattern reference ids checked for reuse.
	WatchedPatterns []string

	// ExcludeClasses mark subtrees exempt from the long-paragraph rule.
	ExcludeClasses     []string
	ParagraphThreshold int

	TitleMin int
	TitleMax int

	// Live is the set shown while editing. Total is the set summed into
	// the cached score.
	Live  Set
	Total Set
}

// threshold returns the paragraph threshold, falling back to the default.
func (c *Config) threshold() int {
	if c.ParagraphThreshold <= 0 {
		return DefaultParagraphThreshold
	}
	return c.ParagraphThreshold
}

func (c *Config) titleBounds() (int, int) {
	lo, hi := c.TitleMin, c.TitleMax
	if lo <= 0 {
		lo = DefaultTitleMin
	}
	if hi <= 0 {
		hi = DefaultTitleMax
	}
	return lo, hi
}
