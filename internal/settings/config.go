package settings

import "github.com/dgallion1/contentlint/internal/rules"

// RuleConfig converts the settings into the configuration the rules read.
//
// The live set follows the feature toggles. heading_structure_enabled is a
// master switch over the two heading-structure checks. The total set
// follows the post_list_show_* toggles only.
func (s Settings) RuleConfig() *rules.Config {
	cfg := &rules.Config{
		ForbiddenTitle:     Normalize(s.ForbiddenKeywords),
		ForbiddenHeading:   Normalize(s.ForbiddenKeywordsHeading),
		CautionTitle:       Normalize(s.CautionKeywords),
		CautionHeading:     Normalize(s.CautionKeywordsHeading),
		DuplicateTitle:     Normalize(s.DuplicateKeywords),
		RequiredTitle:      Normalize(s.RequiredKeywords),
		RecommendedTitle:   Normalize(s.RecommendedKeywords),
		H2Required:         Normalize(s.H2RequiredKeywords),
		BannedPatterns:     Normalize(s.BannedPatterns),
		WatchedPatterns:    Normalize(s.DuplicatePatternNames),
		ExcludeClasses:     Normalize(s.LongParagraphExcludeClasses),
		ParagraphThreshold: s.LongParagraphThreshold,
		TitleMin:           s.CharMin,
		TitleMax:           s.CharMax,
		Live:               rules.Set{},
		Total:              rules.Set{},
	}

	live := func(on bool, kinds ...rules.Kind) {
		for _, k := range kinds {
			cfg.Live[k] = on
		}
	}
	live(s.ForbiddenKeywordEnabled, rules.ForbiddenTitle, rules.ForbiddenH2)
	live(s.CautionKeywordEnabled, rules.CautionTitle, rules.CautionH2)
	live(s.DuplicateKeywordEnabled, rules.Duplicate)
	live(s.SlugCheckerEnabled, rules.Slug)
	live(s.FeaturedImageCheckerEnabled, rules.FeaturedImage)
	live(s.AltCheckerEnabled, rules.AltMissing)
	live(s.LongParagraphEnabled, rules.LongParagraph)
	live(s.BannedPatternsEnabled, rules.BannedPatterns)
	live(s.HeadingStructureEnabled && s.H2H3DirectEnabled, rules.H2H3Direct)
	live(s.HeadingStructureEnabled && s.DuplicateHeadingEnabled, rules.DuplicateHeading)
	live(s.H2RequiredKeywordEnabled, rules.H2RequiredKeyword)
	live(s.DuplicatePatternEnabled, rules.DuplicatePattern)
	live(s.TitleCheckerEnabled, rules.TitleLength, rules.RequiredKeyword, rules.RecommendedKeyword)
	live(s.NakedURLEnabled, rules.NakedURL)

	p := s.PostList
	total := map[rules.Kind]bool{
		rules.ForbiddenTitle:    p.ForbiddenTitle,
		rules.ForbiddenH2:       p.ForbiddenHeading,
		rules.CautionTitle:      p.CautionTitle,
		rules.CautionH2:         p.CautionHeading,
		rules.Duplicate:         p.DuplicateKeyword,
		rules.Slug:              p.SlugError,
		rules.FeaturedImage:     p.FeaturedImage,
		rules.AltMissing:        p.AltMissing,
		rules.LongParagraph:     p.LongParagraph,
		rules.BannedPatterns:    p.BannedPatterns,
		rules.H2H3Direct:        p.H2H3Direct,
		rules.DuplicateHeading:  p.DuplicateHeading,
		rules.H2RequiredKeyword: p.H2RequiredKeyword,
		rules.DuplicatePattern:  p.DuplicatePatternShow,
	}
	for k, on := range total {
		if on {
			cfg.Total[k] = true
		}
	}
	for k, on := range cfg.Live {
		if !on {
			delete(cfg.Live, k)
		}
	}
	return cfg
}
