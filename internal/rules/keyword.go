package rules

import (
	"strings"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/parser"
)

// titleTokens counts each token contained in the title once, however many
// times it occurs.
func titleTokens(kind Kind, title string, tokens []string) Finding {
	f := Finding{Rule: kind}
	for _, tok := range tokens {
		if tok != "" && strings.Contains(title, tok) {
			f.add(titleLocation(tok))
		}
	}
	return f
}

// headingTokens counts H2 headings containing any token. A heading counts
// at most once: the first matching token wins.
func headingTokens(kind Kind, in *Input, tokens []string) Finding {
	f := Finding{Rule: kind}
	if len(tokens) == 0 {
		return f
	}
	for _, h := range in.headingsAt(2) {
		for _, tok := range tokens {
			if tok != "" && strings.Contains(h.text, tok) {
				f.add(blockLocation(h.block, h.text))
				break
			}
		}
	}
	return f
}

func checkForbiddenTitle(in *Input, cfg *Config) Finding {
	return titleTokens(ForbiddenTitle, in.Title, cfg.ForbiddenTitle)
}

func checkCautionTitle(in *Input, cfg *Config) Finding {
	return titleTokens(CautionTitle, in.Title, cfg.CautionTitle)
}

func checkForbiddenH2(in *Input, cfg *Config) Finding {
	return headingTokens(ForbiddenH2, in, cfg.ForbiddenHeading)
}

func checkCautionH2(in *Input, cfg *Config) Finding {
	return headingTokens(CautionH2, in, cfg.CautionHeading)
}

// checkDuplicate counts tokens occurring two or more times in the title.
func checkDuplicate(in *Input, cfg *Config) Finding {
	f := Finding{Rule: Duplicate}
	for _, tok := range cfg.DuplicateTitle {
		if tok != "" && strings.Count(in.Title, tok) >= 2 {
			f.add(titleLocation(tok))
		}
	}
	return f
}

// checkH2RequiredKeyword counts tokens that appear in the title but in no
// H2 heading. Tokens absent from the title are ignored.
func checkH2RequiredKeyword(in *Input, cfg *Config) Finding {
	f := Finding{Rule: H2RequiredKeyword}
	if len(cfg.H2Required) == 0 || in.Title == "" {
		return f
	}
	headings := in.headingsAt(2)
	for _, tok := range cfg.H2Required {
		if tok == "" || !strings.Contains(in.Title, tok) {
			continue
		}
		found := false
		for _, h := range headings {
			if strings.Contains(h.text, tok) {
				found = true
				break
			}
		}
		if !found {
			f.add(titleLocation(tok))
		}
	}
	return f
}

// checkRequiredKeyword counts required tokens missing from the title.
func checkRequiredKeyword(in *Input, cfg *Config) Finding {
	return missingFromTitle(RequiredKeyword, in.Title, cfg.RequiredTitle)
}

func checkRecommendedKeyword(in *Input, cfg *Config) Finding {
	return missingFromTitle(RecommendedKeyword, in.Title, cfg.RecommendedTitle)
}

func missingFromTitle(kind Kind, title string, tokens []string) Finding {
	f := Finding{Rule: kind}
	for _, tok := range tokens {
		if tok != "" && !strings.Contains(title, tok) {
			f.add(titleLocation(tok))
		}
	}
	return f
}

// bannedTextBlocks are the kinds whose text is searched for banned patterns.
var bannedTextBlocks = map[doctree.Kind]bool{
	doctree.KindHeading:   true,
	doctree.KindParagraph: true,
	doctree.KindListItem:  true,
}

// checkBannedPatterns counts every (pattern, location) match across the
// title and the text of headings, paragraphs and list items.
func checkBannedPatterns(in *Input, cfg *Config) Finding {
	f := Finding{Rule: BannedPatterns}
	if len(cfg.BannedPatterns) == 0 {
		return f
	}
	for _, pat := range cfg.BannedPatterns {
		if pat != "" && strings.Contains(in.Title, pat) {
			f.add(titleLocation(pat))
		}
	}
	for _, b := range in.Flat {
		if !bannedTextBlocks[b.Kind] {
			continue
		}
		text := parser.StripTags(b.InnerHTML)
		if text == "" {
			continue
		}
		for _, pat := range cfg.BannedPatterns {
			if pat != "" && strings.Contains(text, pat) {
				f.add(blockLocation(b, pat))
			}
		}
	}
	return f
}
