package rules

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/parser"
)

// checkAltMissing counts images without alt text. Each gallery entry is
// counted separately; covers and media-text blocks without media are
// skipped.
func checkAltMissing(in *Input, _ *Config) Finding {
	f := Finding{Rule: AltMissing}
	for _, b := range in.Flat {
		switch attrs := b.Typed.(type) {
		case doctree.ImageAttrs:
			if !hasAlt(attrs.Alt, b.InnerHTML) {
				f.add(blockLocation(b, attrs.URL))
			}
		case doctree.GalleryAttrs:
			for _, img := range attrs.Images {
				if strings.TrimSpace(img.Alt) == "" {
					f.add(blockLocation(b, img.URL))
				}
			}
		case doctree.CoverAttrs:
			if attrs.URL != "" && !hasAlt(attrs.Alt, b.InnerHTML) {
				f.add(blockLocation(b, attrs.URL))
			}
		case doctree.MediaTextAttrs:
			if attrs.MediaURL != "" && !hasAlt(attrs.MediaAlt, b.InnerHTML) {
				f.add(blockLocation(b, attrs.MediaURL))
			}
		}
	}
	return f
}

func hasAlt(attr, markup string) bool {
	return strings.TrimSpace(attr) != "" || parser.HasImageAlt(markup)
}

// checkLongParagraph counts paragraphs whose plain text reaches the
// threshold. A block carrying an exclude class, in its className or in
// markup containing class=, excludes itself and its whole subtree.
func checkLongParagraph(in *Input, cfg *Config) Finding {
	f := Finding{Rule: LongParagraph}
	threshold := cfg.threshold()

	doctree.Descend(in.Blocks, false, func(b *doctree.Block, excluded bool) bool {
		if !excluded {
			excluded = hasExcludeClass(b, cfg.ExcludeClasses)
		}
		if excluded || b.Kind != doctree.KindParagraph {
			return excluded
		}
		text := parser.StripTags(b.InnerHTML)
		if n := utf8.RuneCountInString(text); n >= threshold {
			f.add(blockLocation(b, truncate(text, 40)))
		}
		return false
	})
	return f
}

func hasExcludeClass(b *doctree.Block, classes []string) bool {
	for _, cls := range classes {
		if cls != "" && strings.Contains(b.ClassName, cls) {
			return true
		}
	}
	if !strings.Contains(b.InnerHTML, "class=") {
		return false
	}
	for _, cls := range classes {
		if cls != "" && strings.Contains(b.InnerHTML, cls) {
			return true
		}
	}
	return false
}

// checkH2H3Direct counts H2 headings followed directly by an H3, or by an
// image and then an H3, in reading order.
func checkH2H3Direct(in *Input, _ *Config) Finding {
	f := Finding{Rule: H2H3Direct}
	flat := in.Flat
	for i := 0; i+1 < len(flat); i++ {
		if !flat[i].IsHeading(2) {
			continue
		}
		next := flat[i+1]
		switch {
		case next.IsHeading(3):
			f.add(blockLocation(flat[i], parser.StripTags(flat[i].InnerHTML)))
		case next.Kind == doctree.KindImage && i+2 < len(flat) && flat[i+2].IsHeading(3):
			f.add(blockLocation(flat[i], parser.StripTags(flat[i].InnerHTML)))
		}
	}
	return f
}

// checkDuplicateHeading counts distinct heading texts used more than once.
func checkDuplicateHeading(in *Input, _ *Config) Finding {
	f := Finding{Rule: DuplicateHeading}
	seen := map[string]int{}
	var order []string
	first := map[string]*doctree.Block{}
	for _, b := range in.Flat {
		if b.Kind != doctree.KindHeading {
			continue
		}
		text := parser.StripTags(b.InnerHTML)
		if text == "" {
			continue
		}
		if seen[text] == 0 {
			order = append(order, text)
			first[text] = b
		}
		seen[text]++
	}
	for _, text := range order {
		if seen[text] >= 2 {
			f.add(blockLocation(first[text], text))
		}
	}
	return f
}

// checkDuplicatePattern counts watched pattern references used two or
// more times.
func checkDuplicatePattern(in *Input, cfg *Config) Finding {
	f := Finding{Rule: DuplicatePattern}
	if len(cfg.WatchedPatterns) == 0 {
		return f
	}
	watched := make(map[string]bool, len(cfg.WatchedPatterns))
	for _, ref := range cfg.WatchedPatterns {
		watched[ref] = true
	}

	uses := map[string]int{}
	var order []string
	first := map[string]*doctree.Block{}
	for _, b := range in.Flat {
		ref, ok := b.Typed.(doctree.PatternRefAttrs)
		if !ok || ref.Ref == "" || !watched[ref.Ref] {
			continue
		}
		if uses[ref.Ref] == 0 {
			order = append(order, ref.Ref)
			first[ref.Ref] = b
		}
		uses[ref.Ref]++
	}
	for _, ref := range order {
		if uses[ref] >= 2 {
			f.add(blockLocation(first[ref], ref))
		}
	}
	return f
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
