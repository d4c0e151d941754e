// Package settings holds the user-editable rule settings. Keyword lists
// are stored as newline-delimited text, exactly as typed, and normalised
// when converted into a rules.Config.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/dgallion1/contentlint/internal/rules"
	"github.com/dgallion1/contentlint/internal/source"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Settings is the settings document. Keys mirror the option names of the
// editor plugin so exported option sets load unchanged.
type Settings struct {
	AltCheckerEnabled   bool   `yaml:"alt_checker_enabled"`
	NakedURLEnabled     bool   `yaml:"naked_url_enabled"`
	TitleCheckerEnabled bool   `yaml:"title_checker_enabled"`
	CharMin             int    `yaml:"char_min"`
	CharMax             int    `yaml:"char_max"`
	RequiredKeywords    string `yaml:"required_kw"`
	RecommendedKeywords string `yaml:"recommended_kw"`
	Checklist           string `yaml:"checklist"`

	LongParagraphEnabled        bool   `yaml:"long_paragraph_enabled"`
	LongParagraphThreshold      int    `yaml:"long_paragraph_threshold"`
	LongParagraphExcludeClasses string `yaml:"long_paragraph_exclude_classes"`

	HeadingStructureEnabled     bool `yaml:"heading_structure_enabled"`
	SlugCheckerEnabled          bool `yaml:"slug_checker_enabled"`
	FeaturedImageCheckerEnabled bool `yaml:"featured_image_checker_enabled"`

	DuplicateKeywordEnabled bool   `yaml:"duplicate_keyword_enabled"`
	DuplicateKeywords       string `yaml:"duplicate_keywords"`

	ForbiddenKeywordEnabled  bool   `yaml:"forbidden_keyword_enabled"`
	ForbiddenKeywords        string `yaml:"forbidden_keywords"`
	ForbiddenKeywordsHeading string `yaml:"forbidden_keywords_heading"`

	CautionKeywordEnabled  bool   `yaml:"caution_keyword_enabled"`
	CautionKeywords        string `yaml:"caution_keywords"`
	CautionKeywordsHeading string `yaml:"caution_keywords_heading"`

	BannedPatternsEnabled bool   `yaml:"banned_patterns_enabled"`
	BannedPatterns        string `yaml:"banned_patterns"`

	H2H3DirectEnabled       bool `yaml:"h2_h3_direct_enabled"`
	DuplicateHeadingEnabled bool `yaml:"duplicate_heading_enabled"`

	H2RequiredKeywordEnabled bool   `yaml:"h2_required_keyword_enabled"`
	H2RequiredKeywords       string `yaml:"h2_required_keywords"`

	DuplicatePatternEnabled bool   `yaml:"duplicate_pattern_enabled"`
	DuplicatePatternNames   string `yaml:"duplicate_pattern_names"`

	PostList PostList `yaml:",inline"`
}

// PostList selects the findings summed into the cached total.
type PostList struct {
	ErrorColumnEnabled   bool `yaml:"post_list_error_column_enabled"`
	ForbiddenTitle       bool `yaml:"post_list_show_forbidden_keyword_title"`
	ForbiddenHeading     bool `yaml:"post_list_show_forbidden_keyword_heading"`
	CautionTitle         bool `yaml:"post_list_show_caution_keyword_title"`
	CautionHeading       bool `yaml:"post_list_show_caution_keyword_heading"`
	DuplicateKeyword     bool `yaml:"post_list_show_duplicate_keyword"`
	SlugError            bool `yaml:"post_list_show_slug_error"`
	FeaturedImage        bool `yaml:"post_list_show_featured_image"`
	AltMissing           bool `yaml:"post_list_show_alt_missing"`
	LongParagraph        bool `yaml:"post_list_show_long_paragraph"`
	BannedPatterns       bool `yaml:"post_list_show_banned_patterns"`
	H2H3Direct           bool `yaml:"post_list_show_h2_h3_direct"`
	DuplicateHeading     bool `yaml:"post_list_show_duplicate_heading"`
	H2RequiredKeyword    bool `yaml:"post_list_show_h2_required_keyword"`
	DuplicatePatternShow bool `yaml:"post_list_show_duplicate_pattern"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		AltCheckerEnabled:   true,
		NakedURLEnabled:     true,
		TitleCheckerEnabled: true,
		CharMin:             rules.DefaultTitleMin,
		CharMax:             rules.DefaultTitleMax,
		RequiredKeywords:    "詐欺\n口コミ\n評判",
		RecommendedKeywords: "返金",
		Checklist: "振り込め詐欺・タスク詐欺・投資詐欺など、一般系の記事と重複するようなキーワードが入っていないか\n" +
			"同じKWを複数回使用していないか？（無駄なので避けたい）",

		LongParagraphEnabled:        true,
		LongParagraphThreshold:      rules.DefaultParagraphThreshold,
		LongParagraphExcludeClasses: "swell-block-accordion__body",

		HeadingStructureEnabled:     true,
		SlugCheckerEnabled:          true,
		FeaturedImageCheckerEnabled: true,

		DuplicateKeywordEnabled: true,
		DuplicateKeywords:       "詐欺\n口コミ\n評判\n返金\n弁護士\n手口",

		ForbiddenKeywordEnabled: true,
		ForbiddenKeywords:       "|\n｜",

		CautionKeywordEnabled:  true,
		CautionKeywords:        "投資\n副業\nネットショップ",
		CautionKeywordsHeading: "投資\n副業\nネットショップ",

		BannedPatternsEnabled: true,
		BannedPatterns:        "**",

		H2H3DirectEnabled:        true,
		DuplicateHeadingEnabled:  true,
		H2RequiredKeywordEnabled: true,
		DuplicatePatternEnabled:  true,

		PostList: PostList{
			ErrorColumnEnabled:   true,
			ForbiddenTitle:       true,
			ForbiddenHeading:     true,
			CautionTitle:         true,
			CautionHeading:       true,
			DuplicateKeyword:     true,
			SlugError:            true,
			FeaturedImage:        true,
			AltMissing:           true,
			LongParagraph:        true,
			BannedPatterns:       true,
			H2H3Direct:           true,
			DuplicateHeading:     true,
			H2RequiredKeyword:    true,
			DuplicatePatternShow: true,
		},
	}
}

// Normalize splits newline-delimited text into tokens: each line is
// trimmed and blank lines are dropped. Order and duplicates are kept.
func Normalize(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Load reads a YAML settings file from fsys. Keys missing from the file
// keep their default; a missing file yields Defaults. An empty path also
// yields Defaults.
func Load(fsys afero.Fs, path string) (Settings, error) {
	s := Defaults()
	if path == "" {
		return s, nil
	}
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("settings: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML settings document over the defaults. Unknown keys
// are rejected.
func Parse(data []byte) (Settings, error) {
	s := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Defaults(), fmt.Errorf("settings: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// Validate checks the numeric parameters.
func (s Settings) Validate() error {
	if s.CharMin < 0 || s.CharMax < 0 || s.LongParagraphThreshold < 0 {
		return fmt.Errorf("settings: char_min, char_max and long_paragraph_threshold must not be negative")
	}
	if s.CharMax > 0 && s.CharMin > s.CharMax {
		return fmt.Errorf("settings: char_min (%d) exceeds char_max (%d)", s.CharMin, s.CharMax)
	}
	return nil
}

// Marshal renders s as YAML.
func (s Settings) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("settings: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("settings: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes s to path atomically.
func Save(fsys afero.Fs, path string, s Settings) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return source.WriteFileAtomic(fsys, path, data)
}
