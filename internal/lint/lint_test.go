package lint

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/rules"
	"github.com/dgallion1/contentlint/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = `<!-- wp:heading --><h2 class="wp-block-heading">副業の始め方</h2><!-- /wp:heading -->
<!-- wp:heading {"level":3} --><h3 class="wp-block-heading">準備</h3><!-- /wp:heading -->
<!-- wp:image --><figure class="wp-block-image"><img src="a.jpg" alt=""/></figure><!-- /wp:image -->
<!-- wp:paragraph --><p>**注意**</p><!-- /wp:paragraph -->`

func testDoc() *doctree.Document {
	return &doctree.Document{ID: "42", Title: "副業 | 詐欺 詐欺", Slug: "my_slug", Body: body}
}

func TestEvaluate_DefaultSettings(t *testing.T) {
	cfg := settings.Defaults().RuleConfig()
	report := Evaluate(testDoc(), cfg, ScopeTotal)

	assert.Equal(t, "42", report.DocumentID)
	assert.Equal(t, ScopeTotal, report.Scope)
	want := map[rules.Kind]int{
		rules.ForbiddenTitle: 1, // "|"
		rules.CautionTitle:   1, // 副業
		rules.CautionH2:      1,
		rules.Duplicate:      1, // 詐欺 twice
		rules.Slug:           1,
		rules.FeaturedImage:  1,
		rules.AltMissing:     1,
		rules.BannedPatterns: 1,
		rules.H2H3Direct:     1,
	}
	sum := 0
	for k, n := range want {
		assert.Equal(t, n, report.Counts[k], "rule %s", k)
		sum += n
	}
	assert.Equal(t, sum, report.Total)
	assert.Len(t, report.Counts, 14, "zero counts are kept for every rule that ran")
	assert.Len(t, report.Findings, len(want), "zero findings are omitted")
	assert.Empty(t, report.Failed)

	_, ok := report.Counts[rules.TitleLength]
	assert.False(t, ok, "title length is live only")
}

func TestEvaluate_Idempotent(t *testing.T) {
	cfg := settings.Defaults().RuleConfig()
	doc := testDoc()
	first := Evaluate(doc, cfg, ScopeAll)
	second := Evaluate(doc, cfg, ScopeAll)
	assert.Equal(t, first, second)
	assert.Len(t, first.Counts, len(rules.Order))
}

func TestEvaluate_EmptySetIsZero(t *testing.T) {
	report := Evaluate(testDoc(), &rules.Config{}, ScopeLive)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Counts)
	assert.NotNil(t, report.Findings)
}

func TestEvaluate_RulePanicIsContained(t *testing.T) {
	rs := []rules.Rule{
		{Kind: rules.Slug, Check: func(*rules.Input, *rules.Config) rules.Finding { panic("bad attrs") }},
		{Kind: rules.FeaturedImage, Check: func(*rules.Input, *rules.Config) rules.Finding {
			return rules.Finding{Count: 1}
		}},
	}
	var failures []*RuleError
	report, err := evaluate(context.Background(), testDoc(), &rules.Config{}, ScopeLive, rs, func(e *RuleError) {
		failures = append(failures, e)
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 0, report.Counts[rules.Slug])
	assert.Equal(t, []rules.Kind{rules.Slug}, report.Failed)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Error(), "bad attrs")
	assert.Equal(t, rules.FeaturedImage, report.Findings[0].Rule)
}

func TestEvaluate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := evaluate(ctx, testDoc(), &rules.Config{}, ScopeAll, rules.For(rules.NewSet(rules.Order...)), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]Scope{"": ScopeLive, "live": ScopeLive, "total": ScopeTotal, "all": ScopeAll} {
		got, err := ParseScope(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseScope("everything")
	assert.Error(t, err)
}

func TestEngine(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := NewEngine(settings.Defaults().RuleConfig(), logger)

	assert.Equal(t, 9, engine.Total(testDoc()))
	assert.Equal(t, 1, engine.Stats().Count)
	assert.True(t, strings.Contains(logs.String(), "document evaluated"))

	engine.SetConfig(&rules.Config{Total: rules.NewSet(rules.Slug)})
	assert.Equal(t, 1, engine.Total(testDoc()))
	assert.Equal(t, 2, engine.Stats().Count)
}
