// Package lint runs the enabled rules over a document and sums the
// results into a report.
package lint

import (
	"context"
	"fmt"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/rules"
)

// Scope selects which enabled set an evaluation uses.
type Scope string

const (
	// ScopeLive runs the rules shown while editing.
	ScopeLive Scope = "live"
	// ScopeTotal runs the rules summed into the cached total.
	ScopeTotal Scope = "total"
	// ScopeAll runs every rule regardless of toggles.
	ScopeAll Scope = "all"
)

// ParseScope resolves a scope name; the empty string means live.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeLive:
		return ScopeLive, nil
	case ScopeTotal, ScopeAll:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope %q (want live, total or all)", s)
}

func (s Scope) set(cfg *rules.Config) rules.Set {
	switch s {
	case ScopeTotal:
		return cfg.Total
	case ScopeAll:
		return rules.NewSet(rules.Order...)
	}
	return cfg.Live
}

// Report is the outcome of one evaluation. Counts holds every rule that
// ran, zeros included; Findings holds only rules with a positive count.
type Report struct {
	DocumentID string             `json:"document_id,omitempty"`
	Scope      Scope              `json:"scope"`
	Counts     map[rules.Kind]int `json:"counts"`
	Total      int                `json:"total"`
	Findings   []rules.Finding    `json:"findings"`
	Failed     []rules.Kind       `json:"failed,omitempty"`
}

// RuleError describes a rule that panicked during evaluation.
type RuleError struct {
	Rule  rules.Kind
	Value any
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.Rule, e.Value)
}

// Evaluate runs the rules enabled in scope over doc. It is a pure
// function of its arguments. A rule that panics contributes 0 and is
// listed in Report.Failed.
func Evaluate(doc *doctree.Document, cfg *rules.Config, scope Scope) Report {
	report, _ := evaluate(context.Background(), doc, cfg, scope, rules.For(scope.set(cfg)), nil)
	return report
}

// evaluate checks ctx between rules and returns its error when cancelled.
func evaluate(ctx context.Context, doc *doctree.Document, cfg *rules.Config, scope Scope,
	rs []rules.Rule, onFail func(*RuleError)) (Report, error) {

	report := Report{
		DocumentID: doc.ID,
		Scope:      scope,
		Counts:     make(map[rules.Kind]int, len(rs)),
		Findings:   []rules.Finding{},
	}
	in := rules.NewInput(doc)

	for _, r := range rs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		f, rerr := run(r, in, cfg)
		if rerr != nil {
			report.Counts[r.Kind] = 0
			report.Failed = append(report.Failed, r.Kind)
			if onFail != nil {
				onFail(rerr)
			}
			continue
		}
		f.Rule = r.Kind
		report.Counts[r.Kind] = f.Count
		report.Total += f.Count
		if f.Count > 0 {
			report.Findings = append(report.Findings, f)
		}
	}
	return report, nil
}

func run(r rules.Rule, in *rules.Input, cfg *rules.Config) (f rules.Finding, err *RuleError) {
	defer func() {
		if v := recover(); v != nil {
			err = &RuleError{Rule: r.Kind, Value: v}
		}
	}()
	return r.Check(in, cfg), nil
}
