package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dgallion1/contentlint/internal/lint"
	"github.com/dgallion1/contentlint/internal/rules"
	"github.com/dgallion1/contentlint/internal/scorecache"
)

var (
	okColor    = color.New(color.FgGreen)
	errColor   = color.New(color.FgRed, color.Bold)
	ruleColor  = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
	titleColor = color.New(color.Bold)
)

func printReport(w io.Writer, r lint.Report) {
	titleColor.Fprint(w, r.DocumentID)
	if r.Total == 0 {
		okColor.Fprintln(w, "  ok")
	} else {
		errColor.Fprintf(w, "  %d error(s)\n", r.Total)
	}
	for _, f := range r.Findings {
		ruleColor.Fprintf(w, "  %-22s", f.Rule)
		fmt.Fprintf(w, " %d\n", f.Count)
		for _, loc := range f.Locations {
			dimColor.Fprintf(w, "    %s\n", formatLocation(loc))
		}
	}
	for _, k := range r.Failed {
		errColor.Fprintf(w, "  %-22s rule failed\n", k)
	}
}

func formatLocation(loc rules.Location) string {
	where := loc.Block
	if loc.BlockID != rules.TitleBlockID {
		where = fmt.Sprintf("#%d %s", loc.BlockID, loc.Block)
	}
	if loc.Detail == "" {
		return where
	}
	return fmt.Sprintf("%s: %q", where, loc.Detail)
}

func printScores(w io.Writer, entries []scorecache.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no cached scores")
		return
	}
	for _, e := range entries {
		switch {
		case e.Missing:
			dimColor.Fprintf(w, "%6s  %s\n", "-", e.DocumentID)
		case e.Total == 0:
			okColor.Fprintf(w, "%6d", e.Total)
			fmt.Fprintf(w, "  %s\n", e.DocumentID)
		default:
			errColor.Fprintf(w, "%6d", e.Total)
			fmt.Fprintf(w, "  %s\n", e.DocumentID)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
