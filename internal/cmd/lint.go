package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/lint"
)

func newLintCommand(opts *options) *cobra.Command {
	var (
		fail   bool
		scope  string
		asJSON bool
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "lint <path>...",
		Short: "Evaluate documents and print their findings",
		Long: `Evaluate every document found at the given paths. Directories are
walked recursively; CSV manifests yield one document per row.

--scope selects the rule set: live (editor view, default), total (the
rules summed into the cached total) or all.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := lint.ParseScope(scope)
			if err != nil {
				return err
			}
			engine, _, err := opts.engine(cmd)
			if err != nil {
				return err
			}

			var docs []*doctree.Document
			loader := opts.loader()
			for _, path := range args {
				got, err := loader.Load(path)
				if err != nil {
					return err
				}
				docs = append(docs, got...)
			}

			reports := make([]lint.Report, 0, len(docs))
			failed := false
			for _, doc := range docs {
				r, err := engine.EvaluateContext(cmd.Context(), doc, sc)
				if err != nil {
					return err
				}
				reports = append(reports, r)
				if r.Total > 0 {
					failed = true
				}
			}

			if save {
				if err := saveTotals(cmd, opts, engine, docs); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					printReport(out, r)
				}
			}

			if fail && failed {
				return ErrFindings
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "exit 1 when any document has findings")
	cmd.Flags().StringVar(&scope, "scope", string(lint.ScopeLive), "rule set: live, total or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "also store each document's total in the cache")
	return cmd
}
