package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/filelock"
	"github.com/dgallion1/contentlint/internal/lint"
	"github.com/dgallion1/contentlint/internal/scorecache"
)

func newRecalcCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc <path>...",
		Short: "Recompute and overwrite the cached total of every document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			return saveTotals(cmd, opts, engine, docs)
		},
	}
}

// saveTotals writes every document's total into the cache while holding
// the cache lock.
func saveTotals(cmd *cobra.Command, opts *options, engine *lint.Engine, docs []*doctree.Document) error {
	store, err := opts.openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := scorecache.NewService(store, engine, opts.logger(cmd))
	lock := filelock.ForCache(opts.cachePath)
	return lock.With(cmd.Context(), func() error {
		n, err := svc.Recalculate(cmd.Context(), docs)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "recalculated %d document(s)\n", n)
		return nil
	})
}
