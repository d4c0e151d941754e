package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/contentlint/internal/scorecache"
)

func newScoresCommand(opts *options) *cobra.Command {
	var (
		order  string
		asJSON bool
		ids    []string
	)

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "List cached totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.settings()
			if err != nil {
				return err
			}
			if !st.PostList.ErrorColumnEnabled {
				return fmt.Errorf("the error column is disabled (post_list_error_column_enabled: false)")
			}
			o, err := scorecache.ParseOrder(order)
			if err != nil {
				return err
			}

			engine, _, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			store, err := opts.openCache()
			if err != nil {
				return err
			}
			defer store.Close()
			svc := scorecache.NewService(store, engine, opts.logger(cmd))

			var entries []scorecache.Entry
			if len(ids) > 0 {
				entries, err = svc.Rank(cmd.Context(), ids, o)
			} else {
				entries, err = svc.List(cmd.Context(), o)
			}
			if err != nil {
				return err
			}

			if asJSON {
				if entries == nil {
					entries = []scorecache.Entry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			printScores(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&order, "order", string(scorecache.Desc), "sort order: desc or asc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringSliceVar(&ids, "id", nil, "only these document ids; ids without a cached total are listed last")
	return cmd
}
