package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/contentlint/internal/doctree"
)

func newConvertCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <file>",
		Short: "Import a Markdown, HTML, DOCX, PDF or text file and print it as block markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := opts.loader().LoadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, doc := range docs {
				body := doc.Body
				if len(doc.Blocks) > 0 {
					body = doctree.Serialize(doc.Blocks)
				}
				if len(docs) > 1 || doc.Title != "" {
					fmt.Fprintf(out, "<!-- title: %s -->\n", doc.Title)
				}
				fmt.Fprintln(out, body)
			}
			return nil
		},
	}
}
