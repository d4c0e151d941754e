// Package cmd implements the contentlint command line.
package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dgallion1/contentlint/internal/lint"
	"github.com/dgallion1/contentlint/internal/scorecache"
	"github.com/dgallion1/contentlint/internal/settings"
	"github.com/dgallion1/contentlint/internal/source"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ErrFindings is returned by lint --fail when any document has findings.
var ErrFindings = errors.New("documents have findings")

// DefaultCache is the SQLite cache used when --cache is not given.
const DefaultCache = "contentlint.db"

// options holds the global flags and the filesystem commands read from.
type options struct {
	settingsPath string
	cachePath    string
	verbose      bool
	noColor      bool

	fs afero.Fs
}

// NewRootCommand creates the root command for contentlint.
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs())
}

func newRootCommand(fsys afero.Fs) *cobra.Command {
	opts := &options{fs: fsys}

	cmd := &cobra.Command{
		Use:   "contentlint",
		Short: "Check posts against editorial content rules",
		Long: `contentlint evaluates posts written in block markup against a set of
editorial rules (forbidden and caution keywords, heading structure, image
alt text, long paragraphs, slugs) and keeps a cached error total per post.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor || !isTerminal(cmd.OutOrStdout()) {
				color.NoColor = true
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.settingsPath, "settings", os.Getenv("CONTENTLINT_SETTINGS"), "settings file (YAML)")
	flags.StringVar(&opts.cachePath, "cache", DefaultCache, "SQLite score cache path")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(newLintCommand(opts))
	cmd.AddCommand(newWatchCommand(opts))
	cmd.AddCommand(newRecalcCommand(opts))
	cmd.AddCommand(newScoresCommand(opts))
	cmd.AddCommand(newConvertCommand(opts))
	cmd.AddCommand(newSettingsCommand(opts))

	return cmd
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *options) settings() (settings.Settings, error) {
	return settings.Load(o.fs, o.settingsPath)
}

func (o *options) engine(cmd *cobra.Command) (*lint.Engine, settings.Settings, error) {
	st, err := o.settings()
	if err != nil {
		return nil, st, err
	}
	return lint.NewEngine(st.RuleConfig(), o.logger(cmd)), st, nil
}

func (o *options) loader() *source.Loader {
	return &source.Loader{Fs: o.fs, PDFFallbackPdftotext: true}
}

func (o *options) openCache() (scorecache.Store, error) {
	return scorecache.NewSQLiteStore(o.cachePath)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
