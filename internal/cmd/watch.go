package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dgallion1/contentlint/internal/debounce"
	"github.com/dgallion1/contentlint/internal/lint"
)

func newWatchCommand(opts *options) *cobra.Command {
	var (
		scope    string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-evaluate a document whenever it or the settings file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := lint.ParseScope(scope)
			if err != nil {
				return err
			}
			engine, _, err := opts.engine(cmd)
			if err != nil {
				return err
			}

			fw, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer fw.Close()

			// Watch directories: editors often replace files by rename.
			w := &docWatcher{
				opts:     opts,
				engine:   engine,
				scope:    sc,
				target:   filepath.Clean(args[0]),
				out:      cmd.OutOrStdout(),
				log:      opts.logger(cmd),
				debounce: debounce.New[lint.Report](interval),
			}
			if opts.settingsPath != "" {
				w.settingsPath = filepath.Clean(opts.settingsPath)
			}
			for _, dir := range w.dirs() {
				if err := fw.Add(dir); err != nil {
					return fmt.Errorf("watch %s: %w", dir, err)
				}
			}

			return w.run(cmd.Context(), fw.Events, fw.Errors)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", string(lint.ScopeLive), "rule set: live, total or all")
	cmd.Flags().DurationVar(&interval, "interval", debounce.DefaultInterval, "quiet period before re-evaluating")
	return cmd
}

// docWatcher turns file events into debounced evaluations.
type docWatcher struct {
	opts         *options
	engine       *lint.Engine
	scope        lint.Scope
	target       string
	settingsPath string
	out          io.Writer
	log          *slog.Logger
	debounce     *debounce.Scheduler[lint.Report]
}

func (w *docWatcher) dirs() []string {
	dirs := []string{filepath.Dir(w.target)}
	if w.settingsPath != "" {
		if d := filepath.Dir(w.settingsPath); d != dirs[0] {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (w *docWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	defer w.debounce.Stop()
	w.schedule()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *docWatcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	switch filepath.Clean(ev.Name) {
	case w.settingsPath:
		st, err := w.opts.settings()
		if err != nil {
			w.log.Warn("settings reload failed", "path", w.settingsPath, "error", err)
			return
		}
		w.engine.SetConfig(st.RuleConfig())
		w.log.Info("settings reloaded", "path", w.settingsPath)
		w.schedule()
	case w.target:
		w.schedule()
	}
}

// schedule queues an evaluation; only the latest one is printed.
func (w *docWatcher) schedule() {
	w.debounce.Schedule(func(ctx context.Context) lint.Report {
		docs, err := w.opts.loader().LoadFile(w.target)
		if err != nil || len(docs) == 0 {
			if err != nil {
				w.log.Warn("load failed", "path", w.target, "error", err)
			}
			return lint.Report{}
		}
		r, err := w.engine.EvaluateContext(ctx, docs[0], w.scope)
		if err != nil {
			return lint.Report{}
		}
		return r
	}, func(r lint.Report) {
		if r.Scope == "" {
			return
		}
		fmt.Fprintf(w.out, "--- %s\n", time.Now().Format(time.TimeOnly))
		printReport(w.out, r)
	})
}
