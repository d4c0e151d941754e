package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/lint"
	"github.com/dgallion1/contentlint/internal/scorecache"
)

// Worker recalculates the cached totals of one job's documents.
type Worker struct {
	engine *lint.Engine
	store  scorecache.Store
	log    *slog.Logger

	maxConcurrentStore int

	// backoff is swapped in tests.
	backoff func(attempt int) time.Duration
}

func NewWorker(engine *lint.Engine, store scorecache.Store, log *slog.Logger, maxStore int) *Worker {
	if maxStore <= 0 {
		maxStore = 1
	}
	return &Worker{
		engine:             engine,
		store:              store,
		log:                log,
		maxConcurrentStore: maxStore,
		backoff:            Backoff,
	}
}

// Process evaluates every document of job and overwrites its cached total.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	defer job.release()

	docs := job.Documents()
	job.SetStatus(StatusRunning, "evaluating")
	log.Info("recalculation started", "documents", len(docs))

	type result struct {
		docID string
		err   error
	}
	results := make(chan result, len(docs))
	sem := make(chan struct{}, w.maxConcurrentStore)

	for _, doc := range docs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results <- result{docID: doc.ID, err: ctx.Err()}
			continue
		}
		go func(doc *doctree.Document) {
			defer func() { <-sem }()
			results <- result{docID: doc.ID, err: w.save(ctx, log, doc)}
		}(doc)
	}

	stored := 0
	for range docs {
		r := <-results
		job.IncrProcessed(r.err == nil)
		if r.err != nil {
			log.Error("store failed", "document_id", r.docID, "error", r.err)
			job.AddError(fmt.Sprintf("%s: %s", r.docID, r.err))
			continue
		}
		stored++
	}

	switch {
	case stored == len(docs):
		job.SetStatus(StatusCompleted, "done")
	case stored > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "storing")
	}
	log.Info("recalculation finished", "stored", stored, "total", len(docs))
}

// save computes the total scope and writes it, retrying store errors.
func (w *Worker) save(ctx context.Context, log *slog.Logger, doc *doctree.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document has no id")
	}
	total := w.engine.Total(doc)

	var lastErr error
	for attempt := range MaxRetries {
		lastErr = w.store.Set(ctx, doc.ID, total)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable store error", "document_id", doc.ID, "attempt", attempt, "error", lastErr)
		if attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
