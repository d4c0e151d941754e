package scorecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/lint"
	"github.com/dgallion1/contentlint/internal/pathstore"
)

// Backend names accepted by Open.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendPathstore = "pathstore"
)

// Open constructs the named backend. dsn is the SQLite path; client is
// used for the pathstore backend.
func Open(backend, dsn string, client *pathstore.Client) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendSQLite:
		return NewSQLiteStore(dsn)
	case BackendPathstore:
		if client == nil {
			return nil, fmt.Errorf("pathstore backend requires a client")
		}
		return NewPathstoreStore(client), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}

// Service ties the lint engine to a store.
type Service struct {
	store  Store
	engine *lint.Engine
	logger *slog.Logger
}

func NewService(store Store, engine *lint.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, engine: engine, logger: logger}
}

// Store returns the underlying backend.
func (s *Service) Store() Store { return s.store }

// Save evaluates the total scope and writes the result once.
func (s *Service) Save(ctx context.Context, doc *doctree.Document) (int, error) {
	total := s.engine.Total(doc)
	if err := s.store.Set(ctx, doc.ID, total); err != nil {
		return 0, err
	}
	s.logger.Debug("score saved", "document_id", doc.ID, "total", total)
	return total, nil
}

// Total returns the cached total, computing and storing it when missing.
func (s *Service) Total(ctx context.Context, doc *doctree.Document) (int, error) {
	e, err := s.store.Get(ctx, doc.ID)
	if err == nil {
		return e.Total, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	return s.Save(ctx, doc)
}

// Cached returns the stored entry without evaluating.
func (s *Service) Cached(ctx context.Context, docID string) (Entry, error) {
	return s.store.Get(ctx, docID)
}

// Delete drops the cached total.
func (s *Service) Delete(ctx context.Context, docID string) error {
	return s.store.Delete(ctx, docID)
}

// Recalculate overwrites the total of every document. It stops at the
// first store error or when ctx is cancelled and reports how many
// documents were written.
func (s *Service) Recalculate(ctx context.Context, docs []*doctree.Document) (int, error) {
	done := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.Save(ctx, doc); err != nil {
			return done, fmt.Errorf("recalculate %s: %w", doc.ID, err)
		}
		done++
	}
	s.logger.Info("recalculated scores", "documents", done)
	return done, nil
}

// List returns every cached total in the given order.
func (s *Service) List(ctx context.Context, order Order) ([]Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	Sort(entries, order)
	return entries, nil
}

// Rank returns an entry per document id, marking ids with no cached
// total as missing and sorting them last.
func (s *Service) Rank(ctx context.Context, docIDs []string, order Order) ([]Entry, error) {
	out := make([]Entry, 0, len(docIDs))
	for _, id := range docIDs {
		e, err := s.store.Get(ctx, id)
		switch {
		case errors.Is(err, ErrNotFound):
			out = append(out, Entry{DocumentID: id, Missing: true})
		case err != nil:
			return nil, err
		default:
			out = append(out, e)
		}
	}
	Sort(out, order)
	return out, nil
}
