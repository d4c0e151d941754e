package scorecache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/lint"
	"github.com/dgallion1/contentlint/internal/pathstore"
	"github.com/dgallion1/contentlint/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kvServer is a minimal in-memory pathstore.
type kvServer struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func (s *kvServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "*"); ok {
			var nodes []pathstore.Node
			for path, v := range s.data {
				if strings.HasPrefix(path, prefix) {
					nodes = append(nodes, pathstore.Node{Key: path, Value: v})
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
			return
		}
		v, ok := s.data[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(pathstore.Node{Key: key, Value: v})
	case http.MethodPut:
		var req struct {
			Value json.RawMessage `json:"value"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		s.data[key] = req.Value
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(s.data, key)
		w.WriteHeader(http.StatusNoContent)
	}
}

func backends(t *testing.T) map[string]Store {
	sqlite, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	srv := httptest.NewServer(&kvServer{data: map[string]json.RawMessage{}})
	t.Cleanup(srv.Close)

	stores := map[string]Store{
		"memory":    NewMemoryStore(),
		"sqlite":    sqlite,
		"pathstore": NewPathstoreStore(pathstore.NewClient(srv.URL, "k")),
	}
	for _, s := range stores {
		t.Cleanup(func() { s.Close() })
	}
	return stores
}

func TestStores(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "1")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, "1", 3))
			require.NoError(t, store.Set(ctx, "2", 5))
			require.NoError(t, store.Set(ctx, "1", 4), "last writer wins")

			e, err := store.Get(ctx, "1")
			require.NoError(t, err)
			assert.Equal(t, 4, e.Total)
			assert.Equal(t, "1", e.DocumentID)
			assert.False(t, e.UpdatedAt.IsZero())

			entries, err := store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, entries, 2)

			require.NoError(t, store.Delete(ctx, "2"))
			_, err = store.Get(ctx, "2")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSort_MissingLast(t *testing.T) {
	entries := []Entry{
		{DocumentID: "a", Missing: true},
		{DocumentID: "b", Total: 1},
		{DocumentID: "c", Total: 5},
		{DocumentID: "d", Total: 1},
	}
	Sort(entries, Desc)
	assert.Equal(t, []string{"c", "b", "d", "a"}, ids(entries))
	Sort(entries, Asc)
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(entries))
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.DocumentID
	}
	return out
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, Desc, o)
	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}

func newService() *Service {
	cfg := &rules.Config{Total: rules.NewSet(rules.Slug, rules.FeaturedImage)}
	return NewService(NewMemoryStore(), lint.NewEngine(cfg, nil), nil)
}

func TestService_TotalComputesWhenMissing(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	doc := &doctree.Document{ID: "9", Slug: "123"}

	total, err := svc.Total(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// A cached value is returned as is, even when the document changed.
	doc.Slug = "fine"
	total, err = svc.Total(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	total, err = svc.Save(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestService_RecalculateOverwrites(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	require.NoError(t, svc.Store().Set(ctx, "a", 99))

	docs := []*doctree.Document{
		{ID: "a", HasFeaturedAsset: true},
		{ID: "b", Slug: "bad_slug"},
	}
	n, err := svc.Recalculate(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := svc.List(ctx, Desc)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].DocumentID)
	assert.Equal(t, 2, entries[0].Total)
	assert.Equal(t, 0, entries[1].Total)
}

func TestService_Rank(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	require.NoError(t, svc.Store().Set(ctx, "x", 1))

	entries, err := svc.Rank(ctx, []string{"missing", "x"}, Asc)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "missing"}, ids(entries))
	assert.True(t, entries[1].Missing)
}

func TestService_RecalculateCancelled(t *testing.T) {
	svc := newService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := svc.Recalculate(ctx, []*doctree.Document{{ID: "a"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestOpen(t *testing.T) {
	s, err := Open(BackendMemory, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(BackendPathstore, "", nil)
	assert.Error(t, err)
	_, err = Open("redis", "", nil)
	assert.Error(t, err)
}
