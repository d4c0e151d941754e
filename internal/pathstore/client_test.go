package pathstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer is an in-memory pathstore speaking the /kv API.
type fakeServer struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
	auth []string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	f := &fakeServer{data: map[string]json.RawMessage{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(key, "/*"):
		prefix := strings.TrimSuffix(key, "*")
		var nodes []Node
		for k, v := range f.data {
			if strings.HasPrefix(k, prefix) {
				nodes = append(nodes, Node{Key: k, Value: v})
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
	case r.Method == http.MethodGet:
		v, ok := f.data[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(Node{Key: key, Value: v})
	case r.Method == http.MethodPut:
		var req struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.data[key] = req.Value
		w.WriteHeader(http.StatusCreated)
	case r.Method == http.MethodDelete:
		if _, ok := f.data[key]; !ok {
			http.NotFound(w, r)
			return
		}
		delete(f.data, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestClient_PutGetDelete(t *testing.T) {
	fake, srv := newFakeServer(t)
	c := NewClient(srv.URL+"/", "secret")
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "a/b", 7))

	var got int
	require.NoError(t, c.Get(ctx, "a/b", &got))
	assert.Equal(t, 7, got)

	require.NoError(t, c.Delete(ctx, "a/b"))
	assert.ErrorIs(t, c.Get(ctx, "a/b", &got), ErrNotFound)
	assert.NoError(t, c.Delete(ctx, "a/b"), "deleting a missing key is fine")

	assert.Equal(t, "Bearer secret", fake.auth[0])
}

func TestClient_List(t *testing.T) {
	_, srv := newFakeServer(t)
	c := NewClient(srv.URL, "k")
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "docs/1/score", 1))
	require.NoError(t, c.Put(ctx, "docs/2/score", 2))
	require.NoError(t, c.Put(ctx, "other/3", 3))

	nodes, err := c.List(ctx, "docs", 0)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	err := c.Put(context.Background(), "x", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.NotErrorIs(t, err, ErrNotFound)
}
