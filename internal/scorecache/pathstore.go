package scorecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/contentlint/internal/pathstore"
)

const keyPrefix = "contentlint/documents"

// PathstoreStore keeps totals in a remote pathstore under
// contentlint/documents/{id}/error_count.
type PathstoreStore struct {
	client *pathstore.Client
}

func NewPathstoreStore(client *pathstore.Client) *PathstoreStore {
	return &PathstoreStore{client: client}
}

// pathValue is the stored value.
type pathValue struct {
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

func scoreKey(docID string) string {
	return keyPrefix + "/" + docID + "/error_count"
}

func (p *PathstoreStore) Get(ctx context.Context, docID string) (Entry, error) {
	var v pathValue
	if err := p.client.Get(ctx, scoreKey(docID), &v); err != nil {
		if errors.Is(err, pathstore.ErrNotFound) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("get score %s: %w", docID, err)
	}
	return Entry{DocumentID: docID, Total: v.Total, UpdatedAt: v.UpdatedAt}, nil
}

func (p *PathstoreStore) Set(ctx context.Context, docID string, total int) error {
	v := pathValue{Total: total, UpdatedAt: time.Now().UTC()}
	if err := p.client.Put(ctx, scoreKey(docID), v); err != nil {
		return fmt.Errorf("set score %s: %w", docID, err)
	}
	return nil
}

func (p *PathstoreStore) Delete(ctx context.Context, docID string) error {
	if err := p.client.Delete(ctx, scoreKey(docID)); err != nil {
		return fmt.Errorf("delete score %s: %w", docID, err)
	}
	return nil
}

func (p *PathstoreStore) List(ctx context.Context) ([]Entry, error) {
	nodes, err := p.client.List(ctx, keyPrefix, 0)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	var out []Entry
	for _, n := range nodes {
		rest := strings.TrimPrefix(n.Key, keyPrefix+"/")
		docID, ok := strings.CutSuffix(rest, "/error_count")
		if !ok || docID == "" {
			continue
		}
		var v pathValue
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("decode score %s: %w", docID, err)
		}
		out = append(out, Entry{DocumentID: docID, Total: v.Total, UpdatedAt: v.UpdatedAt})
	}
	return out, nil
}

func (p *PathstoreStore) Close() error {
	p.client.Close()
	return nil
}
