// Package scorecache persists the per-document aggregate total and
// implements the save, read and bulk-recalculate contract around it.
package scorecache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrNotFound means no total is cached for the document.
var ErrNotFound = errors.New("scorecache: no cached total")

// Entry is one cached total.
type Entry struct {
	DocumentID string    `json:"document_id"`
	Total      int       `json:"total"`
	UpdatedAt  time.Time `json:"updated_at"`
	Missing    bool      `json:"missing,omitempty"`
}

// Store is a backend holding one total per document. Concurrent writers
// to the same document resolve last-writer-wins.
type Store interface {
	Get(ctx context.Context, docID string) (Entry, error)
	Set(ctx context.Context, docID string, total int) error
	Delete(ctx context.Context, docID string) error
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Order is a list sort direction.
type Order string

const (
	Desc Order = "desc"
	Asc  Order = "asc"
)

// ParseOrder resolves an order name; the empty string means descending.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", Desc:
		return Desc, nil
	case Asc:
		return Asc, nil
	}
	return "", fmt.Errorf("unknown order %q (want asc or desc)", s)
}

// Sort orders entries by total. Missing entries always sort last and ties
// break on document id.
func Sort(entries []Entry, order Order) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Missing != b.Missing {
			return !a.Missing
		}
		if a.Total != b.Total {
			if order == Asc {
				return a.Total < b.Total
			}
			return a.Total > b.Total
		}
		return a.DocumentID < b.DocumentID
	})
}
