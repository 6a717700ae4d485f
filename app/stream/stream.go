package stream

import (
	"context"
	"time"
)

// Page is one fetched batch of items. An empty Cursor means the source is
// exhausted.
type Page[T any] struct {
	Items  []T
	Cursor string
}

// FetchFunc retrieves one page of items. The first call receives an empty
// cursor; subsequent calls receive the cursor from the previous page.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Stream is a pull-based lazy sequence over any paged source. Items already
// seen (by identity key) are dropped when a new page overlaps a previous
// one, which happens with sources whose pagination is imprecise.
//
// A Stream is not safe for concurrent use; callers must not invoke Next
// concurrently on the same instance.
type Stream[T any] struct {
	fetch     FetchFunc[T]
	keyFunc   func(T) string
	dateFunc  func(T) time.Time
	items     []T
	seen      map[string]bool
	cursor    string
	exhausted bool
}

func NewStream[T any](fetch FetchFunc[T], keyFunc func(T) string, dateFunc func(T) time.Time) *Stream[T] {
	return &Stream[T]{
		fetch:    fetch,
		keyFunc:  keyFunc,
		dateFunc: dateFunc,
		seen:     make(map[string]bool),
	}
}

// Next fetches one page, appends its unseen items, and returns the newly
// added items. After exhaustion it returns nil without fetching. A fetch
// error leaves the accumulated items and cursor untouched, so the caller
// can retry the same position.
func (s *Stream[T]) Next(ctx context.Context) ([]T, error) {
	if s.exhausted {
		return nil, nil
	}

	page, err := s.fetch(ctx, s.cursor)
	if err != nil {
		return nil, err
	}

	var added []T
	for _, item := range page.Items {
		key := s.keyFunc(item)
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.items = append(s.items, item)
		added = append(added, item)
	}

	s.cursor = page.Cursor
	if page.Cursor == "" {
		s.exhausted = true
	}

	return added, nil
}

// Items returns all accumulated items in arrival order.
func (s *Stream[T]) Items() []T {
	return s.items
}

// Cursor returns the continuation position for the next fetch.
func (s *Stream[T]) Cursor() string {
	return s.cursor
}

func (s *Stream[T]) Exhausted() bool {
	return s.exhausted
}

// ItemKey returns the identity key used for deduplication.
func (s *Stream[T]) ItemKey(item T) string {
	return s.keyFunc(item)
}

// ItemDate returns the item's publication time, for client-side merge and
// display ordering.
func (s *Stream[T]) ItemDate(item T) time.Time {
	return s.dateFunc(item)
}
