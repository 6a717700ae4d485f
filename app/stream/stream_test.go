package stream

import (
	"context"
	"errors"
	"testing"
	"time"
)

type post struct {
	key       string
	published time.Time
}

func newPostStream(fetch FetchFunc[post]) *Stream[post] {
	return NewStream(fetch,
		func(p post) string { return p.key },
		func(p post) time.Time { return p.published })
}

// scriptedFetch replays a fixed sequence of pages, recording the cursor it
// was called with each time.
func scriptedFetch(pages []Page[post], cursors *[]string) FetchFunc[post] {
	call := 0
	return func(ctx context.Context, cursor string) (Page[post], error) {
		*cursors = append(*cursors, cursor)
		page := pages[call]
		call++
		return page, nil
	}
}

func TestStreamAccumulatesPages(t *testing.T) {
	var cursors []string
	s := newPostStream(scriptedFetch([]Page[post]{
		{Items: []post{{key: "a"}, {key: "b"}}, Cursor: "page2"},
		{Items: []post{{key: "c"}}, Cursor: ""},
	}, &cursors))

	first, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("First page failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("Expected 2 new items, got: %d", len(first))
	}

	second, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Second page failed: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("Expected 1 new item, got: %d", len(second))
	}

	if len(s.Items()) != 3 {
		t.Errorf("Expected 3 accumulated items, got: %d", len(s.Items()))
	}
	if !s.Exhausted() {
		t.Error("Expected stream exhausted after empty cursor")
	}

	want := []string{"", "page2"}
	for i, cursor := range cursors {
		if cursor != want[i] {
			t.Errorf("Call %d: expected cursor %q, got: %q", i, want[i], cursor)
		}
	}
}

func TestStreamDeduplicatesOverlappingPages(t *testing.T) {
	var cursors []string
	s := newPostStream(scriptedFetch([]Page[post]{
		{Items: []post{{key: "a"}, {key: "b"}}, Cursor: "page2"},
		{Items: []post{{key: "b"}, {key: "c"}}, Cursor: ""},
	}, &cursors))

	if _, err := s.Next(context.Background()); err != nil {
		t.Fatalf("First page failed: %v", err)
	}
	added, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Second page failed: %v", err)
	}

	if len(added) != 1 || added[0].key != "c" {
		t.Errorf("Expected only the unseen item appended, got: %+v", added)
	}

	counts := map[string]int{}
	for _, item := range s.Items() {
		counts[item.key]++
	}
	if counts["b"] != 1 {
		t.Errorf("Expected overlapping item exactly once, got: %d", counts["b"])
	}
}

func TestStreamErrorLeavesStateUntouched(t *testing.T) {
	call := 0
	fetch := func(ctx context.Context, cursor string) (Page[post], error) {
		call++
		switch call {
		case 1:
			return Page[post]{Items: []post{{key: "a"}}, Cursor: "page2"}, nil
		case 2:
			return Page[post]{}, errors.New("transient failure")
		default:
			if cursor != "page2" {
				return Page[post]{}, errors.New("cursor moved after failure")
			}
			return Page[post]{Items: []post{{key: "b"}}, Cursor: ""}, nil
		}
	}
	s := newPostStream(fetch)

	if _, err := s.Next(context.Background()); err != nil {
		t.Fatalf("First page failed: %v", err)
	}

	if _, err := s.Next(context.Background()); err == nil {
		t.Fatal("Expected second page to fail")
	}
	if len(s.Items()) != 1 {
		t.Errorf("Expected accumulated items untouched after failure, got: %d", len(s.Items()))
	}
	if s.Exhausted() {
		t.Error("Expected stream still resumable after failure")
	}

	added, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Retry at same cursor failed: %v", err)
	}
	if len(added) != 1 || added[0].key != "b" {
		t.Errorf("Expected retry to succeed with next page, got: %+v", added)
	}
}

func TestStreamExhaustedIsNoOp(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, cursor string) (Page[post], error) {
		calls++
		return Page[post]{Items: []post{{key: "a"}}, Cursor: ""}, nil
	}
	s := newPostStream(fetch)

	if _, err := s.Next(context.Background()); err != nil {
		t.Fatalf("First page failed: %v", err)
	}

	added, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Expected no error after exhaustion, got: %v", err)
	}
	if added != nil {
		t.Errorf("Expected nil items after exhaustion, got: %+v", added)
	}
	if calls != 1 {
		t.Errorf("Expected no fetch after exhaustion, got %d calls", calls)
	}
}

func TestStreamItemAccessors(t *testing.T) {
	published := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	s := newPostStream(nil)

	item := post{key: "a", published: published}
	if s.ItemKey(item) != "a" {
		t.Errorf("Expected key 'a', got: %s", s.ItemKey(item))
	}
	if !s.ItemDate(item).Equal(published) {
		t.Errorf("Expected date %v, got: %v", published, s.ItemDate(item))
	}
}
