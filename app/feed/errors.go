package feed

import "fmt"

type ErrorKind string

const (
	// ErrorKindFetch covers network and HTTP failures reaching a feed.
	ErrorKindFetch ErrorKind = "fetch"
	// ErrorKindParse covers payloads that cannot be parsed as RSS/Atom.
	ErrorKindParse ErrorKind = "parse"
)

// FeedError is a normalization failure for one feed URL. Callers treat both
// kinds the same way ("could not normalize this feed"); the kind exists for
// logging and tests.
type FeedError struct {
	URL  string
	Kind ErrorKind
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("failed to %s feed %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}
