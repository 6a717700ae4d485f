package feed

import (
	"fmt"
	"strconv"
	"strings"
)

// Cursor denotes the last row of the previous page in the canonical
// (published DESC, id DESC) order. A page request with a cursor returns
// rows strictly after that position.
type Cursor struct {
	LastPublished int64
	LastID        int64
}

// String encodes the cursor in the "<lastPublished>|<lastId>" wire format.
func (c Cursor) String() string {
	return strconv.FormatInt(c.LastPublished, 10) + "|" + strconv.FormatInt(c.LastID, 10)
}

// ParseCursor decodes a "<lastPublished>|<lastId>" cursor string. Both
// halves must be positive integers; anything else is rejected rather than
// silently treated as a fresh start.
func ParseCursor(s string) (*Cursor, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor %q: expected \"<lastPublished>|<lastId>\"", s)
	}

	return ParseCursorParts(parts[0], parts[1])
}

// ParseCursorParts decodes the two cursor components as they arrive as
// separate query parameters.
func ParseCursorParts(lastPublished, lastID string) (*Cursor, error) {
	published, err := strconv.ParseInt(lastPublished, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor lastPublished %q: %w", lastPublished, err)
	}

	id, err := strconv.ParseInt(lastID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor lastId %q: %w", lastID, err)
	}

	if published <= 0 || id <= 0 {
		return nil, fmt.Errorf("invalid cursor %s|%s: components must be positive", lastPublished, lastID)
	}

	return &Cursor{LastPublished: published, LastID: id}, nil
}
