package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when the caller does not ask for one.
	DefaultLimit = 20
	// MaxLimit is the hard ceiling on a single page.
	MaxLimit = 100

	cursorSep = "|"
)

// Params carries the pagination inputs a list endpoint accepts.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the keyset position a page continues from. Lists order by
// (created_at, id) descending, so the cursor pins both columns.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested limit into [1, MaxLimit], substituting
// DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer is the normalized limit plus one extra row, so a full
// page can tell whether another page follows.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes a cursor into the opaque token handed to clients.
func EncodeCursor(cursor Cursor) string {
	token := cursor.ID.String() + cursorSep + cursor.CreatedAt.UTC().Format(time.RFC3339Nano)
	return base64.StdEncoding.EncodeToString([]byte(token))
}

// ParseCursor reverses EncodeCursor. An empty or blank token means the
// first page and yields a nil cursor.
func ParseCursor(token string) (*Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("cursor is not valid base64: %w", err)
	}
	parts := strings.SplitN(string(raw), cursorSep, 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed cursor token")
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, fmt.Errorf("malformed cursor id: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return nil, fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	return &Cursor{CreatedAt: at, ID: id}, nil
}
