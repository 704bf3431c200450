// Package pagination implements the opaque cursor scheme used by the
// quotation listing. A cursor pins the (created_at, id) position of the
// last row already returned, so pages stay stable while new quotations
// are being generated.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size when the caller does not ask for one.
	DefaultLimit = 25
	// MaxLimit caps a single listing page.
	MaxLimit = 100

	cursorSeparator = "|"
)

// Cursor marks the last quotation row of the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps limit into [1, MaxLimit], defaulting when unset.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer asks for one row past the page so repositories can tell
// whether another page exists without a count query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders the cursor as an opaque base64 token for clients.
func EncodeCursor(cursor Cursor) string {
	payload := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a token produced by EncodeCursor. Blank input means
// the first page and yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	stamp, rawID, ok := strings.Cut(string(decoded), cursorSeparator)
	if !ok {
		return nil, fmt.Errorf("malformed cursor")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}
