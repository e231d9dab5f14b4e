package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/store"
)

// parseLimit normalizes the limit query parameter: a missing or non-numeric
// value falls back to the default of 20, anything else is clamped to [1,100].
func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return store.DefaultPageLimit
	}
	if n < store.MinPageLimit {
		return store.MinPageLimit
	}
	if n > store.MaxPageLimit {
		return store.MaxPageLimit
	}
	return n
}

// parseCursor extracts the continuation cursor from the query parameters.
// A cursor is honored only when both cursor_at and cursor_id are present;
// a partial cursor is treated as absent (start from the beginning) rather
// than being an error. A complete but malformed cursor is a validation
// error: the client is expected to replay the pair verbatim, so a value
// that fails to parse was never issued by us.
func parseCursor(q url.Values) (*store.TaskCursor, error) {
	rawAt := q.Get("cursor_at")
	rawID := q.Get("cursor_id")

	if rawAt == "" || rawID == "" {
		return nil, nil
	}

	at, err := time.Parse(time.RFC3339Nano, rawAt)
	if err != nil {
		return nil, fmt.Errorf("%w: cursor_at must be an RFC 3339 timestamp", domain.ErrValidation)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: cursor_id must be a UUID", domain.ErrValidation)
	}

	return &store.TaskCursor{CreatedAt: at, ID: id}, nil
}
