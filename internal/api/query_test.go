package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck/internal/domain"
)

func TestParseLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "missing falls back to default", raw: "", want: 20},
		{name: "non-numeric falls back to default", raw: "abc", want: 20},
		{name: "valid value passes through", raw: "50", want: 50},
		{name: "minimum boundary", raw: "1", want: 1},
		{name: "maximum boundary", raw: "100", want: 100},
		{name: "zero clamped up", raw: "0", want: 1},
		{name: "negative clamped up", raw: "-5", want: 1},
		{name: "over maximum clamped down", raw: "500", want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, parseLimit(tc.raw))
		})
	}
}

func TestParseCursor(t *testing.T) {
	t.Parallel()

	at := "2025-06-01T12:00:00.123456Z"
	id := uuid.New()

	t.Run("complete cursor parsed", func(t *testing.T) {
		t.Parallel()

		q := url.Values{"cursor_at": {at}, "cursor_id": {id.String()}}
		cursor, err := parseCursor(q)
		require.NoError(t, err)
		require.NotNil(t, cursor)

		wantAt, _ := time.Parse(time.RFC3339Nano, at)
		assert.True(t, cursor.CreatedAt.Equal(wantAt))
		assert.Equal(t, id, cursor.ID)
	})

	t.Run("absent cursor starts from head", func(t *testing.T) {
		t.Parallel()

		cursor, err := parseCursor(url.Values{})
		require.NoError(t, err)
		assert.Nil(t, cursor)
	})

	t.Run("partial cursor treated as absent", func(t *testing.T) {
		t.Parallel()

		for _, q := range []url.Values{
			{"cursor_at": {at}},
			{"cursor_id": {id.String()}},
			{"cursor_at": {at}, "cursor_id": {""}},
		} {
			cursor, err := parseCursor(q)
			require.NoError(t, err)
			assert.Nil(t, cursor)
		}
	})

	t.Run("malformed timestamp is a validation error", func(t *testing.T) {
		t.Parallel()

		q := url.Values{"cursor_at": {"yesterday"}, "cursor_id": {id.String()}}
		_, err := parseCursor(q)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("malformed id is a validation error", func(t *testing.T) {
		t.Parallel()

		q := url.Values{"cursor_at": {at}, "cursor_id": {"not-a-uuid"}}
		_, err := parseCursor(q)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
