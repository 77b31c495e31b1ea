package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("ids are valid ulids", func(t *testing.T) {
		id := New()
		require.Len(t, id.String(), 26)
		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("ids sort by creation order", func(t *testing.T) {
		prev := New()
		for i := 0; i < 50; i++ {
			next := New()
			require.Less(t, prev.String(), next.String())
			prev = next
		}
	})

	t.Run("embeds the generation time", func(t *testing.T) {
		at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		id := NewAt(at)
		require.WithinDuration(t, at, id.Time(), time.Millisecond)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("trims whitespace", func(t *testing.T) {
		id := New()
		parsed, err := Parse("  " + id.String() + "\n")
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "   ", "not-a-ulid", "01ARZ3NDEKTSV4RRFFQ69G5FA"} {
			_, err := Parse(s)
			require.ErrorIs(t, err, ErrInvalid)
		}
	})

	t.Run("must parse panics on bad input", func(t *testing.T) {
		require.Panics(t, func() { MustParse("nope") })
		require.NotPanics(t, func() { MustParse(New().String()) })
	})
}

func TestIDZero(t *testing.T) {
	t.Parallel()

	require.True(t, Zero.IsZero())
	require.False(t, New().IsZero())
	require.True(t, Zero.Time().IsZero())
	require.True(t, ID("garbage").Time().IsZero())
}
