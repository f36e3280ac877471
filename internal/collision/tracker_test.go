package collision

import (
	"testing"

	"github.com/arloliu/marray/errs"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, len(tracker.Names()))
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Names())
}

func TestTracker_Track(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		tracker := NewTracker()

		require.NoError(t, tracker.Track("temperature", 0x1234567890abcdef))
		require.NoError(t, tracker.Track("pressure", 0xfedcba0987654321))
		require.Equal(t, 2, len(tracker.Names()))
		require.False(t, tracker.HasCollision())
		require.Equal(t, []string{"temperature", "pressure"}, tracker.Names())
	})

	t.Run("EmptyName", func(t *testing.T) {
		tracker := NewTracker()

		err := tracker.Track("", 0x1)
		require.ErrorIs(t, err, errs.ErrInvalidMemberName)
		require.Equal(t, 0, len(tracker.Names()))
	})

	t.Run("Duplicate", func(t *testing.T) {
		tracker := NewTracker()

		require.NoError(t, tracker.Track("lat", 0x42))
		err := tracker.Track("lat", 0x42)
		require.ErrorIs(t, err, errs.ErrDuplicateMember)
		require.Equal(t, 1, len(tracker.Names()))
		require.False(t, tracker.HasCollision())
	})

	t.Run("Collision", func(t *testing.T) {
		tracker := NewTracker()

		require.NoError(t, tracker.Track("lat", 0x42))
		require.NoError(t, tracker.Track("lon", 0x42))
		require.True(t, tracker.HasCollision())
		require.Equal(t, 2, len(tracker.Names()))

		// a repeat of the second colliding name is still a duplicate
		err := tracker.Track("lon", 0x42)
		require.ErrorIs(t, err, errs.ErrDuplicateMember)
	})
}
