//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"campus-library/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

func TestNewReservation(t *testing.T) {
	bookID := uuid.New()
	memberID := uuid.New()

	r := reservation.NewReservation(bookID, memberID, now)
	require.NotNil(t, r)

	assert.NotEqual(t, uuid.Nil, r.ID())
	assert.Equal(t, bookID, r.BookID())
	assert.Equal(t, memberID, r.MemberID())
	assert.Equal(t, now, r.ReservationDate())
	assert.Equal(t, reservation.StatusPending, r.Status())
	assert.True(t, r.IsPending())
	assert.Equal(t, now.Add(48*time.Hour), r.ExpiryDate())
}

func TestCancel(t *testing.T) {
	t.Run("pending reservation cancels", func(t *testing.T) {
		r := reservation.NewReservation(uuid.New(), uuid.New(), now)

		require.NoError(t, r.Cancel())
		assert.Equal(t, reservation.StatusCancelled, r.Status())
		assert.False(t, r.IsPending())
	})

	t.Run("cancelled reservation cannot cancel again", func(t *testing.T) {
		r := reservation.NewReservation(uuid.New(), uuid.New(), now)
		require.NoError(t, r.Cancel())

		assert.ErrorIs(t, r.Cancel(), reservation.ErrNotPending)
	})

	t.Run("fulfilled reservation cannot cancel", func(t *testing.T) {
		r := reservation.NewReservation(uuid.New(), uuid.New(), now)
		require.NoError(t, r.Fulfill())

		assert.ErrorIs(t, r.Cancel(), reservation.ErrNotPending)
	})
}

func TestFulfill(t *testing.T) {
	t.Run("pending reservation fulfills", func(t *testing.T) {
		r := reservation.NewReservation(uuid.New(), uuid.New(), now)

		require.NoError(t, r.Fulfill())
		assert.Equal(t, reservation.StatusFulfilled, r.Status())
	})

	t.Run("cancelled reservation cannot fulfill", func(t *testing.T) {
		r := reservation.NewReservation(uuid.New(), uuid.New(), now)
		require.NoError(t, r.Cancel())

		assert.ErrorIs(t, r.Fulfill(), reservation.ErrNotPending)
	})
}
