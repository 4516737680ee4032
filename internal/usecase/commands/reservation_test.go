//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	reqdto "campus-library/internal/handler/dto/request"
	"campus-library/internal/pkg/clock"
	"campus-library/internal/usecase/commands"
	"campus-library/internal/usecase/shared"
	"campus-library/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservedAt = time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)

func TestCreateReservation(t *testing.T) {
	seed := func() (*fakeState, uuid.UUID, uuid.UUID) {
		state := newFakeState()
		memberSnap := builder.NewMemberBuilder().BuildSnapshot()
		state.members[memberSnap.ID] = memberSnap
		bookID := uuid.New()
		state.books[bookID] = true
		// every copy is out
		seedCopy(state, bookID, "borrowed")
		return state, bookID, memberSnap.ID
	}

	t.Run("places a hold on an unavailable book", func(t *testing.T) {
		state, bookID, memberID := seed()
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		id, err := cmds.CreateReservation(context.Background(), reqdto.CreateReservationRequest{
			BookID: bookID, MemberID: memberID,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		require.Len(t, state.createdReservations, 1)
		res := state.createdReservations[0]
		assert.Equal(t, reservedAt, res.ReservationDate())
		assert.Equal(t, reservedAt.Add(48*time.Hour), res.ExpiryDate())
	})

	t.Run("unknown book", func(t *testing.T) {
		state, _, memberID := seed()
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		_, err := cmds.CreateReservation(context.Background(), reqdto.CreateReservationRequest{
			BookID: uuid.New(), MemberID: memberID,
		})
		assert.ErrorIs(t, err, commands.ErrBookNotFound)
	})

	t.Run("unknown member", func(t *testing.T) {
		state, bookID, _ := seed()
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		_, err := cmds.CreateReservation(context.Background(), reqdto.CreateReservationRequest{
			BookID: bookID, MemberID: uuid.New(),
		})
		assert.ErrorIs(t, err, commands.ErrMemberNotFound)
	})

	t.Run("book with an available copy cannot be reserved", func(t *testing.T) {
		state, bookID, memberID := seed()
		seedCopy(state, bookID, "available")
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		_, err := cmds.CreateReservation(context.Background(), reqdto.CreateReservationRequest{
			BookID: bookID, MemberID: memberID,
		})
		assert.ErrorIs(t, err, commands.ErrBookAvailable)
	})

	t.Run("duplicate pending hold for the same member", func(t *testing.T) {
		state, bookID, memberID := seed()
		existing := uuid.New()
		state.reservations[existing] = &shared.ReservationSnapshot{
			ID: existing, BookID: bookID, MemberID: memberID,
			Status: "pending", ReservationDate: reservedAt.Add(-time.Hour),
		}
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		_, err := cmds.CreateReservation(context.Background(), reqdto.CreateReservationRequest{
			BookID: bookID, MemberID: memberID,
		})
		assert.ErrorIs(t, err, commands.ErrDuplicatePending)
	})

	t.Run("cancelled hold does not block a new one", func(t *testing.T) {
		state, bookID, memberID := seed()
		existing := uuid.New()
		state.reservations[existing] = &shared.ReservationSnapshot{
			ID: existing, BookID: bookID, MemberID: memberID,
			Status: "cancelled", ReservationDate: reservedAt.Add(-time.Hour),
		}
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		_, err := cmds.CreateReservation(context.Background(), reqdto.CreateReservationRequest{
			BookID: bookID, MemberID: memberID,
		})
		assert.NoError(t, err)
	})
}

func TestCancelReservation(t *testing.T) {
	seedReservation := func(state *fakeState, status string) uuid.UUID {
		id := uuid.New()
		state.reservations[id] = &shared.ReservationSnapshot{
			ID: id, BookID: uuid.New(), MemberID: uuid.New(),
			Status: status, ReservationDate: reservedAt,
			ExpiryDate: reservedAt.Add(48 * time.Hour),
		}
		return id
	}

	t.Run("cancels a pending reservation", func(t *testing.T) {
		state := newFakeState()
		id := seedReservation(state, "pending")
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		require.NoError(t, cmds.CancelReservation(context.Background(), id))
		assert.Equal(t, "cancelled", state.reservations[id].Status)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		state := newFakeState()
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		err := cmds.CancelReservation(context.Background(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})

	t.Run("fulfilled reservation cannot be cancelled", func(t *testing.T) {
		state := newFakeState()
		id := seedReservation(state, "fulfilled")
		cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

		err := cmds.CancelReservation(context.Background(), id)
		assert.ErrorIs(t, err, commands.ErrNotPending)
		assert.Equal(t, "fulfilled", state.reservations[id].Status)
	})
}

func TestExpireOverdue(t *testing.T) {
	state := newFakeState()
	state.expireReturns = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	cmds := commands.NewReservationCommands(newFakeUoW(state), clock.NewMockClock(reservedAt))

	expired, err := cmds.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), expired)
}
