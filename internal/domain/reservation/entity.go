package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid reservation status")
	ErrNotPending    = errors.New("only pending reservations can be cancelled")
)

// HoldDuration is how long a pending reservation is held before its
// expiry_date passes. The deadline is stored with the row; enforcement is
// left to the optional sweeper.
const HoldDuration = 48 * time.Hour

type Reservation struct {
	id              uuid.UUID
	bookID          uuid.UUID
	memberID        uuid.UUID
	reservationDate time.Time
	status          Status
	expiryDate      time.Time
}

func NewReservation(bookID, memberID uuid.UUID, now time.Time) *Reservation {
	return &Reservation{
		id:              uuid.New(),
		bookID:          bookID,
		memberID:        memberID,
		reservationDate: now,
		status:          StatusPending,
		expiryDate:      now.Add(HoldDuration),
	}
}

func ReconstructReservation(
	id, bookID, memberID uuid.UUID,
	reservationDate time.Time,
	status Status,
	expiryDate time.Time,
) *Reservation {
	return &Reservation{
		id:              id,
		bookID:          bookID,
		memberID:        memberID,
		reservationDate: reservationDate,
		status:          status,
		expiryDate:      expiryDate,
	}
}

func (r *Reservation) Cancel() error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusCancelled
	return nil
}

// Fulfill marks the reservation as promoted to the freed copy.
func (r *Reservation) Fulfill() error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusFulfilled
	return nil
}

func (r *Reservation) IsPending() bool {
	return r.status == StatusPending
}

func (r *Reservation) ID() uuid.UUID              { return r.id }
func (r *Reservation) BookID() uuid.UUID          { return r.bookID }
func (r *Reservation) MemberID() uuid.UUID        { return r.memberID }
func (r *Reservation) ReservationDate() time.Time { return r.reservationDate }
func (r *Reservation) Status() Status             { return r.status }
func (r *Reservation) ExpiryDate() time.Time      { return r.expiryDate }
