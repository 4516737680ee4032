package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command read operations

type MemberSnapshot struct {
	ID              uuid.UUID
	Status          string
	MaxLoans        int32
	CurrentLoans    int32
	TotalFinesCents int64
}

type LoanSnapshot struct {
	ID         uuid.UUID
	MemberID   uuid.UUID
	CopyID     uuid.UUID
	BookID     uuid.UUID
	Status     string
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

type CopySnapshot struct {
	ID     uuid.UUID
	BookID uuid.UUID
	Status string
}

type ReservationSnapshot struct {
	ID              uuid.UUID
	BookID          uuid.UUID
	MemberID        uuid.UUID
	Status          string
	ReservationDate time.Time
	ExpiryDate      time.Time
}

type SectionSnapshot struct {
	ID            uuid.UUID
	CourseID      uuid.UUID
	Capacity      int32
	EnrolledCount int32
	Status        string
}

type EnrollmentSnapshot struct {
	ID        uuid.UUID
	SectionID uuid.UUID
	StudentID uuid.UUID
	Status    string
}
