package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus   = errors.New("invalid loan status")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrDueDateInPast   = errors.New("due date must be in the future")
)

type Loan struct {
	id         uuid.UUID
	bookCopyID uuid.UUID
	memberID   uuid.UUID
	loanDate   time.Time
	dueDate    time.Time
	returnDate *time.Time
	status     Status
	fineAmount Money
}

func NewLoan(bookCopyID, memberID uuid.UUID, dueDate, now time.Time) (*Loan, error) {
	if !dueDate.After(now) {
		return nil, ErrDueDateInPast
	}

	return &Loan{
		id:         uuid.New(),
		bookCopyID: bookCopyID,
		memberID:   memberID,
		loanDate:   now,
		dueDate:    dueDate,
		status:     StatusActive,
	}, nil
}

func ReconstructLoan(
	id, bookCopyID, memberID uuid.UUID,
	loanDate, dueDate time.Time,
	returnDate *time.Time,
	status Status,
	fineAmount Money,
) *Loan {
	return &Loan{
		id:         id,
		bookCopyID: bookCopyID,
		memberID:   memberID,
		loanDate:   loanDate,
		dueDate:    dueDate,
		returnDate: returnDate,
		status:     status,
		fineAmount: fineAmount,
	}
}

// Return closes the loan and fixes the fine owed for it. Returning an
// already-returned loan is rejected so the member counters stay consistent.
func (l *Loan) Return(now time.Time) error {
	if l.status == StatusReturned {
		return ErrAlreadyReturned
	}

	fine := FineFor(l.dueDate, now)
	returnedAt := now
	l.status = StatusReturned
	l.returnDate = &returnedAt
	l.fineAmount = fine
	return nil
}

func (l *Loan) IsActive() bool {
	return l.status == StatusActive
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return l.status != StatusReturned && now.After(l.dueDate)
}

func (l *Loan) ID() uuid.UUID          { return l.id }
func (l *Loan) BookCopyID() uuid.UUID  { return l.bookCopyID }
func (l *Loan) MemberID() uuid.UUID    { return l.memberID }
func (l *Loan) LoanDate() time.Time    { return l.loanDate }
func (l *Loan) DueDate() time.Time     { return l.dueDate }
func (l *Loan) ReturnDate() *time.Time { return l.returnDate }
func (l *Loan) Status() Status         { return l.status }
func (l *Loan) FineAmount() Money      { return l.fineAmount }
