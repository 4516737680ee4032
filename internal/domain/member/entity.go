package member

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("member name cannot be empty")
	ErrNotFound      = errors.New("member not found")
	ErrSuspended     = errors.New("member is suspended")
	ErrUnpaidFines   = errors.New("member has unpaid fines")
	ErrAtLoanLimit   = errors.New("member has reached maximum loans limit")
	ErrInvalidStatus = errors.New("invalid member status")
	ErrNegativeLimit = errors.New("loan limit must be positive")
)

const DefaultMaxLoans = 5

type Member struct {
	id              uuid.UUID
	name            string
	email           string
	phone           string
	status          Status
	maxLoans        int32
	currentLoans    int32
	totalFinesCents int64
	createdAt       time.Time
}

func NewMember(name, email, phone string) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Member{
		id:       uuid.New(),
		name:     name,
		email:    strings.TrimSpace(email),
		phone:    strings.TrimSpace(phone),
		status:   StatusActive,
		maxLoans: DefaultMaxLoans,
	}, nil
}

func ReconstructMember(
	id uuid.UUID,
	name, email, phone string,
	status Status,
	maxLoans, currentLoans int32,
	totalFinesCents int64,
	createdAt time.Time,
) *Member {
	return &Member{
		id:              id,
		name:            name,
		email:           email,
		phone:           phone,
		status:          status,
		maxLoans:        maxLoans,
		currentLoans:    currentLoans,
		totalFinesCents: totalFinesCents,
		createdAt:       createdAt,
	}
}

// CanBorrow reports borrowing eligibility. The disqualifying reasons are
// checked in a fixed priority order: suspension, unpaid fines, loan limit.
func (m *Member) CanBorrow() error {
	if m.status == StatusSuspended {
		return ErrSuspended
	}
	if m.totalFinesCents > 0 {
		return ErrUnpaidFines
	}
	if m.currentLoans >= m.maxLoans {
		return ErrAtLoanLimit
	}
	return nil
}

func (m *Member) ID() uuid.UUID          { return m.id }
func (m *Member) Name() string           { return m.name }
func (m *Member) Email() string          { return m.email }
func (m *Member) Phone() string          { return m.phone }
func (m *Member) Status() Status         { return m.status }
func (m *Member) MaxLoans() int32        { return m.maxLoans }
func (m *Member) CurrentLoans() int32    { return m.currentLoans }
func (m *Member) TotalFinesCents() int64 { return m.totalFinesCents }
func (m *Member) CreatedAt() time.Time   { return m.createdAt }
