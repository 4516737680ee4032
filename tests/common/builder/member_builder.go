package builder

import (
	"time"

	"campus-library/internal/domain/member"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
)

type MemberBuilder struct {
	id              uuid.UUID
	name            string
	email           string
	phone           string
	status          string
	maxLoans        int32
	currentLoans    int32
	totalFinesCents int64
	createdAt       time.Time
}

func NewMemberBuilder() *MemberBuilder {
	return &MemberBuilder{
		id:        uuid.New(),
		name:      "Jordan Blake",
		email:     "jordan.blake@example.com",
		phone:     "555-0101",
		status:    "active",
		maxLoans:  5,
		createdAt: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (b *MemberBuilder) WithID(id uuid.UUID) *MemberBuilder         { b.id = id; return b }
func (b *MemberBuilder) WithName(name string) *MemberBuilder        { b.name = name; return b }
func (b *MemberBuilder) WithEmail(email string) *MemberBuilder      { b.email = email; return b }
func (b *MemberBuilder) WithStatus(status string) *MemberBuilder    { b.status = status; return b }
func (b *MemberBuilder) WithMaxLoans(n int32) *MemberBuilder        { b.maxLoans = n; return b }
func (b *MemberBuilder) WithCurrentLoans(n int32) *MemberBuilder    { b.currentLoans = n; return b }
func (b *MemberBuilder) WithTotalFinesCents(c int64) *MemberBuilder { b.totalFinesCents = c; return b }

func (b *MemberBuilder) BuildDomain() (*member.Member, error) {
	status, err := member.NewStatus(b.status)
	if err != nil {
		return nil, err
	}
	return member.ReconstructMember(
		b.id, b.name, b.email, b.phone,
		status, b.maxLoans, b.currentLoans, b.totalFinesCents, b.createdAt,
	), nil
}

func (b *MemberBuilder) BuildSnapshot() *shared.MemberSnapshot {
	return &shared.MemberSnapshot{
		ID:              b.id,
		Status:          b.status,
		MaxLoans:        b.maxLoans,
		CurrentLoans:    b.currentLoans,
		TotalFinesCents: b.totalFinesCents,
	}
}
