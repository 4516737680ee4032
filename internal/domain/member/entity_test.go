//go:build unit

package member_test

import (
	"testing"

	"campus-library/internal/domain/member"
	"campus-library/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMember(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		m, err := member.NewMember("Jordan Blake", "jordan.blake@example.com", "555-0101")
		require.NoError(t, err)
		require.NotNil(t, m)

		assert.NotEqual(t, uuid.Nil, m.ID())
		assert.Equal(t, member.StatusActive, m.Status())
		assert.Equal(t, int32(member.DefaultMaxLoans), m.MaxLoans())
		assert.Equal(t, int32(0), m.CurrentLoans())
		assert.Equal(t, int64(0), m.TotalFinesCents())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		m, err := member.NewMember("  Jordan Blake  ", " jordan@example.com ", " 555-0101 ")
		require.NoError(t, err)

		assert.Equal(t, "Jordan Blake", m.Name())
		assert.Equal(t, "jordan@example.com", m.Email())
		assert.Equal(t, "555-0101", m.Phone())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := member.NewMember("   ", "jordan@example.com", "")
		assert.ErrorIs(t, err, member.ErrEmptyName)
	})
}

func TestCanBorrow(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*builder.MemberBuilder)
		errIs  error
	}{
		{
			name:   "eligible member",
			mutate: func(b *builder.MemberBuilder) {},
		},
		{
			name:   "suspended member",
			mutate: func(b *builder.MemberBuilder) { b.WithStatus("suspended") },
			errIs:  member.ErrSuspended,
		},
		{
			name:   "unpaid fines",
			mutate: func(b *builder.MemberBuilder) { b.WithTotalFinesCents(150) },
			errIs:  member.ErrUnpaidFines,
		},
		{
			name:   "at loan limit",
			mutate: func(b *builder.MemberBuilder) { b.WithMaxLoans(3).WithCurrentLoans(3) },
			errIs:  member.ErrAtLoanLimit,
		},
		{
			name:   "over loan limit",
			mutate: func(b *builder.MemberBuilder) { b.WithMaxLoans(3).WithCurrentLoans(4) },
			errIs:  member.ErrAtLoanLimit,
		},
		{
			name:   "one below loan limit",
			mutate: func(b *builder.MemberBuilder) { b.WithMaxLoans(3).WithCurrentLoans(2) },
		},
		{
			// suspension is checked before fines and limits
			name: "suspended with fines and at limit",
			mutate: func(b *builder.MemberBuilder) {
				b.WithStatus("suspended").WithTotalFinesCents(500).WithMaxLoans(1).WithCurrentLoans(1)
			},
			errIs: member.ErrSuspended,
		},
		{
			// fines outrank the loan limit
			name: "fines and at limit",
			mutate: func(b *builder.MemberBuilder) {
				b.WithTotalFinesCents(50).WithMaxLoans(1).WithCurrentLoans(1)
			},
			errIs: member.ErrUnpaidFines,
		},
		{
			name:   "inactive member may still borrow",
			mutate: func(b *builder.MemberBuilder) { b.WithStatus("inactive") },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewMemberBuilder()
			tc.mutate(b)

			m, err := b.BuildDomain()
			require.NoError(t, err)

			got := m.CanBorrow()
			if tc.errIs != nil {
				assert.ErrorIs(t, got, tc.errIs)
			} else {
				assert.NoError(t, got)
			}
		})
	}
}

func TestNewStatus(t *testing.T) {
	for _, valid := range []string{"active", "suspended", "inactive"} {
		status, err := member.NewStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(status))
	}

	_, err := member.NewStatus("banned")
	assert.ErrorIs(t, err, member.ErrInvalidStatus)
}
