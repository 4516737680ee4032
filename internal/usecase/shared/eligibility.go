package shared

import (
	"time"

	"campus-library/internal/domain/member"
)

// CheckBorrowEligibility runs the domain borrowing rules against a member
// snapshot. Checkout and the read-only eligibility endpoint share it so the
// two can never disagree.
func CheckBorrowEligibility(snap *MemberSnapshot) error {
	status, err := member.NewStatus(snap.Status)
	if err != nil {
		return err
	}

	m := member.ReconstructMember(
		snap.ID, "", "", "",
		status,
		snap.MaxLoans, snap.CurrentLoans,
		snap.TotalFinesCents,
		time.Time{},
	)

	return m.CanBorrow()
}
