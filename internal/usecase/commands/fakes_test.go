//go:build unit

package commands_test

import (
	"context"
	"time"

	"campus-library/internal/domain/book"
	"campus-library/internal/domain/course"
	"campus-library/internal/domain/loan"
	"campus-library/internal/domain/member"
	"campus-library/internal/domain/reservation"
	"campus-library/internal/domain/user"
	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory stand-ins for the persistence layer. State mutations mirror
// what the SQL would do so command flows can be asserted end to end.

func notFoundErr() error {
	return infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
}

func duplicateKeyErr() error {
	return infra.WrapRepoErr("duplicate key", nil, infra.KindDuplicateKey)
}

func foreignKeyErr() error {
	return infra.WrapRepoErr("foreign key violated", nil, infra.KindForeignKeyViolated)
}

func conflictErr() error {
	return infra.WrapRepoErr("conflicting update", nil, infra.KindConflict)
}

type fakeState struct {
	members      map[uuid.UUID]*shared.MemberSnapshot
	loans        map[uuid.UUID]*shared.LoanSnapshot
	copies       map[uuid.UUID]*shared.CopySnapshot
	books        map[uuid.UUID]bool
	reservations map[uuid.UUID]*shared.ReservationSnapshot
	sections     map[uuid.UUID]*shared.SectionSnapshot
	enrolled     map[uuid.UUID]map[uuid.UUID]bool // sectionID -> studentIDs
	enrollments  map[uuid.UUID]*shared.EnrollmentSnapshot
	missingUsers map[uuid.UUID]bool

	// settles the loan row between the command's read and its write,
	// standing in for a concurrent return winning the conditional update
	loanSettledElsewhere bool

	createdLoans        []*loan.Loan
	updatedLoans        []*loan.Loan
	createdReservations []*reservation.Reservation
	loanCountDeltas     map[uuid.UUID]int32
	finesAdded          map[uuid.UUID]int64
	copyStatusSets      map[uuid.UUID]book.CopyStatus
	expireReturns       []uuid.UUID
}

func newFakeState() *fakeState {
	return &fakeState{
		members:         map[uuid.UUID]*shared.MemberSnapshot{},
		loans:           map[uuid.UUID]*shared.LoanSnapshot{},
		copies:          map[uuid.UUID]*shared.CopySnapshot{},
		books:           map[uuid.UUID]bool{},
		reservations:    map[uuid.UUID]*shared.ReservationSnapshot{},
		sections:        map[uuid.UUID]*shared.SectionSnapshot{},
		enrolled:        map[uuid.UUID]map[uuid.UUID]bool{},
		enrollments:     map[uuid.UUID]*shared.EnrollmentSnapshot{},
		missingUsers:    map[uuid.UUID]bool{},
		loanCountDeltas: map[uuid.UUID]int32{},
		finesAdded:      map[uuid.UUID]int64{},
		copyStatusSets:  map[uuid.UUID]book.CopyStatus{},
	}
}

type fakeUoW struct {
	state *fakeState
}

func newFakeUoW(state *fakeState) *fakeUoW {
	return &fakeUoW{state: state}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{state: u.state})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{state: u.state}
}

type fakeTx struct {
	state *fakeState
}

func (t *fakeTx) Loans() shared.LoanRepository               { return &fakeLoanRepo{state: t.state} }
func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{state: t.state} }
func (t *fakeTx) Members() shared.MemberRepository           { return &fakeMemberRepo{state: t.state} }
func (t *fakeTx) Books() shared.BookRepository               { return &fakeBookRepo{} }
func (t *fakeTx) Copies() shared.CopyRepository              { return &fakeCopyRepo{state: t.state} }
func (t *fakeTx) Users() shared.UserRepository               { return &fakeUserRepo{} }
func (t *fakeTx) Courses() shared.CourseRepository           { return &fakeCourseRepo{state: t.state} }
func (t *fakeTx) Reads() shared.CommandReads                 { return &fakeReads{state: t.state} }
func (t *fakeTx) DB() db.DBTX                                { return nil }

type fakeReads struct {
	state *fakeState
}

func (r *fakeReads) MemberByID(_ context.Context, id uuid.UUID) (*shared.MemberSnapshot, error) {
	snap, ok := r.state.members[id]
	if !ok {
		return nil, notFoundErr()
	}
	return snap, nil
}

func (r *fakeReads) LoanByID(_ context.Context, id uuid.UUID) (*shared.LoanSnapshot, error) {
	snap, ok := r.state.loans[id]
	if !ok {
		return nil, notFoundErr()
	}
	return snap, nil
}

func (r *fakeReads) CopyByID(_ context.Context, id uuid.UUID) (*shared.CopySnapshot, error) {
	snap, ok := r.state.copies[id]
	if !ok {
		return nil, notFoundErr()
	}
	return snap, nil
}

func (r *fakeReads) BookExists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.state.books[id], nil
}

func (r *fakeReads) AvailableCopyCount(_ context.Context, bookID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.state.copies {
		if c.BookID == bookID && c.Status == "available" {
			n++
		}
	}
	return n, nil
}

func (r *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	snap, ok := r.state.reservations[id]
	if !ok {
		return nil, notFoundErr()
	}
	return snap, nil
}

func (r *fakeReads) HasPendingReservation(_ context.Context, bookID, memberID uuid.UUID) (bool, error) {
	for _, res := range r.state.reservations {
		if res.BookID == bookID && res.MemberID == memberID && res.Status == "pending" {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReads) OldestPendingReservation(_ context.Context, bookID uuid.UUID) (*shared.ReservationSnapshot, error) {
	var oldest *shared.ReservationSnapshot
	for _, res := range r.state.reservations {
		if res.BookID != bookID || res.Status != "pending" {
			continue
		}
		if oldest == nil || res.ReservationDate.Before(oldest.ReservationDate) {
			oldest = res
		}
	}
	return oldest, nil
}

func (r *fakeReads) EnrollmentByID(_ context.Context, id uuid.UUID) (*shared.EnrollmentSnapshot, error) {
	snap, ok := r.state.enrollments[id]
	if !ok {
		return nil, notFoundErr()
	}
	return snap, nil
}

func (r *fakeReads) SectionByID(_ context.Context, id uuid.UUID) (*shared.SectionSnapshot, error) {
	snap, ok := r.state.sections[id]
	if !ok {
		return nil, notFoundErr()
	}
	return snap, nil
}

type fakeLoanRepo struct {
	state *fakeState
}

func (f *fakeLoanRepo) Create(_ context.Context, _ db.DBTX, ln *loan.Loan) (uuid.UUID, error) {
	f.state.createdLoans = append(f.state.createdLoans, ln)
	return ln.ID(), nil
}

func (f *fakeLoanRepo) Update(_ context.Context, _ db.DBTX, ln *loan.Loan) error {
	// mirrors the conditional UPDATE: a settled loan takes no further writes
	if f.state.loanSettledElsewhere {
		return conflictErr()
	}
	if snap, ok := f.state.loans[ln.ID()]; ok && snap.Status == "returned" {
		return conflictErr()
	}
	f.state.updatedLoans = append(f.state.updatedLoans, ln)
	if snap, ok := f.state.loans[ln.ID()]; ok {
		snap.Status = string(ln.Status())
	}
	return nil
}

func (f *fakeLoanRepo) MarkOverdue(_ context.Context, _ db.DBTX, now time.Time) (int64, error) {
	var n int64
	for _, snap := range f.state.loans {
		if snap.Status == "active" && snap.DueDate.Before(now) {
			snap.Status = "overdue"
			n++
		}
	}
	return n, nil
}

type fakeReservationRepo struct {
	state *fakeState
}

func (f *fakeReservationRepo) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	for _, existing := range f.state.reservations {
		if existing.BookID == res.BookID() && existing.MemberID == res.MemberID() && existing.Status == "pending" {
			return uuid.Nil, duplicateKeyErr()
		}
	}
	f.state.createdReservations = append(f.state.createdReservations, res)
	f.state.reservations[res.ID()] = &shared.ReservationSnapshot{
		ID:              res.ID(),
		BookID:          res.BookID(),
		MemberID:        res.MemberID(),
		Status:          string(res.Status()),
		ReservationDate: res.ReservationDate(),
		ExpiryDate:      res.ExpiryDate(),
	}
	return res.ID(), nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status reservation.Status) error {
	snap, ok := f.state.reservations[id]
	if !ok {
		return notFoundErr()
	}
	snap.Status = string(status)
	return nil
}

func (f *fakeReservationRepo) ExpirePending(_ context.Context, _ db.DBTX, _ time.Time) ([]uuid.UUID, error) {
	return f.state.expireReturns, nil
}

type fakeMemberRepo struct {
	state *fakeState
}

func (f *fakeMemberRepo) Create(_ context.Context, _ db.DBTX, m *member.Member) (uuid.UUID, error) {
	return m.ID(), nil
}

func (f *fakeMemberRepo) Update(_ context.Context, _ db.DBTX, _ *member.Member) error {
	return nil
}

func (f *fakeMemberRepo) AdjustLoanCount(_ context.Context, _ db.DBTX, memberID uuid.UUID, delta int32) error {
	f.state.loanCountDeltas[memberID] += delta
	return nil
}

func (f *fakeMemberRepo) AddFine(_ context.Context, _ db.DBTX, memberID uuid.UUID, amountCents int64) error {
	f.state.finesAdded[memberID] += amountCents
	return nil
}

func (f *fakeMemberRepo) SetStatus(_ context.Context, _ db.DBTX, _ uuid.UUID, _ member.Status) error {
	return nil
}

type fakeBookRepo struct{}

func (f *fakeBookRepo) Create(_ context.Context, _ db.DBTX, b *book.Book, _ int) (uuid.UUID, error) {
	return b.ID(), nil
}

func (f *fakeBookRepo) Update(_ context.Context, _ db.DBTX, _ *book.Book) error {
	return nil
}

func (f *fakeBookRepo) Delete(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

type fakeCopyRepo struct {
	state *fakeState
}

func (f *fakeCopyRepo) Create(_ context.Context, _ db.DBTX, c *book.Copy) (uuid.UUID, error) {
	return c.ID(), nil
}

func (f *fakeCopyRepo) ClaimAvailable(_ context.Context, _ db.DBTX, copyID uuid.UUID, status book.CopyStatus) (bool, error) {
	snap, ok := f.state.copies[copyID]
	if !ok || snap.Status != "available" {
		return false, nil
	}
	snap.Status = string(status)
	return true, nil
}

func (f *fakeCopyRepo) SetStatus(_ context.Context, _ db.DBTX, copyID uuid.UUID, status book.CopyStatus) error {
	if snap, ok := f.state.copies[copyID]; ok {
		snap.Status = string(status)
	}
	f.state.copyStatusSets[copyID] = status
	return nil
}

type fakeUserRepo struct{}

func (f *fakeUserRepo) Create(_ context.Context, _ db.DBTX, u *user.User) (uuid.UUID, error) {
	return u.ID(), nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

type fakeCourseRepo struct {
	state *fakeState
}

func (f *fakeCourseRepo) CreateCourse(_ context.Context, _ db.DBTX, c *course.Course) (uuid.UUID, error) {
	return c.ID(), nil
}

func (f *fakeCourseRepo) CreateSection(_ context.Context, _ db.DBTX, s *course.Section) (uuid.UUID, error) {
	return s.ID(), nil
}

func (f *fakeCourseRepo) CreateEnrollment(_ context.Context, _ db.DBTX, sectionID, studentID uuid.UUID) (uuid.UUID, error) {
	if f.state.missingUsers[studentID] {
		return uuid.Nil, foreignKeyErr()
	}
	if f.state.enrolled[sectionID][studentID] {
		return uuid.Nil, duplicateKeyErr()
	}
	if f.state.enrolled[sectionID] == nil {
		f.state.enrolled[sectionID] = map[uuid.UUID]bool{}
	}
	f.state.enrolled[sectionID][studentID] = true
	id := uuid.New()
	f.state.enrollments[id] = &shared.EnrollmentSnapshot{
		ID:        id,
		SectionID: sectionID,
		StudentID: studentID,
		Status:    string(course.EnrollmentEnrolled),
	}
	return id, nil
}

func (f *fakeCourseRepo) ClaimSeat(_ context.Context, _ db.DBTX, sectionID uuid.UUID) (bool, error) {
	snap, ok := f.state.sections[sectionID]
	if !ok {
		return false, nil
	}
	if snap.Status != "upcoming" && snap.Status != "active" {
		return false, nil
	}
	if snap.EnrolledCount >= snap.Capacity {
		return false, nil
	}
	snap.EnrolledCount++
	return true, nil
}

func (f *fakeCourseRepo) ReleaseSeat(_ context.Context, _ db.DBTX, sectionID uuid.UUID) error {
	if snap, ok := f.state.sections[sectionID]; ok && snap.EnrolledCount > 0 {
		snap.EnrolledCount--
	}
	return nil
}

func (f *fakeCourseRepo) UpdateEnrollmentStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status course.EnrollmentStatus) error {
	snap, ok := f.state.enrollments[id]
	if !ok {
		return notFoundErr()
	}
	snap.Status = string(status)
	return nil
}
