package shared

import (
	"context"
	"time"

	"campus-library/internal/domain/book"
	"campus-library/internal/domain/course"
	"campus-library/internal/domain/loan"
	"campus-library/internal/domain/member"
	"campus-library/internal/domain/reservation"
	"campus-library/internal/domain/user"
	"campus-library/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Loans() LoanRepository
	Reservations() ReservationRepository
	Members() MemberRepository
	Books() BookRepository
	Copies() CopyRepository
	Users() UserRepository
	Courses() CourseRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	MemberByID(ctx context.Context, id uuid.UUID) (*MemberSnapshot, error)
	LoanByID(ctx context.Context, id uuid.UUID) (*LoanSnapshot, error)
	CopyByID(ctx context.Context, id uuid.UUID) (*CopySnapshot, error)
	BookExists(ctx context.Context, id uuid.UUID) (bool, error)
	AvailableCopyCount(ctx context.Context, bookID uuid.UUID) (int64, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	HasPendingReservation(ctx context.Context, bookID, memberID uuid.UUID) (bool, error)
	OldestPendingReservation(ctx context.Context, bookID uuid.UUID) (*ReservationSnapshot, error)
	SectionByID(ctx context.Context, id uuid.UUID) (*SectionSnapshot, error)
	EnrollmentByID(ctx context.Context, id uuid.UUID) (*EnrollmentSnapshot, error)
}

type LoanRepository interface {
	Create(ctx context.Context, tx db.DBTX, ln *loan.Loan) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, ln *loan.Loan) error
	MarkOverdue(ctx context.Context, tx db.DBTX, now time.Time) (int64, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status reservation.Status) error
	ExpirePending(ctx context.Context, tx db.DBTX, now time.Time) ([]uuid.UUID, error)
}

type MemberRepository interface {
	Create(ctx context.Context, tx db.DBTX, m *member.Member) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, m *member.Member) error
	AdjustLoanCount(ctx context.Context, tx db.DBTX, memberID uuid.UUID, delta int32) error
	AddFine(ctx context.Context, tx db.DBTX, memberID uuid.UUID, amountCents int64) error
	SetStatus(ctx context.Context, tx db.DBTX, memberID uuid.UUID, status member.Status) error
}

type BookRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *book.Book, copies int) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, b *book.Book) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type CopyRepository interface {
	Create(ctx context.Context, tx db.DBTX, c *book.Copy) (uuid.UUID, error)
	// ClaimAvailable transitions a copy to the given status only if it is
	// still available, reporting whether the claim won.
	ClaimAvailable(ctx context.Context, tx db.DBTX, copyID uuid.UUID, status book.CopyStatus) (bool, error)
	SetStatus(ctx context.Context, tx db.DBTX, copyID uuid.UUID, status book.CopyStatus) error
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
}

type CourseRepository interface {
	CreateCourse(ctx context.Context, tx db.DBTX, c *course.Course) (uuid.UUID, error)
	CreateSection(ctx context.Context, tx db.DBTX, s *course.Section) (uuid.UUID, error)
	CreateEnrollment(ctx context.Context, tx db.DBTX, sectionID, studentID uuid.UUID) (uuid.UUID, error)
	// ClaimSeat increments the enrolled counter only while seats remain,
	// reporting whether a seat was taken.
	ClaimSeat(ctx context.Context, tx db.DBTX, sectionID uuid.UUID) (bool, error)
	ReleaseSeat(ctx context.Context, tx db.DBTX, sectionID uuid.UUID) error
	UpdateEnrollmentStatus(ctx context.Context, tx db.DBTX, enrollmentID uuid.UUID, status course.EnrollmentStatus) error
}
