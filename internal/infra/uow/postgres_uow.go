package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/infra/repository"
	"campus-library/internal/pkg/errs"
	"campus-library/internal/pkg/pgconv"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	loanRepo        shared.LoanRepository
	reservationRepo shared.ReservationRepository
	memberRepo      shared.MemberRepository
	bookRepo        shared.BookRepository
	copyRepo        shared.CopyRepository
	userRepo        shared.UserRepository
	courseRepo      shared.CourseRepository
	commandReads    shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Loans() shared.LoanRepository {
	if t.loanRepo == nil {
		t.loanRepo = repository.NewLoanRepository()
	}
	return t.loanRepo
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository()
	}
	return t.reservationRepo
}

func (t *pgTx) Members() shared.MemberRepository {
	if t.memberRepo == nil {
		t.memberRepo = repository.NewMemberRepository()
	}
	return t.memberRepo
}

func (t *pgTx) Books() shared.BookRepository {
	if t.bookRepo == nil {
		t.bookRepo = repository.NewBookRepository()
	}
	return t.bookRepo
}

func (t *pgTx) Copies() shared.CopyRepository {
	if t.copyRepo == nil {
		t.copyRepo = repository.NewCopyRepository()
	}
	return t.copyRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) Courses() shared.CourseRepository {
	if t.courseRepo == nil {
		t.courseRepo = repository.NewCourseRepository()
	}
	return t.courseRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

// commandReads serves the narrow row snapshots commands validate against.
// It runs on whatever DBTX it was built with, so inside a transaction it
// sees that transaction's own writes.
type commandReads struct {
	dbtx db.DBTX
}

func (r *commandReads) MemberByID(ctx context.Context, id uuid.UUID) (*shared.MemberSnapshot, error) {
	const query = `
		SELECT id, status, max_loans, current_loans, total_fines
		FROM members
		WHERE id = $1`

	var (
		snap  shared.MemberSnapshot
		fines pgtype.Numeric
	)
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Status, &snap.MaxLoans, &snap.CurrentLoans, &fines,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member", err)
	}

	snap.TotalFinesCents, err = pgconv.CentsFromNumeric(fines)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert member fines", err)
	}

	return &snap, nil
}

func (r *commandReads) LoanByID(ctx context.Context, id uuid.UUID) (*shared.LoanSnapshot, error) {
	const query = `
		SELECT l.id, l.member_id, l.book_copy_id, c.book_id, l.status, l.loan_date, l.due_date, l.return_date
		FROM loans l
		JOIN book_copies c ON c.id = l.book_copy_id
		WHERE l.id = $1`

	var (
		snap       shared.LoanSnapshot
		loanDate   pgtype.Timestamptz
		dueDate    pgtype.Timestamptz
		returnDate pgtype.Timestamptz
	)
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.MemberID, &snap.CopyID, &snap.BookID, &snap.Status,
		&loanDate, &dueDate, &returnDate,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loan", err)
	}

	snap.LoanDate = pgconv.TimeFromPgtype(loanDate)
	snap.DueDate = pgconv.TimeFromPgtype(dueDate)
	snap.ReturnDate = pgconv.TimePtrFromPgtype(returnDate)

	return &snap, nil
}

func (r *commandReads) CopyByID(ctx context.Context, id uuid.UUID) (*shared.CopySnapshot, error) {
	const query = `
		SELECT id, book_id, status
		FROM book_copies
		WHERE id = $1`

	var snap shared.CopySnapshot
	err := r.dbtx.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.BookID, &snap.Status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("book copy not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book copy", err)
	}

	return &snap, nil
}

func (r *commandReads) BookExists(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`

	var exists bool
	if err := r.dbtx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check book existence", err)
	}

	return exists, nil
}

func (r *commandReads) AvailableCopyCount(ctx context.Context, bookID uuid.UUID) (int64, error) {
	const query = `
		SELECT count(*)
		FROM book_copies
		WHERE book_id = $1 AND status = 'available'`

	var count int64
	if err := r.dbtx.QueryRow(ctx, query, bookID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count available copies", err)
	}

	return count, nil
}

func (r *commandReads) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	const query = `
		SELECT id, book_id, member_id, status, reservation_date, expiry_date
		FROM reservations
		WHERE id = $1`

	var (
		snap     shared.ReservationSnapshot
		reserved pgtype.Timestamptz
		expiry   pgtype.Timestamptz
	)
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.BookID, &snap.MemberID, &snap.Status, &reserved, &expiry,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	snap.ReservationDate = pgconv.TimeFromPgtype(reserved)
	snap.ExpiryDate = pgconv.TimeFromPgtype(expiry)

	return &snap, nil
}

func (r *commandReads) HasPendingReservation(ctx context.Context, bookID, memberID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE book_id = $1 AND member_id = $2 AND status = 'pending'
		)`

	var exists bool
	if err := r.dbtx.QueryRow(ctx, query, bookID, memberID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check pending reservation", err)
	}

	return exists, nil
}

// OldestPendingReservation is the FIFO head of the hold queue for a book.
// Returns nil without error when the queue is empty.
func (r *commandReads) OldestPendingReservation(ctx context.Context, bookID uuid.UUID) (*shared.ReservationSnapshot, error) {
	const query = `
		SELECT id, book_id, member_id, status, reservation_date, expiry_date
		FROM reservations
		WHERE book_id = $1 AND status = 'pending'
		ORDER BY reservation_date ASC, id ASC
		LIMIT 1`

	var (
		snap     shared.ReservationSnapshot
		reserved pgtype.Timestamptz
		expiry   pgtype.Timestamptz
	)
	err := r.dbtx.QueryRow(ctx, query, bookID).Scan(
		&snap.ID, &snap.BookID, &snap.MemberID, &snap.Status, &reserved, &expiry,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find oldest pending reservation", err)
	}

	snap.ReservationDate = pgconv.TimeFromPgtype(reserved)
	snap.ExpiryDate = pgconv.TimeFromPgtype(expiry)

	return &snap, nil
}

func (r *commandReads) EnrollmentByID(ctx context.Context, id uuid.UUID) (*shared.EnrollmentSnapshot, error) {
	const query = `
		SELECT id, section_id, student_id, status
		FROM student_enrollments
		WHERE id = $1`

	var snap shared.EnrollmentSnapshot
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.SectionID, &snap.StudentID, &snap.Status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("enrollment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find enrollment", err)
	}

	return &snap, nil
}

func (r *commandReads) SectionByID(ctx context.Context, id uuid.UUID) (*shared.SectionSnapshot, error) {
	const query = `
		SELECT id, course_id, max_students, current_students, status
		FROM course_sections
		WHERE id = $1`

	var snap shared.SectionSnapshot
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.CourseID, &snap.Capacity, &snap.EnrolledCount, &snap.Status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("course section not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find course section", err)
	}

	return &snap, nil
}
