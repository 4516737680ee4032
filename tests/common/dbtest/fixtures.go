//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, name, status) VALUES ($1, $2, $3, $4, $5, 'active') ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, role, "Test "+role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestMember(t *testing.T, db DBLike, name, email string) uuid.UUID {
	t.Helper()

	memberID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO members (id, name, email, phone, status, max_loans, current_loans, total_fines) VALUES ($1, $2, $3, '', 'active', 5, 0, 0)",
		memberID, name, email)
	require.NoError(t, err)

	return memberID
}

// CreateTestBook inserts a book with the given number of available copies and
// returns the book ID plus copy IDs in insertion order.
func CreateTestBook(t *testing.T, db DBLike, title, isbn string, copies int) (uuid.UUID, []uuid.UUID) {
	t.Helper()

	bookID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO books (id, title, isbn, publisher, publication_year) VALUES ($1, $2, $3, 'Test Press', 2020)",
		bookID, title, isbn)
	require.NoError(t, err)

	copyIDs := make([]uuid.UUID, 0, copies)
	for range copies {
		copyID := uuid.New()
		_, err := db.Exec(ctx,
			"INSERT INTO book_copies (id, book_id, status, condition, location) VALUES ($1, $2, 'available', 'good', 'Main')",
			copyID, bookID)
		require.NoError(t, err)
		copyIDs = append(copyIDs, copyID)
	}

	return bookID, copyIDs
}

func CreateTestCourse(t *testing.T, db DBLike, code, department string) uuid.UUID {
	t.Helper()

	courseID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO courses (id, code, title, description, department, credits, status) VALUES ($1, $2, $3, NULL, $4, 3, 'active')",
		courseID, code, "Course "+code, department)
	require.NoError(t, err)

	return courseID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all tables.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
