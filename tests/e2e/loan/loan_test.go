//go:build e2e

package loan_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"campus-library/internal/domain/user"
	"campus-library/internal/handler/dto/request"
	"campus-library/internal/handler/dto/response"
	"campus-library/tests/common/dbtest"
	"campus-library/tests/common/helper"
	"campus-library/tests/e2e"
	jwtHelper "campus-library/tests/e2e/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loansURL        = "/api/loans"
	reservationsURL = "/api/reservations"
)

type loanSuite struct {
	e2e.SharedSuite
	jwtHelper *jwtHelper.JWTTestHelper
}

func TestLoanSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(loanSuite))
}

func (s *loanSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = jwtHelper.NewJWTTestHelper(s.DB, s.Config.JWT)
}

func (s *loanSuite) staffToken() string {
	return s.jwtHelper.CreateAndLoginWithDB(s.T(), s.DB, s.Router, "librarian-admin@example.com", string(user.RoleAdmin))
}

func (s *loanSuite) createLoan(token string, copyID, memberID uuid.UUID, due time.Time) *response.CreatedResponse {
	t := s.T()
	reqBody := request.CreateLoanRequest{
		BookCopyID: copyID,
		MemberID:   memberID,
		DueDate:    due,
	}
	w := helper.PerformRequest(t, s.Router, http.MethodPost, loansURL, reqBody, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res response.CreatedResponse
	helper.DecodeResponseBody(t, w.Body, &res)
	require.NotEmpty(t, res.ID)
	return &res
}

func (s *loanSuite) TestCheckoutAndReturn() {
	s.Run("full lifecycle without a waiting hold", func() {
		t := s.T()
		token := s.staffToken()

		memberID := dbtest.CreateTestMember(t, s.DB, "Casey Wu", "casey@example.com")
		_, copies := dbtest.CreateTestBook(t, s.DB, "The Go Programming Language", "978-0134190440", 1)

		created := s.createLoan(token, copies[0], memberID, time.Now().Add(14*24*time.Hour))

		var copyStatus string
		var currentLoans int
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM book_copies WHERE id = $1", copies[0]).Scan(&copyStatus))
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT current_loans FROM members WHERE id = $1", memberID).Scan(&currentLoans))
		require.Equal(t, "borrowed", copyStatus)
		require.Equal(t, 1, currentLoans)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/return", loansURL, created.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var returned response.ReturnLoanResponse
		helper.DecodeResponseBody(t, w.Body, &returned)
		require.Equal(t, created.ID, returned.LoanID)
		require.Zero(t, returned.FineAmount)
		require.Nil(t, returned.PromotedReservation)

		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM book_copies WHERE id = $1", copies[0]).Scan(&copyStatus))
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT current_loans FROM members WHERE id = $1", memberID).Scan(&currentLoans))
		require.Equal(t, "available", copyStatus)
		require.Equal(t, 0, currentLoans)
	})

	s.Run("return promotes the oldest pending hold", func() {
		t := s.T()
		token := s.staffToken()

		borrower := dbtest.CreateTestMember(t, s.DB, "Robin Diaz", "robin@example.com")
		waiter := dbtest.CreateTestMember(t, s.DB, "Sam Ortiz", "sam@example.com")
		bookID, copies := dbtest.CreateTestBook(t, s.DB, "Designing Data-Intensive Applications", "978-1449373320", 1)

		created := s.createLoan(token, copies[0], borrower, time.Now().Add(14*24*time.Hour))

		// the only copy is out, so the hold is accepted
		w := helper.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			request.CreateReservationRequest{BookID: bookID, MemberID: waiter}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var hold response.CreatedResponse
		helper.DecodeResponseBody(t, w.Body, &hold)

		w = helper.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/return", loansURL, created.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var returned response.ReturnLoanResponse
		helper.DecodeResponseBody(t, w.Body, &returned)
		require.NotNil(t, returned.PromotedReservation)
		require.Equal(t, hold.ID, *returned.PromotedReservation)

		var copyStatus, holdStatus string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM book_copies WHERE id = $1", copies[0]).Scan(&copyStatus))
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM reservations WHERE id = $1", hold.ID).Scan(&holdStatus))
		require.Equal(t, "reserved", copyStatus)
		require.Equal(t, "fulfilled", holdStatus)
	})

	s.Run("earlier of two holds wins the freed copy", func() {
		t := s.T()
		token := s.staffToken()

		borrower := dbtest.CreateTestMember(t, s.DB, "Noa Petit", "noa@example.com")
		firstWaiter := dbtest.CreateTestMember(t, s.DB, "Imani Cole", "imani@example.com")
		secondWaiter := dbtest.CreateTestMember(t, s.DB, "Theo Brandt", "theo@example.com")
		bookID, copies := dbtest.CreateTestBook(t, s.DB, "Site Reliability Engineering", "978-1491929124", 1)

		created := s.createLoan(token, copies[0], borrower, time.Now().Add(14*24*time.Hour))

		w := helper.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			request.CreateReservationRequest{BookID: bookID, MemberID: firstWaiter}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var firstHold response.CreatedResponse
		helper.DecodeResponseBody(t, w.Body, &firstHold)

		w = helper.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			request.CreateReservationRequest{BookID: bookID, MemberID: secondWaiter}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var secondHold response.CreatedResponse
		helper.DecodeResponseBody(t, w.Body, &secondHold)

		// both holds land in the same instant through the API, so push the
		// first one back a day to make the queue order unambiguous
		_, err := s.DB.Exec(t.Context(),
			"UPDATE reservations SET reservation_date = now() - interval '1 day' WHERE id = $1", firstHold.ID)
		require.NoError(t, err)

		w = helper.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/return", loansURL, created.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var returned response.ReturnLoanResponse
		helper.DecodeResponseBody(t, w.Body, &returned)
		require.NotNil(t, returned.PromotedReservation)
		require.Equal(t, firstHold.ID, *returned.PromotedReservation)

		var firstStatus, secondStatus string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM reservations WHERE id = $1", firstHold.ID).Scan(&firstStatus))
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM reservations WHERE id = $1", secondHold.ID).Scan(&secondStatus))
		require.Equal(t, "fulfilled", firstStatus)
		require.Equal(t, "pending", secondStatus)
	})

	s.Run("second checkout of the same copy is rejected", func() {
		t := s.T()
		token := s.staffToken()

		first := dbtest.CreateTestMember(t, s.DB, "Avery Kim", "avery@example.com")
		second := dbtest.CreateTestMember(t, s.DB, "Jess Moran", "jess@example.com")
		_, copies := dbtest.CreateTestBook(t, s.DB, "The Mythical Man-Month", "978-0201835953", 1)

		s.createLoan(token, copies[0], first, time.Now().Add(14*24*time.Hour))

		w := helper.PerformRequest(t, s.Router, http.MethodPost, loansURL, request.CreateLoanRequest{
			BookCopyID: copies[0],
			MemberID:   second,
			DueDate:    time.Now().Add(14 * 24 * time.Hour),
		}, token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("suspended member cannot borrow", func() {
		t := s.T()
		token := s.staffToken()

		memberID := dbtest.CreateTestMember(t, s.DB, "Drew Lane", "drew@example.com")
		_, err := s.DB.Exec(t.Context(), "UPDATE members SET status = 'suspended' WHERE id = $1", memberID)
		require.NoError(t, err)
		_, copies := dbtest.CreateTestBook(t, s.DB, "Refactoring", "978-0134757599", 1)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, loansURL, request.CreateLoanRequest{
			BookCopyID: copies[0],
			MemberID:   memberID,
			DueDate:    time.Now().Add(14 * 24 * time.Hour),
		}, token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		var copyStatus string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM book_copies WHERE id = $1", copies[0]).Scan(&copyStatus))
		require.Equal(t, "available", copyStatus)
	})

	s.Run("student role cannot create loans", func() {
		t := s.T()
		token := s.jwtHelper.CreateAndLoginWithDB(t, s.DB, s.Router, "borrow-student@example.com", string(user.RoleStudent))

		memberID := dbtest.CreateTestMember(t, s.DB, "Lee Chang", "lee@example.com")
		_, copies := dbtest.CreateTestBook(t, s.DB, "Clean Architecture", "978-0134494166", 1)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, loansURL, request.CreateLoanRequest{
			BookCopyID: copies[0],
			MemberID:   memberID,
			DueDate:    time.Now().Add(14 * 24 * time.Hour),
		}, token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

func (s *loanSuite) TestReservationGuards() {
	s.Run("hold on a book with an available copy is rejected", func() {
		t := s.T()
		token := s.staffToken()

		memberID := dbtest.CreateTestMember(t, s.DB, "Noor Patel", "noor@example.com")
		bookID, _ := dbtest.CreateTestBook(t, s.DB, "Site Reliability Engineering", "978-1491929124", 2)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			request.CreateReservationRequest{BookID: bookID, MemberID: memberID}, token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("duplicate pending hold is rejected", func() {
		t := s.T()
		token := s.staffToken()

		borrower := dbtest.CreateTestMember(t, s.DB, "Kai Rivera", "kai@example.com")
		waiter := dbtest.CreateTestMember(t, s.DB, "Max Stone", "max@example.com")
		bookID, copies := dbtest.CreateTestBook(t, s.DB, "Programming Pearls", "978-0201657883", 1)

		s.createLoan(token, copies[0], borrower, time.Now().Add(14*24*time.Hour))

		w := helper.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			request.CreateReservationRequest{BookID: bookID, MemberID: waiter}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = helper.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			request.CreateReservationRequest{BookID: bookID, MemberID: waiter}, token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("cancelled hold leaves the copy untouched", func() {
		t := s.T()
		token := s.staffToken()

		borrower := dbtest.CreateTestMember(t, s.DB, "Pat Quinn", "pat@example.com")
		waiter := dbtest.CreateTestMember(t, s.DB, "Ira Wells", "ira@example.com")
		bookID, copies := dbtest.CreateTestBook(t, s.DB, "The Pragmatic Programmer", "978-0135957059", 1)

		s.createLoan(token, copies[0], borrower, time.Now().Add(14*24*time.Hour))

		w := helper.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			request.CreateReservationRequest{BookID: bookID, MemberID: waiter}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var hold response.CreatedResponse
		helper.DecodeResponseBody(t, w.Body, &hold)

		w = helper.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/cancel", reservationsURL, hold.ID), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		var copyStatus, holdStatus string
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM book_copies WHERE id = $1", copies[0]).Scan(&copyStatus))
		require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT status FROM reservations WHERE id = $1", hold.ID).Scan(&holdStatus))
		require.Equal(t, "borrowed", copyStatus)
		require.Equal(t, "cancelled", holdStatus)
	})
}
