//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-library/internal/handler/api"
	reqdto "campus-library/internal/handler/dto/request"
	"campus-library/internal/usecase/commands"
	"campus-library/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubLoanCommands struct {
	createLoanFn func(ctx context.Context, req reqdto.CreateLoanRequest) (uuid.UUID, error)
	returnLoanFn func(ctx context.Context, loanID uuid.UUID) (*commands.ReturnLoanResult, error)
}

func (s *stubLoanCommands) CreateLoan(ctx context.Context, req reqdto.CreateLoanRequest) (uuid.UUID, error) {
	return s.createLoanFn(ctx, req)
}

func (s *stubLoanCommands) ReturnLoan(ctx context.Context, loanID uuid.UUID) (*commands.ReturnLoanResult, error) {
	return s.returnLoanFn(ctx, loanID)
}

func (s *stubLoanCommands) MarkOverdue(context.Context) (int64, error) {
	return 0, nil
}

type stubLoanQueries struct {
	listFn func(ctx context.Context, params queries.LoanListParams) (*queries.LoanList, error)
}

func (s *stubLoanQueries) List(ctx context.Context, params queries.LoanListParams) (*queries.LoanList, error) {
	return s.listFn(ctx, params)
}

type LoanHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubLoanCommands
	queries  *stubLoanQueries
}

func (s *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &stubLoanCommands{}
	s.queries = &stubLoanQueries{}
	handler := api.NewLoanHandler(s.commands, s.queries)

	s.router.GET("/loans", handler.List)
	s.router.POST("/loans", handler.Create)
	s.router.POST("/loans/:id/return", handler.Return)
}

func TestLoanHandlerSuite(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}

func (s *LoanHandlerTestSuite) postJSON(url string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *LoanHandlerTestSuite) TestCreate() {
	validBody := map[string]any{
		"book_copy_id": uuid.New().String(),
		"member_id":    uuid.New().String(),
		"due_date":     time.Now().Add(14 * 24 * time.Hour).Format(time.RFC3339),
	}

	s.Run("created", func() {
		loanID := uuid.New()
		s.commands.createLoanFn = func(_ context.Context, _ reqdto.CreateLoanRequest) (uuid.UUID, error) {
			return loanID, nil
		}

		w := s.postJSON("/loans", validBody)

		s.Equal(http.StatusCreated, w.Code)
		var resp map[string]string
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal(loanID.String(), resp["id"])
	})

	s.Run("missing member_id", func() {
		body := map[string]any{
			"book_copy_id": uuid.New().String(),
			"due_date":     time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		}

		w := s.postJSON("/loans", body)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	errorCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "member not found", err: commands.ErrMemberNotFound, expectCode: http.StatusNotFound},
		{name: "copy not found", err: commands.ErrCopyNotFound, expectCode: http.StatusNotFound},
		{name: "ineligible member", err: commands.ErrMemberIneligible, expectCode: http.StatusBadRequest},
		{name: "copy unavailable", err: commands.ErrCopyUnavailable, expectCode: http.StatusBadRequest},
		{name: "invalid due date", err: commands.ErrInvalidDueDate, expectCode: http.StatusBadRequest},
	}

	for _, tc := range errorCases {
		s.Run(tc.name, func() {
			s.commands.createLoanFn = func(_ context.Context, _ reqdto.CreateLoanRequest) (uuid.UUID, error) {
				return uuid.Nil, tc.err
			}

			w := s.postJSON("/loans", validBody)
			s.Equal(tc.expectCode, w.Code)
		})
	}
}

func (s *LoanHandlerTestSuite) TestReturn() {
	s.Run("return with fine and promotion", func() {
		loanID := uuid.New()
		promoted := uuid.New()
		s.commands.returnLoanFn = func(_ context.Context, id uuid.UUID) (*commands.ReturnLoanResult, error) {
			s.Equal(loanID, id)
			return &commands.ReturnLoanResult{
				LoanID:          loanID,
				FineCents:       150,
				PromotedReserve: &promoted,
			}, nil
		}

		req := httptest.NewRequest(http.MethodPost, "/loans/"+loanID.String()+"/return", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusOK, w.Code)
		var resp struct {
			LoanID              uuid.UUID  `json:"loan_id"`
			FineAmount          float64    `json:"fine_amount"`
			PromotedReservation *uuid.UUID `json:"promoted_reservation"`
		}
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal(loanID, resp.LoanID)
		s.Equal(1.50, resp.FineAmount)
		s.Require().NotNil(resp.PromotedReservation)
		s.Equal(promoted, *resp.PromotedReservation)
	})

	s.Run("invalid loan id", func() {
		req := httptest.NewRequest(http.MethodPost, "/loans/not-a-uuid/return", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("loan not found", func() {
		s.commands.returnLoanFn = func(_ context.Context, _ uuid.UUID) (*commands.ReturnLoanResult, error) {
			return nil, commands.ErrLoanNotFound
		}

		req := httptest.NewRequest(http.MethodPost, "/loans/"+uuid.New().String()+"/return", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("already returned", func() {
		s.commands.returnLoanFn = func(_ context.Context, _ uuid.UUID) (*commands.ReturnLoanResult, error) {
			return nil, commands.ErrAlreadyReturned
		}

		req := httptest.NewRequest(http.MethodPost, "/loans/"+uuid.New().String()+"/return", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *LoanHandlerTestSuite) TestList() {
	s.Run("passes filters through", func() {
		s.queries.listFn = func(_ context.Context, params queries.LoanListParams) (*queries.LoanList, error) {
			s.Equal("active", params.Status)
			s.Equal(int32(2), params.Page)
			return &queries.LoanList{Items: []*queries.LoanListItem{}, Page: 2, Limit: 20}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/loans?status=active&page=2", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("invalid status filter", func() {
		req := httptest.NewRequest(http.MethodGet, "/loans?status=lost", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		s.Equal(http.StatusBadRequest, w.Code)
	})
}
