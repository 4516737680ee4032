package api

import (
	"errors"
	"net/http"

	reqdto "campus-library/internal/handler/dto/request"
	resdto "campus-library/internal/handler/dto/response"
	"campus-library/internal/handler/httperr"
	"campus-library/internal/usecase/commands"
	"campus-library/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoanHandler struct {
	loanCommands commands.LoanCommands
	loanQueries  queries.LoanQueries
}

func NewLoanHandler(loanCommands commands.LoanCommands, loanQueries queries.LoanQueries) *LoanHandler {
	return &LoanHandler{
		loanCommands: loanCommands,
		loanQueries:  loanQueries,
	}
}

// @Summary List loans
// @Description List loans with optional status filter and pagination
// @Tags loans
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (active, returned, overdue)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} queries.LoanList
// @Failure 400 {object} httperr.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *gin.Context) {
	var req reqdto.ListLoansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	list, err := h.loanQueries.List(c.Request.Context(), queries.LoanListParams{
		Status: req.Status,
		Page:   req.Page,
		Limit:  req.Limit,
	})
	if err != nil {
		if errors.Is(err, queries.ErrInvalidLoanStatus) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid loan status filter", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Check out a book copy
// @Description Create a loan for an available copy when the member is eligible
// @Tags loans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateLoanRequest true "Loan to create"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	var req reqdto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	loanID, err := h.loanCommands.CreateLoan(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrMemberNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
		case errors.Is(err, commands.ErrCopyNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Book copy not found", nil)
		case errors.Is(err, commands.ErrMemberIneligible):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Member is not eligible to borrow", nil)
		case errors.Is(err, commands.ErrCopyUnavailable):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Book copy is not available", nil)
		case errors.Is(err, commands.ErrInvalidDueDate):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Due date must be in the future", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: loanID})
}

// @Summary Return a loan
// @Description Return a borrowed copy, assess any fine and promote the oldest pending reservation
// @Tags loans
// @Security BearerAuth
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} resdto.ReturnLoanResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /loans/{id}/return [post]
func (h *LoanHandler) Return(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid loan ID", nil)
		return
	}

	result, err := h.loanCommands.ReturnLoan(c.Request.Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLoanNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Loan not found", nil)
		case errors.Is(err, commands.ErrAlreadyReturned):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Loan has already been returned", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.ReturnLoanResponse{
		LoanID:              result.LoanID,
		FineAmount:          float64(result.FineCents) / 100,
		PromotedReservation: result.PromotedReserve,
	})
}
