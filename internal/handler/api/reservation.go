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

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(reservationCommands commands.ReservationCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary List reservations
// @Description List all reservations, newest first
// @Tags reservations
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.ReservationView
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	views, err := h.reservationQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary List a book's reservation queue
// @Description List pending reservations for a book in fulfillment order
// @Tags reservations
// @Security BearerAuth
// @Produce json
// @Param bookId path string true "Book ID"
// @Success 200 {array} queries.ReservationView
// @Failure 400 {object} httperr.Response
// @Router /reservations/book/{bookId} [get]
func (h *ReservationHandler) ListByBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID", nil)
		return
	}

	views, err := h.reservationQueries.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Reserve a book
// @Description Place a hold on a book that has no available copies
// @Tags reservations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateReservationRequest true "Reservation to create"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	reservationID, err := h.reservationCommands.CreateReservation(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found", nil)
		case errors.Is(err, commands.ErrMemberNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
		case errors.Is(err, commands.ErrBookAvailable):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Book has available copies, borrow it instead", nil)
		case errors.Is(err, commands.ErrDuplicatePending):
			httperr.AbortWithError(c, http.StatusConflict, err, "Member already has a pending reservation for this book", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: reservationID})
}

// @Summary Cancel a reservation
// @Description Cancel a pending reservation
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID", nil)
		return
	}

	if err := h.reservationCommands.CancelReservation(c.Request.Context(), reservationID); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, commands.ErrNotPending):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Only pending reservations can be cancelled", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
