package api

import (
	"errors"
	"net/http"

	reqdto "campus-library/internal/handler/dto/request"
	resdto "campus-library/internal/handler/dto/response"
	"campus-library/internal/handler/httperr"
	"campus-library/internal/handler/middleware"
	"campus-library/internal/usecase/commands"
	"campus-library/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	bookCommands commands.BookCommands
	bookQueries  queries.BookQueries
	cache        *middleware.ResponseCache
}

func NewBookHandler(bookCommands commands.BookCommands, bookQueries queries.BookQueries, cache *middleware.ResponseCache) *BookHandler {
	return &BookHandler{
		bookCommands: bookCommands,
		bookQueries:  bookQueries,
		cache:        cache,
	}
}

// @Summary List books
// @Description Search and list books with filters, sorting and pagination
// @Tags books
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search in title, ISBN, publisher or author"
// @Param genre query string false "Filter by genre name"
// @Param author query string false "Filter by author name"
// @Param available query bool false "Only books with an available copy"
// @Param sort_by query string false "Sort key (title, publication_year, borrow_count)"
// @Param order query string false "Sort order (asc, desc)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} queries.BookList
// @Failure 400 {object} httperr.Response
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	var req reqdto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	list, err := h.bookQueries.List(c.Request.Context(), req.ToParams())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Get book details
// @Description Get a book with its copies and recent loan history
// @Tags books
// @Security BearerAuth
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} queries.BookView
// @Failure 404 {object} httperr.Response
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID", nil)
		return
	}

	view, err := h.bookQueries.GetByID(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, queries.ErrBookNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Create a book
// @Description Register a new book with authors, genres and initial copies
// @Tags books
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookRequest true "Book to create"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	bookID, err := h.bookCommands.CreateBook(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateISBN):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "A book with this ISBN already exists", nil)
		case errors.Is(err, commands.ErrInvalidBookInput):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	h.cache.Invalidate(c, "books")
	h.cache.Invalidate(c, "book")
	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: bookID})
}

// @Summary Delete a book
// @Description Delete a book and its copies when none are on loan
// @Tags books
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID", nil)
		return
	}

	if err := h.bookCommands.DeleteBook(c.Request.Context(), bookID); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found", nil)
		case errors.Is(err, commands.ErrBookDeleteBlocked):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Book has copies currently on loan", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	h.cache.Invalidate(c, "books")
	h.cache.Invalidate(c, "book")
	c.Status(http.StatusNoContent)
}
