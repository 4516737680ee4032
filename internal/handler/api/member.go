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

type MemberHandler struct {
	memberCommands commands.MemberCommands
	memberQueries  queries.MemberQueries
}

func NewMemberHandler(memberCommands commands.MemberCommands, memberQueries queries.MemberQueries) *MemberHandler {
	return &MemberHandler{
		memberCommands: memberCommands,
		memberQueries:  memberQueries,
	}
}

// @Summary List members
// @Description List library members with pagination
// @Tags members
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} resdto.MemberListResponse
// @Failure 400 {object} httperr.Response
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var req reqdto.ListMembersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	members, total, err := h.memberQueries.List(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.MemberListResponse{
		Items: members,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	})
}

// @Summary Get member details
// @Description Get a member with their loan history
// @Tags members
// @Security BearerAuth
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} queries.MemberDetailView
// @Failure 404 {object} httperr.Response
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid member ID", nil)
		return
	}

	view, err := h.memberQueries.GetByID(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, queries.ErrMemberNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Register a member
// @Description Register a new library member
// @Tags members
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateMemberRequest true "Member to create"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Router /members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var req reqdto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	memberID, err := h.memberCommands.CreateMember(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateMemberEmail):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "A member with this email already exists", nil)
		case errors.Is(err, commands.ErrInvalidMemberInput):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid member data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: memberID})
}

// @Summary Update a member
// @Description Update member profile, status and loan limit
// @Tags members
// @Security BearerAuth
// @Accept json
// @Param id path string true "Member ID"
// @Param request body reqdto.UpdateMemberRequest true "Fields to update"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid member ID", nil)
		return
	}

	var req reqdto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.memberCommands.UpdateMember(c.Request.Context(), memberID, req); err != nil {
		switch {
		case errors.Is(err, commands.ErrMemberNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
		case errors.Is(err, commands.ErrDuplicateMemberEmail):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "A member with this email already exists", nil)
		case errors.Is(err, commands.ErrInvalidMemberInput):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid member data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Check borrow eligibility
// @Description Report whether a member may borrow and why not
// @Tags members
// @Security BearerAuth
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} queries.EligibilityView
// @Failure 404 {object} httperr.Response
// @Router /members/{id}/eligibility [get]
func (h *MemberHandler) Eligibility(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid member ID", nil)
		return
	}

	view, err := h.memberQueries.Eligibility(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, queries.ErrMemberNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}
