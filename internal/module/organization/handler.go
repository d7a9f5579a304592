package organization

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/etaskify/server/internal/domain/membership"
	"github.com/etaskify/server/internal/port/outbound"
	"github.com/etaskify/server/internal/shared/response"
	"github.com/etaskify/server/internal/utils/middleware"
)

// Handler handles HTTP requests for the membership lifecycle.
type Handler struct {
	domain *membership.Domain
}

// NewHandler creates a new organization handler.
func NewHandler(domain *membership.Domain) *Handler {
	return &Handler{domain: domain}
}

// RegisterRoutes registers membership routes. All routes require an
// authenticated caller.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orgs := r.Group("/organizations")
	{
		orgs.POST("", h.CreateOrganization)
		orgs.GET("/public", h.FindPublicOrganizations)

		orgs.POST("/:id/invites", h.InviteUser)
		orgs.POST("/:id/join-requests", h.RequestToJoin)
		orgs.GET("/:id/join-requests", h.ListPendingJoinRequests)
	}

	invites := r.Group("/invites")
	{
		invites.GET("", h.ListPendingInvites)
		invites.POST("/:id/accept", h.AcceptInvite)
		invites.POST("/:id/reject", h.RejectInvite)
	}

	joinRequests := r.Group("/join-requests")
	{
		joinRequests.POST("/:id/approve", h.ApproveJoinRequest)
		joinRequests.POST("/:id/reject", h.RejectJoinRequest)
	}
}

// errorMappings maps domain errors to HTTP responses. Every error carries
// a stable machine code alongside the human-readable message.
var errorMappings = []response.ErrorMapping{
	{Err: membership.ErrOrganizationNotFound, Status: http.StatusNotFound, Code: "ORGANIZATION_NOT_FOUND"},
	{Err: membership.ErrInviteNotFound, Status: http.StatusNotFound, Code: "INVITE_NOT_FOUND"},
	{Err: membership.ErrJoinRequestNotFound, Status: http.StatusNotFound, Code: "JOIN_REQUEST_NOT_FOUND"},
	{Err: membership.ErrInvitedUserNotFound, Status: http.StatusNotFound, Code: "INVITED_USER_NOT_FOUND"},
	{Err: membership.ErrNotAuthorized, Status: http.StatusForbidden, Code: "NOT_AUTHORIZED"},
	{Err: membership.ErrNotPrivateOrganization, Status: http.StatusUnprocessableEntity, Code: "NOT_PRIVATE_ORGANIZATION"},
	{Err: membership.ErrNotPublicOrganization, Status: http.StatusUnprocessableEntity, Code: "NOT_PUBLIC_ORGANIZATION"},
	{Err: membership.ErrSelfInvite, Status: http.StatusConflict, Code: "SELF_INVITE"},
	{Err: membership.ErrAlreadyMember, Status: http.StatusConflict, Code: "ALREADY_MEMBER"},
	{Err: membership.ErrInviteAlreadyPending, Status: http.StatusConflict, Code: "INVITE_ALREADY_PENDING"},
	{Err: membership.ErrJoinRequestAlreadyPending, Status: http.StatusConflict, Code: "JOIN_REQUEST_ALREADY_PENDING"},
	{Err: membership.ErrInviteNotProcessable, Status: http.StatusConflict, Code: "INVITE_NOT_PROCESSABLE"},
	{Err: membership.ErrJoinRequestNotProcessable, Status: http.StatusConflict, Code: "JOIN_REQUEST_NOT_PROCESSABLE"},
	{Err: membership.ErrInvalidRequest, Status: http.StatusBadRequest, Code: "INVALID_REQUEST"},
	{Err: outbound.ErrCollaboratorUnavailable, Status: http.StatusServiceUnavailable, Code: "COLLABORATOR_UNAVAILABLE"},
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, errorMappings)
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// CreateOrganization handles organization creation.
//
//	@Summary		Create organization
//	@Description	Create a new organization owned by the caller
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateOrganizationRequest	true	"Create organization request"
//	@Success		201		{object}	OrganizationResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Router			/organizations [post]
func (h *Handler) CreateOrganization(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	org, err := h.domain.CreateOrganization(c.Request.Context(), req.Name, req.IsPrivate, middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrganizationResponse(org))
}

// FindPublicOrganizations handles public organization discovery.
//
//	@Summary		Find public organizations
//	@Description	List public organizations, optionally filtered by name
//	@Tags			Organizations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			search	query		string	false	"Name substring filter"
//	@Success		200		{object}	map[string]interface{}
//	@Router			/organizations/public [get]
func (h *Handler) FindPublicOrganizations(c *gin.Context) {
	orgs, err := h.domain.FindPublicOrganizations(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]*OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, toOrganizationResponse(org))
	}
	c.JSON(http.StatusOK, gin.H{"organizations": out})
}

// InviteUser handles inviting a user into a private organization.
//
//	@Summary		Invite user
//	@Description	Invite a user by username into a private organization (owner only)
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int					true	"Organization ID"
//	@Param			request	body		InviteUserRequest	true	"Invite request"
//	@Success		201		{object}	InviteResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Failure		409		{object}	response.ErrorResponse
//	@Failure		422		{object}	response.ErrorResponse
//	@Router			/organizations/{id}/invites [post]
func (h *Handler) InviteUser(c *gin.Context) {
	orgID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invite, err := h.domain.InviteUser(c.Request.Context(), orgID, req.Username, middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toInviteResponse(invite, ""))
}

// ListPendingInvites handles listing the caller's pending invites.
//
//	@Summary		List pending invites
//	@Description	List the caller's pending invites, newest first
//	@Tags			Invites
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string]interface{}
//	@Router			/invites [get]
func (h *Handler) ListPendingInvites(c *gin.Context) {
	invites, err := h.domain.ListPendingInvites(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": toInviteResponses(invites)})
}

// AcceptInvite handles accepting an invite.
//
//	@Summary		Accept invite
//	@Description	Accept a pending invite addressed to the caller
//	@Tags			Invites
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Invite ID"
//	@Success		200	{object}	map[string]string
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		409	{object}	response.ErrorResponse
//	@Router			/invites/{id}/accept [post]
func (h *Handler) AcceptInvite(c *gin.Context) {
	inviteID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.domain.AcceptInvite(c.Request.Context(), inviteID, middleware.GetUserID(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invite accepted"})
}

// RejectInvite handles rejecting an invite.
//
//	@Summary		Reject invite
//	@Description	Reject a pending invite addressed to the caller
//	@Tags			Invites
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Invite ID"
//	@Success		200	{object}	map[string]string
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		409	{object}	response.ErrorResponse
//	@Router			/invites/{id}/reject [post]
func (h *Handler) RejectInvite(c *gin.Context) {
	inviteID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.domain.RejectInvite(c.Request.Context(), inviteID, middleware.GetUserID(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invite rejected"})
}

// RequestToJoin handles a join request to a public organization.
//
//	@Summary		Request to join
//	@Description	Create a join request to a public organization
//	@Tags			Join requests
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Organization ID"
//	@Success		201	{object}	JoinRequestResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		409	{object}	response.ErrorResponse
//	@Failure		422	{object}	response.ErrorResponse
//	@Router			/organizations/{id}/join-requests [post]
func (h *Handler) RequestToJoin(c *gin.Context) {
	orgID, ok := h.pathID(c)
	if !ok {
		return
	}

	request, err := h.domain.RequestToJoin(c.Request.Context(), orgID, middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toJoinRequestResponse(request, ""))
}

// ListPendingJoinRequests handles listing pending join requests (owner only).
//
//	@Summary		List pending join requests
//	@Description	List an organization's pending join requests, newest first
//	@Tags			Join requests
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Organization ID"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/organizations/{id}/join-requests [get]
func (h *Handler) ListPendingJoinRequests(c *gin.Context) {
	orgID, ok := h.pathID(c)
	if !ok {
		return
	}

	requests, err := h.domain.ListPendingJoinRequests(c.Request.Context(), orgID, middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"join_requests": toJoinRequestResponses(requests)})
}

// ApproveJoinRequest handles approving a join request (owner only).
//
//	@Summary		Approve join request
//	@Description	Approve a pending join request, granting membership
//	@Tags			Join requests
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Join request ID"
//	@Success		200	{object}	map[string]string
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		409	{object}	response.ErrorResponse
//	@Router			/join-requests/{id}/approve [post]
func (h *Handler) ApproveJoinRequest(c *gin.Context) {
	requestID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.domain.ApproveJoinRequest(c.Request.Context(), requestID, middleware.GetUserID(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "join request approved"})
}

// RejectJoinRequest handles rejecting a join request (owner only).
//
//	@Summary		Reject join request
//	@Description	Reject a pending join request
//	@Tags			Join requests
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Join request ID"
//	@Success		200	{object}	map[string]string
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		409	{object}	response.ErrorResponse
//	@Router			/join-requests/{id}/reject [post]
func (h *Handler) RejectJoinRequest(c *gin.Context) {
	requestID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.domain.RejectJoinRequest(c.Request.Context(), requestID, middleware.GetUserID(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "join request rejected"})
}
