package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/service"
	"github.com/sentrang/enroll/pkg/enrollsdk"
	"github.com/sentrang/enroll/pkg/httpx"
	"github.com/sentrang/enroll/pkg/slogx"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

// HandleIssue godoc
//
//	@Summary		Issue Invitation
//	@Description	Create an invitation for a new user with a given role. The raw token is returned exactly once and never retrievable afterwards. This is an admin-only operation.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		enrollsdk.InvitationRequest		true	"Invitation request"
//	@Success		201		{object}	enrollsdk.InvitationResponse	"invitation including its one-time token"
//	@Failure		400		{object}	enrollsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	enrollsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.InvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	actorID := httpx.UserIDFromContext(ctx)

	inv, token, err := h.InvitationService.Issue(ctx, req.Email, domain.Role(req.Role), req.UnitID, req.Name, actorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			log.Error("failed to issue invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to issue invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInvitationResponse(inv, token, time.Now().UTC()))
}

// HandleList godoc
//
//	@Summary		List Invitations
//	@Description	List all invitations with their derived status. Token fingerprints are never included. This is an admin-only operation.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	enrollsdk.InvitationListResponse
//	@Failure		401	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	invs, err := h.InvitationService.List(ctx)
	if err != nil {
		log.Error("failed to list invitations", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list invitations")
		return
	}

	now := time.Now().UTC()
	resp := enrollsdk.InvitationListResponse{
		Invitations: make([]enrollsdk.InvitationResponse, 0, len(invs)),
	}
	for _, inv := range invs {
		resp.Invitations = append(resp.Invitations, toInvitationResponse(inv, "", now))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleResend godoc
//
//	@Summary		Resend Invitation
//	@Description	Regenerate the token and expiry window of an unused invitation. The previously mailed link stops working. This is an admin-only operation.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string							true	"Invitation ID"
//	@Success		200	{object}	enrollsdk.InvitationResponse	"invitation including its new one-time token"
//	@Failure		404	{object}	enrollsdk.ErrorResponse			"error, error_description"
//	@Failure		409	{object}	enrollsdk.ErrorResponse			"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/resend [post].
func (h *InvitationsHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	inv, token, err := h.InvitationService.Resend(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found")
		case errors.Is(err, service.ErrInvitationAlreadyUsed):
			httpx.WriteError(w, http.StatusConflict, "already_used", "Invitation has already been used")
		default:
			log.Error("failed to resend invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to resend invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv, token, time.Now().UTC()))
}

// HandleCancel godoc
//
//	@Summary		Cancel Invitation
//	@Description	Delete an unused invitation so its link stops working. Used invitations are history and cannot be cancelled. This is an admin-only operation.
//	@Tags			Invitations
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204	"cancelled"
//	@Failure		404	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id} [delete].
func (h *InvitationsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.InvitationService.Cancel(ctx, r.PathValue("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found")
		case errors.Is(err, service.ErrInvitationAlreadyUsed):
			httpx.WriteError(w, http.StatusConflict, "already_used", "Invitation has already been used")
		default:
			log.Error("failed to cancel invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to cancel invitation")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleValidate godoc
//
//	@Summary		Validate Invitation Token
//	@Description	Report the state of an invitation link (VALID, EXPIRED, USED or NOT_FOUND) so the signup page can branch before asking for a password. Public endpoint.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	query		string	true	"Raw invitation token"
//	@Success		200		{object}	enrollsdk.ValidateResponse
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/validate [get].
func (h *InvitationsHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	result, err := h.InvitationService.Validate(ctx, r.URL.Query().Get("token"))
	if err != nil {
		log.Error("failed to validate invitation token", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to validate token")
		return
	}

	resp := enrollsdk.ValidateResponse{State: string(result.State)}
	if result.Invitation != nil {
		resp.Email = result.Invitation.Email
		resp.Name = result.Invitation.Name
		resp.Role = string(result.Invitation.Role)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAccept godoc
//
//	@Summary		Accept Invitation
//	@Description	Consume a valid invitation token and create the invited account. Each token works exactly once. Public endpoint.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		enrollsdk.AcceptRequest	true	"Accept request"
//	@Success		201		{object}	enrollsdk.UserResponse	"the created account"
//	@Failure		400		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.InvitationService.Accept(ctx, req.Token, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, service.ErrTokenInvalid):
			httpx.WriteError(w, http.StatusGone, "invalid_token", "Invitation token is invalid or expired")
		case errors.Is(err, service.ErrTokenAlreadyUsed):
			httpx.WriteError(w, http.StatusConflict, "token_used", "Invitation token has already been used")
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			httpx.WriteError(w, http.StatusConflict, "email_registered", "An account with this email already exists")
		default:
			log.Error("failed to accept invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to accept invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}
