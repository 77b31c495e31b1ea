package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/service"
	"github.com/sentrang/enroll/pkg/enrollsdk"
	"github.com/sentrang/enroll/pkg/httpx"
	"github.com/sentrang/enroll/pkg/slogx"
)

type UsersHandler struct {
	AccountService *service.AccountService
}

// HandleList godoc
//
//	@Summary		List Users
//	@Description	List users holding a given role. This is an admin-only operation.
//	@Tags			Users
//	@Produce		json
//	@Param			role	query		string	true	"ADMIN, LEADER or PARENT"
//	@Success		200		{object}	enrollsdk.UserListResponse
//	@Failure		400		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.AccountService.ListUsersByRole(ctx, domain.Role(r.URL.Query().Get("role")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			log.Error("failed to list users", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list users")
		}
		return
	}

	resp := enrollsdk.UserListResponse{
		Users: make([]enrollsdk.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet godoc
//
//	@Summary		Get User
//	@Description	Fetch a single user account. This is an admin-only operation.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	enrollsdk.UserResponse
//	@Failure		404	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.AccountService.GetUser(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			log.Error("failed to get user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to get user")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleChangeRole godoc
//
//	@Summary		Change User Role
//	@Description	Move a user to a new role. Callers cannot change their own role, and the last administrator cannot be demoted. This is an admin-only operation.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID"
//	@Param			request	body		enrollsdk.ChangeRoleRequest	true	"New role"
//	@Success		200		{object}	enrollsdk.UserResponse
//	@Failure		400		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/role [post].
func (h *UsersHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.AccountService.ChangeRole(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
		case errors.Is(err, service.ErrSelfModification):
			httpx.WriteError(w, http.StatusForbidden, "self_modification", "You cannot change your own role")
		case errors.Is(err, service.ErrLastAdmin):
			httpx.WriteError(w, http.StatusConflict, "last_admin", "Cannot remove the last administrator")
		case errors.Is(err, service.ErrInvalidStateTransition):
			httpx.WriteError(w, http.StatusConflict, "invalid_state", "Role changed concurrently, retry")
		default:
			log.Error("failed to change user role", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to change role")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleDelete godoc
//
//	@Summary		Delete User
//	@Description	Delete a user account and everything hanging off it. Student records survive; only the parent's links to them are removed. Callers cannot delete themselves, and the last administrator cannot be deleted. This is an admin-only operation.
//	@Tags			Users
//	@Param			id	path	string	true	"User ID"
//	@Success		204	"deleted"
//	@Failure		403	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.AccountService.DeleteUser(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
		case errors.Is(err, service.ErrSelfDeletion):
			httpx.WriteError(w, http.StatusForbidden, "self_deletion", "You cannot delete your own account")
		case errors.Is(err, service.ErrLastAdmin):
			httpx.WriteError(w, http.StatusConflict, "last_admin", "Cannot remove the last administrator")
		default:
			log.Error("failed to delete user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete user")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateLeaderProfile godoc
//
//	@Summary		Create Leader Profile
//	@Description	Create the extended leader record for a user and force their role to LEADER in the same transaction. This is an admin-only operation.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"User ID"
//	@Param			request	body		enrollsdk.LeaderProfileRequest	true	"Profile payload"
//	@Success		201		{object}	enrollsdk.LeaderProfileResponse
//	@Failure		400		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/leader-profile [post].
func (h *UsersHandler) HandleCreateLeaderProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.LeaderProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	profile, err := h.AccountService.CreateLeaderProfile(ctx, r.PathValue("id"), domain.LeaderProfile{
		Name:        req.Name,
		UnitID:      req.UnitID,
		YearOfBirth: req.YearOfBirth,
		Status:      req.Status,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
		case errors.Is(err, service.ErrLastAdmin):
			httpx.WriteError(w, http.StatusConflict, "last_admin", "Cannot remove the last administrator")
		default:
			log.Error("failed to create leader profile", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create leader profile")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toLeaderProfileResponse(profile))
}

// HandleDeleteLeaderProfile godoc
//
//	@Summary		Delete Leader Profile
//	@Description	Delete a leader profile and revert the owning user to PARENT in the same transaction. This is an admin-only operation.
//	@Tags			Users
//	@Param			id	path	string	true	"Profile ID"
//	@Success		204	"deleted"
//	@Failure		404	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/leader-profiles/{id} [delete].
func (h *UsersHandler) HandleDeleteLeaderProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.AccountService.DeleteLeaderProfile(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Leader profile not found")
		case errors.Is(err, service.ErrLastAdmin):
			httpx.WriteError(w, http.StatusConflict, "last_admin", "Cannot remove the last administrator")
		default:
			log.Error("failed to delete leader profile", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete leader profile")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
