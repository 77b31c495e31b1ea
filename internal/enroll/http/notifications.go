package http

import (
	"net/http"

	"github.com/sentrang/enroll/internal/enroll/service"
	"github.com/sentrang/enroll/pkg/enrollsdk"
	"github.com/sentrang/enroll/pkg/httpx"
	"github.com/sentrang/enroll/pkg/slogx"
)

type NotificationsHandler struct {
	NotificationService *service.NotificationService
}

// HandleList godoc
//
//	@Summary		List Notifications
//	@Description	List the authenticated caller's in-app notifications, newest first.
//	@Tags			Notifications
//	@Produce		json
//	@Success		200	{object}	enrollsdk.NotificationListResponse
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/notifications [get].
func (h *NotificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	notifs, err := h.NotificationService.List(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		log.Error("failed to list notifications", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list notifications")
		return
	}

	resp := enrollsdk.NotificationListResponse{
		Notifications: make([]enrollsdk.NotificationResponse, 0, len(notifs)),
	}
	for _, n := range notifs {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleMarkRead godoc
//
//	@Summary		Mark Notification Read
//	@Description	Mark one of the caller's notifications as read. Idempotent.
//	@Tags			Notifications
//	@Param			id	path	string	true	"Notification ID"
//	@Success		204	"marked"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/notifications/{id}/read [post].
func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.NotificationService.MarkRead(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx)); err != nil {
		log.Error("failed to mark notification read", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
