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

type SubmissionsHandler struct {
	SubmissionService *service.SubmissionService
}

// HandleSubmit godoc
//
//	@Summary		Submit Registration
//	@Description	Submit a child registration for review. The submission starts in PENDING and administrators are notified.
//	@Tags			Submissions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		enrollsdk.SubmissionRequest		true	"Registration payload"
//	@Success		201		{object}	enrollsdk.SubmissionResponse
//	@Failure		400		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/submissions [post].
func (h *SubmissionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	sub, err := h.SubmissionService.Submit(ctx, httpx.UserIDFromContext(ctx), toStudentDetails(req.Details), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Submitting account not found")
		default:
			log.Error("failed to create submission", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create submission")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSubmissionResponse(sub))
}

// HandleResubmit godoc
//
//	@Summary		Resubmit Registration
//	@Description	Replace a rejected submission's payload and return it to the review queue as REVISED. Only the owning parent may resubmit, and only from REJECTED.
//	@Tags			Submissions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Submission ID"
//	@Param			request	body		enrollsdk.SubmissionRequest		true	"Revised registration payload"
//	@Success		200		{object}	enrollsdk.SubmissionResponse
//	@Failure		400		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/submissions/{id}/resubmit [post].
func (h *SubmissionsHandler) HandleResubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	sub, err := h.SubmissionService.Resubmit(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx), toStudentDetails(req.Details), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Submission not found")
		case errors.Is(err, service.ErrInvalidStateTransition):
			httpx.WriteError(w, http.StatusConflict, "invalid_state", "Only rejected submissions can be resubmitted")
		default:
			log.Error("failed to resubmit submission", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to resubmit submission")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSubmissionResponse(sub))
}

// HandleApprove godoc
//
//	@Summary		Approve Submission
//	@Description	Approve a pending or revised submission: the canonical student record is created, linked to the submitting parent, and the parent is notified. This is an admin-only operation.
//	@Tags			Submissions
//	@Param			id	path	string	true	"Submission ID"
//	@Success		204	"approved"
//	@Failure		404	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/submissions/{id}/approve [post].
func (h *SubmissionsHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.SubmissionService.Approve(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Submission not found")
		case errors.Is(err, service.ErrInvalidStateTransition):
			httpx.WriteError(w, http.StatusConflict, "invalid_state", "Submission is not awaiting review")
		default:
			log.Error("failed to approve submission", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to approve submission")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleReject godoc
//
//	@Summary		Reject Submission
//	@Description	Reject a pending or revised submission with a mandatory reason. The parent is notified and may revise and resubmit. This is an admin-only operation.
//	@Tags			Submissions
//	@Accept			json
//	@Param			id		path	string					true	"Submission ID"
//	@Param			request	body	enrollsdk.RejectRequest	true	"Rejection reason"
//	@Success		204		"rejected"
//	@Failure		400		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/submissions/{id}/reject [post].
func (h *SubmissionsHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req enrollsdk.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.SubmissionService.Reject(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx), req.ReviewNotes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Submission not found")
		case errors.Is(err, service.ErrInvalidStateTransition):
			httpx.WriteError(w, http.StatusConflict, "invalid_state", "Submission is not awaiting review")
		default:
			log.Error("failed to reject submission", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to reject submission")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListByStatus godoc
//
//	@Summary		List Submissions
//	@Description	List submissions in a given review state, newest first. This is an admin-only operation.
//	@Tags			Submissions
//	@Produce		json
//	@Param			status	query		string	true	"PENDING, REVISED, APPROVED or REJECTED"
//	@Success		200		{object}	enrollsdk.SubmissionListResponse
//	@Failure		400		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/submissions [get].
func (h *SubmissionsHandler) HandleListByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subs, err := h.SubmissionService.ListByStatus(ctx, domain.SubmissionStatus(r.URL.Query().Get("status")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			log.Error("failed to list submissions", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list submissions")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSubmissionList(subs))
}

// HandleListMine godoc
//
//	@Summary		List Own Submissions
//	@Description	List the authenticated caller's submissions, newest first.
//	@Tags			Submissions
//	@Produce		json
//	@Success		200	{object}	enrollsdk.SubmissionListResponse
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/submissions/mine [get].
func (h *SubmissionsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subs, err := h.SubmissionService.ListForParent(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		log.Error("failed to list own submissions", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list submissions")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSubmissionList(subs))
}

// HandleListMyStudents godoc
//
//	@Summary		List Own Students
//	@Description	List the students linked to the authenticated caller.
//	@Tags			Submissions
//	@Produce		json
//	@Success		200	{object}	enrollsdk.StudentListResponse
//	@Failure		500	{object}	enrollsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/students/mine [get].
func (h *SubmissionsHandler) HandleListMyStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	students, err := h.SubmissionService.ListStudentsForParent(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		log.Error("failed to list own students", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list students")
		return
	}

	resp := enrollsdk.StudentListResponse{
		Students: make([]enrollsdk.StudentResponse, 0, len(students)),
	}
	for _, st := range students {
		resp.Students = append(resp.Students, toStudentResponse(st))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
