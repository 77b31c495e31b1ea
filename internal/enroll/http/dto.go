package http

import (
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/pkg/enrollsdk"
)

// Mapping between domain types and the wire types in pkg/enrollsdk.

func toInvitationResponse(inv domain.Invitation, rawToken string, now time.Time) enrollsdk.InvitationResponse {
	return enrollsdk.InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Name:      inv.Name,
		Role:      string(inv.Role),
		UnitID:    inv.UnitID,
		Status:    string(inv.Status(now)),
		Token:     rawToken,
		ExpiresAt: inv.ExpiresAt.Unix(),
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt.Unix(),
	}
}

func toUserResponse(u domain.User) enrollsdk.UserResponse {
	return enrollsdk.UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Role:                string(u.Role),
		EmailVerified:       u.EmailVerified,
		ForcePasswordChange: u.ForcePasswordChange,
		CreatedAt:           u.CreatedAt.Unix(),
	}
}

func toStudentDetails(d enrollsdk.StudentDetails) domain.StudentDetails {
	return domain.StudentDetails{
		Name:        d.Name,
		DharmaName:  d.DharmaName,
		DateOfBirth: d.DateOfBirth,
		Gender:      d.Gender,
		UnitID:      d.UnitID,
		ClassID:     d.ClassID,
		Notes:       d.Notes,
	}
}

func fromStudentDetails(d domain.StudentDetails) enrollsdk.StudentDetails {
	return enrollsdk.StudentDetails{
		Name:        d.Name,
		DharmaName:  d.DharmaName,
		DateOfBirth: d.DateOfBirth,
		Gender:      d.Gender,
		UnitID:      d.UnitID,
		ClassID:     d.ClassID,
		Notes:       d.Notes,
	}
}

func toSubmissionResponse(sub domain.Submission) enrollsdk.SubmissionResponse {
	resp := enrollsdk.SubmissionResponse{
		ID:              sub.ID,
		ParentID:        sub.ParentID,
		Details:         fromStudentDetails(sub.Details),
		SubmissionNotes: sub.SubmissionNotes,
		Status:          string(sub.Status),
		ReviewedBy:      sub.ReviewedBy,
		ReviewNotes:     sub.ReviewNotes,
		CreatedAt:       sub.CreatedAt.Unix(),
		UpdatedAt:       sub.UpdatedAt.Unix(),
	}
	if sub.ReviewedAt != nil {
		at := sub.ReviewedAt.Unix()
		resp.ReviewedAt = &at
	}
	return resp
}

func toSubmissionList(subs []domain.Submission) enrollsdk.SubmissionListResponse {
	out := enrollsdk.SubmissionListResponse{
		Submissions: make([]enrollsdk.SubmissionResponse, 0, len(subs)),
	}
	for _, sub := range subs {
		out.Submissions = append(out.Submissions, toSubmissionResponse(sub))
	}
	return out
}

func toStudentResponse(st domain.Student) enrollsdk.StudentResponse {
	return enrollsdk.StudentResponse{
		ID:          st.ID,
		Name:        st.Name,
		DharmaName:  st.DharmaName,
		DateOfBirth: st.DateOfBirth,
		Gender:      st.Gender,
		UnitID:      st.UnitID,
		ClassID:     st.ClassID,
		Notes:       st.Notes,
		CreatedAt:   st.CreatedAt.Unix(),
	}
}

func toLeaderProfileResponse(p domain.LeaderProfile) enrollsdk.LeaderProfileResponse {
	return enrollsdk.LeaderProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		UnitID:      p.UnitID,
		YearOfBirth: p.YearOfBirth,
		Status:      p.Status,
		Phone:       p.Phone,
		Address:     p.Address,
		CreatedAt:   p.CreatedAt.Unix(),
	}
}

func toNotificationResponse(n domain.Notification) enrollsdk.NotificationResponse {
	resp := enrollsdk.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		ActionURL: n.ActionURL,
		CreatedAt: n.CreatedAt.Unix(),
	}
	if n.ReadAt != nil {
		at := n.ReadAt.Unix()
		resp.ReadAt = &at
	}
	return resp
}
