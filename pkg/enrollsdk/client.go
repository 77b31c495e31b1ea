package enrollsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a small typed client for the enrollment service. Token, when set,
// is sent as a bearer session token on every request.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of the client carrying the given session token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// APIError is a non-2xx response decoded into the standard error body.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("enrollsdk: %s (%d): %s", e.Code, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("enrollsdk: %s (%d)", e.Code, e.StatusCode)
}

// do performs a JSON request/response cycle. A nil in skips the request body;
// a nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Buffer
	if in != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		code := apiErr.Error
		if code == "" {
			code = http.StatusText(resp.StatusCode)
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        code,
			Description: apiErr.ErrorDescription,
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// ============================================================================
// Invitations
// ============================================================================

func (c *Client) IssueInvitation(ctx context.Context, req InvitationRequest) (InvitationResponse, error) {
	var out InvitationResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations", req, &out)
	return out, err
}

func (c *Client) ListInvitations(ctx context.Context) (InvitationListResponse, error) {
	var out InvitationListResponse
	err := c.do(ctx, http.MethodGet, "/v1/invitations", nil, &out)
	return out, err
}

func (c *Client) ResendInvitation(ctx context.Context, id string) (InvitationResponse, error) {
	var out InvitationResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations/"+id+"/resend", nil, &out)
	return out, err
}

func (c *Client) CancelInvitation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/invitations/"+id, nil, nil)
}

// ValidateInvitation checks an invitation link before signup. Unauthenticated.
func (c *Client) ValidateInvitation(ctx context.Context, token string) (ValidateResponse, error) {
	var out ValidateResponse
	err := c.do(ctx, http.MethodGet, "/v1/invitations/validate?token="+url.QueryEscape(token), nil, &out)
	return out, err
}

// AcceptInvitation consumes an invitation and creates the account. Unauthenticated.
func (c *Client) AcceptInvitation(ctx context.Context, req AcceptRequest) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations/accept", req, &out)
	return out, err
}

// ============================================================================
// Submissions
// ============================================================================

func (c *Client) SubmitRegistration(ctx context.Context, req SubmissionRequest) (SubmissionResponse, error) {
	var out SubmissionResponse
	err := c.do(ctx, http.MethodPost, "/v1/submissions", req, &out)
	return out, err
}

func (c *Client) ResubmitRegistration(ctx context.Context, id string, req SubmissionRequest) (SubmissionResponse, error) {
	var out SubmissionResponse
	err := c.do(ctx, http.MethodPost, "/v1/submissions/"+id+"/resubmit", req, &out)
	return out, err
}

func (c *Client) ApproveSubmission(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/v1/submissions/"+id+"/approve", nil, nil)
}

func (c *Client) RejectSubmission(ctx context.Context, id string, req RejectRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/submissions/"+id+"/reject", req, nil)
}

// ListSubmissions lists submissions in a review state. Admin only.
func (c *Client) ListSubmissions(ctx context.Context, status string) (SubmissionListResponse, error) {
	var out SubmissionListResponse
	err := c.do(ctx, http.MethodGet, "/v1/submissions?status="+url.QueryEscape(status), nil, &out)
	return out, err
}

// ListMySubmissions lists the caller's own submissions.
func (c *Client) ListMySubmissions(ctx context.Context) (SubmissionListResponse, error) {
	var out SubmissionListResponse
	err := c.do(ctx, http.MethodGet, "/v1/submissions/mine", nil, &out)
	return out, err
}

// ListMyStudents lists students linked to the caller.
func (c *Client) ListMyStudents(ctx context.Context) (StudentListResponse, error) {
	var out StudentListResponse
	err := c.do(ctx, http.MethodGet, "/v1/students/mine", nil, &out)
	return out, err
}

// ============================================================================
// Users and leader profiles
// ============================================================================

func (c *Client) GetUser(ctx context.Context, id string) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodGet, "/v1/users/"+id, nil, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context, role string) (UserListResponse, error) {
	var out UserListResponse
	err := c.do(ctx, http.MethodGet, "/v1/users?role="+url.QueryEscape(role), nil, &out)
	return out, err
}

func (c *Client) ChangeUserRole(ctx context.Context, id string, req ChangeRoleRequest) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodPost, "/v1/users/"+id+"/role", req, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/users/"+id, nil, nil)
}

func (c *Client) CreateLeaderProfile(ctx context.Context, userID string, req LeaderProfileRequest) (LeaderProfileResponse, error) {
	var out LeaderProfileResponse
	err := c.do(ctx, http.MethodPost, "/v1/users/"+userID+"/leader-profile", req, &out)
	return out, err
}

func (c *Client) DeleteLeaderProfile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/leader-profiles/"+id, nil, nil)
}

// ============================================================================
// Notifications
// ============================================================================

func (c *Client) ListNotifications(ctx context.Context) (NotificationListResponse, error) {
	var out NotificationListResponse
	err := c.do(ctx, http.MethodGet, "/v1/notifications", nil, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/v1/notifications/"+id+"/read", nil, nil)
}

// ============================================================================
// System
// ============================================================================

func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out)
	return out, err
}

func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", nil, &out)
	return out, err
}
