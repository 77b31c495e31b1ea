package enrollsdk

// ErrorResponse is the standard JSON error body returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_request")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Invitations
// ============================================================================

// InvitationRequest creates a new invitation.
type InvitationRequest struct {
	// Email the invitation is addressed to
	Email string `json:"email"`

	// Name is an optional display name for the invitee
	Name string `json:"name,omitempty"`

	// Role the invitee will hold on acceptance: ADMIN, LEADER or PARENT
	Role string `json:"role"`

	// UnitID places a LEADER invitee into a specific unit
	UnitID *string `json:"unit_id,omitempty"`
}

// InvitationResponse describes an invitation. Token is only populated on the
// issue and resend responses; it is never retrievable afterwards.
type InvitationResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name,omitempty"`
	Role      string  `json:"role"`
	UnitID    *string `json:"unit_id,omitempty"`
	Status    string  `json:"status"`
	Token     string  `json:"token,omitempty"`
	ExpiresAt int64   `json:"expires_at"`
	CreatedBy string  `json:"created_by"`
	CreatedAt int64   `json:"created_at"`
}

// InvitationListResponse wraps the invitation listing.
type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

// ValidateResponse reports the state of an invitation link before signup.
// State is one of VALID, EXPIRED, USED or NOT_FOUND.
type ValidateResponse struct {
	State string `json:"state"`

	// Populated when the invitation was found, so the signup page can greet
	// the invitee.
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AcceptRequest consumes an invitation and creates the account.
type AcceptRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ============================================================================
// Users
// ============================================================================

// UserResponse is the public shape of a user account.
type UserResponse struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	Name                string `json:"name"`
	Role                string `json:"role"`
	EmailVerified       bool   `json:"email_verified"`
	ForcePasswordChange bool   `json:"force_password_change,omitempty"`
	CreatedAt           int64  `json:"created_at"`
}

// UserListResponse wraps a user listing.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// ChangeRoleRequest moves a user to a new role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Submissions
// ============================================================================

// StudentDetails is the child registration payload. DateOfBirth is an ISO
// date (YYYY-MM-DD).
type StudentDetails struct {
	Name        string  `json:"name"`
	DharmaName  *string `json:"dharmaName,omitempty"`
	DateOfBirth string  `json:"dateOfBirth"`
	Gender      string  `json:"gender"`
	UnitID      string  `json:"unitId"`
	ClassID     *string `json:"classId,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// SubmissionRequest submits or resubmits a child registration.
type SubmissionRequest struct {
	Details StudentDetails `json:"details"`

	// Notes is an optional free-text message from the parent to the reviewer
	Notes string `json:"notes,omitempty"`
}

// SubmissionResponse describes a registration submission and its review state.
type SubmissionResponse struct {
	ID              string         `json:"id"`
	ParentID        string         `json:"parent_id"`
	Details         StudentDetails `json:"details"`
	SubmissionNotes string         `json:"submission_notes,omitempty"`
	Status          string         `json:"status"`
	ReviewedBy      *string        `json:"reviewed_by,omitempty"`
	ReviewNotes     *string        `json:"review_notes,omitempty"`
	ReviewedAt      *int64         `json:"reviewed_at,omitempty"`
	CreatedAt       int64          `json:"created_at"`
	UpdatedAt       int64          `json:"updated_at"`
}

// SubmissionListResponse wraps a submission listing.
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}

// RejectRequest closes a submission with a mandatory reason.
type RejectRequest struct {
	ReviewNotes string `json:"review_notes"`
}

// StudentResponse is the canonical student record.
type StudentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DharmaName  *string `json:"dharmaName,omitempty"`
	DateOfBirth string  `json:"dateOfBirth"`
	Gender      string  `json:"gender"`
	UnitID      string  `json:"unitId"`
	ClassID     *string `json:"classId,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

// StudentListResponse wraps a student listing.
type StudentListResponse struct {
	Students []StudentResponse `json:"students"`
}

// ============================================================================
// Leader profiles
// ============================================================================

// LeaderProfileRequest creates the extended leader record for a user.
type LeaderProfileRequest struct {
	Name        string  `json:"name"`
	UnitID      string  `json:"unit_id"`
	YearOfBirth int     `json:"year_of_birth,omitempty"`
	Status      string  `json:"status,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// LeaderProfileResponse describes a leader profile.
type LeaderProfileResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	UnitID      string  `json:"unit_id"`
	YearOfBirth int     `json:"year_of_birth,omitempty"`
	Status      string  `json:"status"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

// ============================================================================
// Notifications
// ============================================================================

// NotificationResponse is one in-app inbox entry.
type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ActionURL string `json:"action_url,omitempty"`
	ReadAt    *int64 `json:"read_at,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// NotificationListResponse wraps the inbox listing.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

// ============================================================================
// System
// ============================================================================

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}
