package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sentrang/enroll/internal/enroll/service"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/sentrang/enroll/pkg/httpx"
	"github.com/sentrang/enroll/pkg/slogx"

	_ "github.com/sentrang/enroll/api/enroll" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	sessionSecret []byte
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger

	store               store.Store
	InvitationService   *service.InvitationService
	SubmissionService   *service.SubmissionService
	AccountService      *service.AccountService
	NotificationService *service.NotificationService
}

func NewRouter(
	sessionSecret []byte,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		sessionSecret: sessionSecret,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerSubmissions()
	r.registerUsers()
	r.registerNotifications()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Enrollment Service API
//	@version		0.1.0
//	@description	Enrollment and identity lifecycle engine for a youth organization:
//	@description	token-based invitations, parent-authored student registrations with
//	@description	an admin review workflow, and role transitions with leader profiles.
//
//	@contact.name				Sentrang Team
//	@contact.url				https://github.com/sentrang/enroll
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token minted by the host application's login flow. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	// Admin lifecycle operations - moderate rate limit by user
	adminChain := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RequireAnyRole("ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/invitations", adminChain(http.HandlerFunc(h.HandleIssue)))
	r.Mux.Handle("GET /v1/invitations", adminChain(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /v1/invitations/{id}/resend", adminChain(http.HandlerFunc(h.HandleResend)))
	r.Mux.Handle("DELETE /v1/invitations/{id}", adminChain(http.HandlerFunc(h.HandleCancel)))

	// Public signup-page endpoints. Validate is a read the page polls, accept
	// is the one-shot account creation; both rate limited by IP.
	r.Mux.Handle("GET /v1/invitations/validate",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSubmissions() {
	h := &SubmissionsHandler{SubmissionService: r.SubmissionService}

	// Parent-facing operations
	r.Mux.Handle("POST /v1/submissions",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RequireAnyRole("PARENT", "LEADER", "ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/submissions/{id}/resubmit",
		httpx.Chain(http.HandlerFunc(h.HandleResubmit),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RequireAnyRole("PARENT", "LEADER", "ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/submissions/mine",
		httpx.Chain(http.HandlerFunc(h.HandleListMine),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/students/mine",
		httpx.Chain(http.HandlerFunc(h.HandleListMyStudents),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Review operations - admin only
	r.Mux.Handle("GET /v1/submissions",
		httpx.Chain(http.HandlerFunc(h.HandleListByStatus),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RequireAnyRole("ADMIN"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/submissions/{id}/approve",
		httpx.Chain(http.HandlerFunc(h.HandleApprove),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RequireAnyRole("ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/submissions/{id}/reject",
		httpx.Chain(http.HandlerFunc(h.HandleReject),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RequireAnyRole("ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{AccountService: r.AccountService}

	adminChain := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RequireAnyRole("ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users", adminChain(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/users/{id}", adminChain(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("POST /v1/users/{id}/role", adminChain(http.HandlerFunc(h.HandleChangeRole)))
	r.Mux.Handle("DELETE /v1/users/{id}", adminChain(http.HandlerFunc(h.HandleDelete)))
	r.Mux.Handle("POST /v1/users/{id}/leader-profile", adminChain(http.HandlerFunc(h.HandleCreateLeaderProfile)))
	r.Mux.Handle("DELETE /v1/leader-profiles/{id}", adminChain(http.HandlerFunc(h.HandleDeleteLeaderProfile)))
}

func (r *Router) registerNotifications() {
	h := &NotificationsHandler{NotificationService: r.NotificationService}

	// Any authenticated role reads its own inbox
	r.Mux.Handle("GET /v1/notifications",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/notifications/{id}/read",
		httpx.Chain(http.HandlerFunc(h.HandleMarkRead),
			httpx.AuthnMiddleware(r.sessionSecret),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
