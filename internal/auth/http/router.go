package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/service"
	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/azmin8744/soliloquio/pkg/httpx"
	"github.com/azmin8744/soliloquio/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	Authenticator *service.Authenticator
	UserService   *service.UserService

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	accessTTL, refreshTTL time.Duration,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerPasswords()
	r.registerVerification()
	r.registerAccount()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	// Credential-accepting endpoints get the strict per-IP limit.
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(&SignUpHandler{UserService: r.UserService, RefreshTTL: r.refreshTTL},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(&SignInHandler{UserService: r.UserService, RefreshTTL: r.refreshTTL},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(&RefreshHandler{UserService: r.UserService, AccessTTL: r.accessTTL},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(&LogoutHandler{UserService: r.UserService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout_all",
		httpx.Chain(&LogoutAllHandler{UserService: r.UserService},
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/sessions",
		httpx.Chain(&SessionsHandler{UserService: r.UserService},
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPasswords() {
	r.Mux.Handle("POST /v1/auth/password/forgot",
		httpx.Chain(&ForgotPasswordHandler{UserService: r.UserService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/password/reset",
		httpx.Chain(&ResetPasswordHandler{UserService: r.UserService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/password/change",
		httpx.Chain(&ChangePasswordHandler{UserService: r.UserService},
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerVerification() {
	r.Mux.Handle("POST /v1/auth/verify_email",
		httpx.Chain(&VerifyEmailHandler{UserService: r.UserService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/verify_email/resend",
		httpx.Chain(&ResendVerificationHandler{UserService: r.UserService},
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAccount() {
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(&MeHandler{},
			AuthnMiddleware(r.Authenticator),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
