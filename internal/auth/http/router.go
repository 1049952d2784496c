package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/reel/api/auth" // Swagger docs
	"github.com/aussiebroadwan/reel/internal/auth/service"
	"github.com/aussiebroadwan/reel/internal/auth/store"
	"github.com/aussiebroadwan/reel/pkg/httpx"
	"github.com/aussiebroadwan/reel/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Flow     *service.FlowService
	Sessions *service.SessionService
	Passkeys *service.PasskeyService

	// ExposeOTP echoes email codes in responses, for non-production use.
	ExposeOTP bool

	// CORSOrigins enables CORS for the listed frontend origins.
	CORSOrigins []string
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ApplyRoutes registers every route. Set the service fields first.
func (r *Router) ApplyRoutes() {
	if len(r.CORSOrigins) > 0 {
		r.middlewares = append(r.middlewares, corsMiddleware(r.CORSOrigins))
	}

	r.registerWebAuthn()
	r.registerEmail()
	r.registerSession()
	r.registerPasskeys()
	r.registerSystem()

	r.Mux.Handle("/swagger/",
		httpx.Chain(httpSwagger.Handler(),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Reel Authentication Service API
//	@version		0.1.0
//	@description	Passwordless sign-in with WebAuthn passkeys or emailed one-time codes.
//	@description
//	@description				Successful ceremonies return an opaque session token used as a bearer credential.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/reel
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
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
		return
	}
	r.handler.ServeHTTP(w, req)
}

func corsMiddleware(origins []string) httpx.Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{slogx.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}

func (r *Router) registerWebAuthn() {
	h := &WebAuthnHandler{Flow: r.Flow}

	// Starts are limited by IP + handle so one address cannot churn challenges
	r.Mux.Handle("POST /auth/webauthn/register/start",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterStart),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "handle"),
		),
	)
	r.Mux.Handle("POST /auth/webauthn/login/start",
		httpx.Chain(http.HandlerFunc(h.HandleLoginStart),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "handle"),
		),
	)

	// A finish needs a live challenge, which the start limits already bound
	r.Mux.Handle("POST /auth/webauthn/register/finish",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterFinish),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /auth/webauthn/login/finish",
		httpx.Chain(http.HandlerFunc(h.HandleLoginFinish),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerEmail() {
	h := &EmailHandler{Flow: r.Flow, ExposeOTP: r.ExposeOTP}

	// Each start sends mail
	r.Mux.Handle("POST /auth/email/start",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	// Strict to stop code guessing
	r.Mux.Handle("POST /auth/email/finish",
		httpx.Chain(http.HandlerFunc(h.HandleFinish),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.Sessions}

	// Polled by frontends on every page load
	r.Mux.Handle("GET /auth/session",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /auth/session/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.SessionAuthnMiddleware(h.Lookup),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPasskeys() {
	sessions := &SessionHandler{Sessions: r.Sessions}
	h := &PasskeysHandler{Passkeys: r.Passkeys}

	r.Mux.Handle("GET /auth/passkeys",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.SessionAuthnMiddleware(sessions.Lookup),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /auth/passkeys/{credentialId}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.SessionAuthnMiddleware(sessions.Lookup),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Flow.Challenges),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
