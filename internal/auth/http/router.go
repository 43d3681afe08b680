package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/ratelimit"
	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/httpx"
	"github.com/sautiyetu/sauti/pkg/slogx"

	_ "github.com/sautiyetu/sauti/api/auth" // Swagger docs
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	DB       Pinger
	Cache    Pinger // optional, set when the redis limiter backend is used
	Registry *prometheus.Registry
	Guard    *ratelimit.Guard

	OTPService       *service.OTPService
	PhoneAuthService *service.PhoneAuthService
	AccountService   *service.AccountService
	TokenService     *service.TokenService
	AdminAuthService *service.AdminAuthService
	AdminUserService *service.AdminUserService
	MFAService       *service.MFAService
	GeographyService *service.GeographyService
}

func NewRouter(buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPhoneAuth()
	r.registerGeography()
	r.registerAdminAuth()
	r.registerAdminMFA()
	r.registerAdmins()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Sauti Authentication API
//	@version		0.1.0
//	@description	Phone number authentication for Sauti citizens and password plus TOTP login for the admin console.
//	@description
//	@description				Bearer tokens are EdDSA-signed JWTs that can be revoked server side.
//
//	@contact.name				Sauti Yetu
//	@contact.url				https://github.com/sautiyetu/sauti
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
//	@description				Access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// citizen wraps handlers that accept any valid bearer token.
func (r *Router) citizen(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.TokenService),
		httpx.RateLimitByAccount(limit),
	)
}

// admin wraps handlers that need an admin-console token from an active admin
// holding any of perms.
func (r *Router) admin(h http.HandlerFunc, limit httpx.RateLimitConfig, perms ...domain.Permission) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.TokenService),
		httpx.RequireAbility(domain.AbilityAdmin),
		RequirePermission(r.AccountService, perms...),
		httpx.RateLimitByAccount(limit),
	)
}

func (r *Router) registerPhoneAuth() {
	h := &AuthHandler{
		OTP:      r.OTPService,
		Phone:    r.PhoneAuthService,
		Accounts: r.AccountService,
		Guard:    r.Guard,
	}

	// Unauthenticated and SMS-backed: strict by IP on top of the per-phone policies.
	r.Mux.Handle("POST /v1/auth/request-otp",
		httpx.Chain(http.HandlerFunc(h.HandleRequestOTP),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/register", r.citizen(h.HandleRegister, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/auth/me", r.citizen(h.HandleMe, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/auth/logout", r.citizen(h.HandleLogout, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/auth/logout-all", r.citizen(h.HandleLogoutAll, httpx.ModerateLimit))
}

func (r *Router) registerGeography() {
	h := &GeographyHandler{Geography: r.GeographyService}

	public := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(httpx.PublicLimit))
	}

	r.Mux.Handle("GET /v1/geography/counties", public(h.HandleCounties))
	r.Mux.Handle("GET /v1/geography/counties/{id}/constituencies", public(h.HandleConstituencies))
	r.Mux.Handle("GET /v1/geography/constituencies/{id}/wards", public(h.HandleWards))
}

func (r *Router) registerAdminAuth() {
	h := &AdminAuthHandler{Auth: r.AdminAuthService, Tokens: r.TokenService}

	r.Mux.Handle("POST /v1/admin/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v1/admin/auth/me", r.admin(h.HandleMe, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/admin/auth/logout", r.admin(h.HandleLogout, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/auth/logout-all", r.admin(h.HandleLogoutAll, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/auth/change-password", r.admin(h.HandleChangePassword, httpx.StrictLimit))
}

func (r *Router) registerAdminMFA() {
	h := &MFAHandler{MFA: r.MFAService}

	r.Mux.Handle("POST /v1/admin/mfa/totp/enroll", r.admin(h.HandleEnroll, httpx.ModerateLimit))
	// Code guessing: strict.
	r.Mux.Handle("POST /v1/admin/mfa/totp/verify", r.admin(h.HandleVerify, httpx.StrictLimit))
	r.Mux.Handle("DELETE /v1/admin/mfa/totp", r.admin(h.HandleDisable, httpx.StrictLimit))
}

func (r *Router) registerAdmins() {
	h := &AdminsHandler{Admins: r.AdminUserService}

	r.Mux.Handle("GET /v1/admin/admins", r.admin(h.HandleList, httpx.ModerateLimit, domain.PermAdminsView))
	r.Mux.Handle("POST /v1/admin/admins", r.admin(h.HandleCreate, httpx.ModerateLimit, domain.PermAdminsCreate))
	r.Mux.Handle("PATCH /v1/admin/admins/{id}", r.admin(h.HandleUpdate, httpx.ModerateLimit, domain.PermAdminsEdit))
	r.Mux.Handle("DELETE /v1/admin/admins/{id}", r.admin(h.HandleDelete, httpx.ModerateLimit, domain.PermAdminsDelete))
	r.Mux.Handle("GET /v1/admin/roles-permissions", r.admin(h.HandleRolesPermissions, httpx.LenientLimit, domain.PermAdminsView))

	r.Mux.Handle("GET /v1/admin/users/{id}", r.admin(h.HandleGetUser, httpx.ModerateLimit, domain.PermUsersView))
	r.Mux.Handle("POST /v1/admin/users/{id}/suspend", r.admin(h.HandleSuspend, httpx.ModerateLimit, domain.PermUsersSuspend))
	r.Mux.Handle("POST /v1/admin/users/{id}/activate", r.admin(h.HandleActivate, httpx.ModerateLimit, domain.PermUsersSuspend))
}

func (r *Router) registerSystem() {
	// Probes are polled frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.DB, r.TokenService.Ready, r.Cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.Registry != nil {
		r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry}))
	}
}
