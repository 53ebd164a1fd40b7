package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/confera/conference-hub/docs" // Import generated docs
	appMiddleware "github.com/confera/conference-hub/internal/middleware"
	"github.com/confera/conference-hub/internal/permission"
	"github.com/confera/conference-hub/internal/response"
)

type Router struct {
	authHandler         *AuthHandler
	eventHandler        *EventHandler
	registrationHandler *RegistrationHandler
	certificateHandler  *CertificateHandler
	speakerHandler      *SpeakerHandler
	sponsorHandler      *SponsorHandler
	userHandler         *UserHandler
	tenantResolver      appMiddleware.TenantResolver
	tenantHeader        string
	defaultTenantSlug   string
	jwtSecret           string
}

func NewRouter(
	authHandler *AuthHandler,
	eventHandler *EventHandler,
	registrationHandler *RegistrationHandler,
	certificateHandler *CertificateHandler,
	speakerHandler *SpeakerHandler,
	sponsorHandler *SponsorHandler,
	userHandler *UserHandler,
	tenantResolver appMiddleware.TenantResolver,
	tenantHeader string,
	defaultTenantSlug string,
	jwtSecret string,
) *Router {
	return &Router{
		authHandler:         authHandler,
		eventHandler:        eventHandler,
		registrationHandler: registrationHandler,
		certificateHandler:  certificateHandler,
		speakerHandler:      speakerHandler,
		sponsorHandler:      sponsorHandler,
		userHandler:         userHandler,
		tenantResolver:      tenantResolver,
		tenantHeader:        tenantHeader,
		defaultTenantSlug:   defaultTenantSlug,
		jwtSecret:           jwtSecret,
	}
}

func (ro *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Tenant"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, "Server is up", map[string]string{"status": "ok"})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.ResolveTenant(ro.tenantResolver, ro.tenantHeader, ro.defaultTenantSlug))

		// ── Auth ──────────────────────────────────────────
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", ro.authHandler.Login)
			r.Post("/register", ro.authHandler.RegisterPublic)
			r.Post("/refresh", ro.authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Get("/me", ro.authHandler.Me)
			})
		})

		// ── Events ────────────────────────────────────────
		r.Route("/events", func(r chi.Router) {
			// Catalog reads are public; a valid token upgrades staff
			// to seeing unpublished events.
			r.With(appMiddleware.AuthenticateOptional(ro.jwtSecret)).Get("/", ro.eventHandler.GetAll)
			r.With(appMiddleware.AuthenticateOptional(ro.jwtSecret)).Get("/{id}", ro.eventHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(appMiddleware.PathGate())
				r.With(appMiddleware.RequirePermission(permission.EventsCreate)).Post("/", ro.eventHandler.Create)
				r.With(appMiddleware.RequirePermission(permission.EventsUpdate)).Put("/{id}", ro.eventHandler.Update)
				r.With(appMiddleware.RequirePermission(permission.EventsDelete)).Delete("/{id}", ro.eventHandler.Delete)
				r.With(appMiddleware.RequirePermission(permission.EventsUpdate)).Post("/{id}/banner", ro.eventHandler.UploadBanner)
			})
		})

		// ── Speakers ──────────────────────────────────────
		r.Route("/speakers", func(r chi.Router) {
			r.Get("/", ro.speakerHandler.GetAll)
			r.Get("/{id}", ro.speakerHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(appMiddleware.PathGate())
				r.With(appMiddleware.RequirePermission(permission.SpeakersCreate)).Post("/", ro.speakerHandler.Create)
				r.With(appMiddleware.RequirePermission(permission.SpeakersUpdate)).Put("/{id}", ro.speakerHandler.Update)
				r.With(appMiddleware.RequirePermission(permission.SpeakersDelete)).Delete("/{id}", ro.speakerHandler.Delete)
				r.With(appMiddleware.RequirePermission(permission.SpeakersUpdate)).Post("/{id}/photo", ro.speakerHandler.UploadPhoto)
			})
		})

		// ── Sponsors ──────────────────────────────────────
		r.Route("/sponsors", func(r chi.Router) {
			r.Get("/", ro.sponsorHandler.GetAll)
			r.Get("/{id}", ro.sponsorHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(appMiddleware.PathGate())
				r.With(appMiddleware.RequirePermission(permission.SponsorsCreate)).Post("/", ro.sponsorHandler.Create)
				r.With(appMiddleware.RequirePermission(permission.SponsorsUpdate)).Put("/{id}", ro.sponsorHandler.Update)
				r.With(appMiddleware.RequirePermission(permission.SponsorsDelete)).Delete("/{id}", ro.sponsorHandler.Delete)
				r.With(appMiddleware.RequirePermission(permission.SponsorsUpdate)).Post("/{id}/logo", ro.sponsorHandler.UploadLogo)
			})
		})

		// ── Registrations ─────────────────────────────────
		// Self-signup stays open; single-record reads are
		// authenticated with ownership enforced below the
		// handler.
		r.Route("/registrations", func(r chi.Router) {
			r.Post("/public", ro.registrationHandler.CreatePublic)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(appMiddleware.PathGate())
				r.With(appMiddleware.RequirePermission(permission.RegistrationsView)).Get("/", ro.registrationHandler.GetAll)
				r.With(appMiddleware.RequirePermission(permission.RegistrationsCreate)).Post("/", ro.registrationHandler.Create)
				r.With(appMiddleware.RequirePermission(permission.RegistrationsBulk)).Post("/bulk", ro.registrationHandler.Bulk)
				r.With(appMiddleware.RequirePermission(permission.RegistrationsExport)).Get("/export", ro.registrationHandler.Export)
				// Read and update rely on the permission-or-ownership
				// check inside the service, so attendees can reach
				// their own registration.
				r.Get("/{id}", ro.registrationHandler.GetByID)
				r.Put("/{id}", ro.registrationHandler.Update)
				r.With(appMiddleware.RequirePermission(permission.RegistrationsDelete)).Delete("/{id}", ro.registrationHandler.Delete)
			})
		})

		// ── Certificates ──────────────────────────────────
		r.Route("/certificates", func(r chi.Router) {
			// Public verification by code, no identity required.
			r.Get("/verify/{code}", ro.certificateHandler.Verify)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Use(appMiddleware.PathGate())
				r.Get("/", ro.certificateHandler.GetAll)
				r.With(appMiddleware.RequirePermission(permission.CertificatesCreate)).Post("/", ro.certificateHandler.Create)
				r.Get("/{id}", ro.certificateHandler.GetByID)
				r.Get("/{id}/download", ro.certificateHandler.Download)
				r.With(appMiddleware.RequirePermission(permission.CertificatesRevoke)).Post("/{id}/revoke", ro.certificateHandler.Revoke)
				r.With(appMiddleware.RequirePermission(permission.CertificatesRegenerate)).Post("/{id}/regenerate", ro.certificateHandler.Regenerate)
			})
		})

		// ── Users ─────────────────────────────────────────
		// The coarse path gate runs before any per-route
		// permission check and keeps this subtree super-admin
		// only, with /users/me as the one exception.
		r.Route("/users", func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.jwtSecret))
			r.Use(appMiddleware.PathGate())
			r.Get("/me", ro.authHandler.Me)
			r.Put("/me", ro.userHandler.UpdateMe)
			r.With(appMiddleware.RequirePermission(permission.UsersCreate)).Post("/", ro.authHandler.Register)
			r.With(appMiddleware.RequirePermission(permission.UsersView)).Get("/", ro.userHandler.GetAll)
			r.With(appMiddleware.RequirePermission(permission.UsersView)).Get("/{id}", ro.userHandler.GetByID)
			r.With(appMiddleware.RequirePermission(permission.UsersUpdate)).Put("/{id}", ro.userHandler.Update)
			r.With(appMiddleware.RequirePermission(permission.UsersDelete)).Delete("/{id}", ro.userHandler.Delete)
		})
	})

	return r
}
