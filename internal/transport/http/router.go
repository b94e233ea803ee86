package http

import (
	"net/http"

	"github.com/go-account-api/internal/application/account"
	"github.com/go-account-api/internal/config"
	"github.com/go-account-api/internal/transport/http/handler"
	appmiddleware "github.com/go-account-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	accountSvc := account.NewService(account.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		FileStore:   deps.S3Store,
		TokenSigner: deps.JWTProvider,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		OTPTTL:      cfg.OTPTTL,
	})

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(accountSvc)

	authMw := appmiddleware.Auth(deps.JWTProvider, deps.AccountRepo)

	r.Get("/health-check", healthH.Ping)

	r.Route("/user", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.With(sensitiveRL.Limit).Post("/login", accountH.Login)
		r.With(sensitiveRL.Limit).Post("/signUp", accountH.SignUp)
		r.With(sensitiveRL.Limit).Get("/verifyOTP", accountH.VerifyOTP)
		r.With(sensitiveRL.Limit).Get("/resendOTP", accountH.ResendOTP)
		r.With(sensitiveRL.Limit).Get("/forgotPassword", accountH.ForgotPassword)
		r.With(sensitiveRL.Limit).Put("/resetPassword", accountH.ResetPassword)
		r.With(sensitiveRL.Limit).Get("/resetPassword", accountH.ResetPassword)

		// ── Token-gated routes ───────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/userProfile", accountH.Profile)
			r.Put("/changePassword", accountH.ChangePassword)
			r.Post("/logout", accountH.Logout)
			r.Delete("/deleteAccount", accountH.DeleteAccount)
			r.Post("/updateProfile", accountH.UpdateProfile)
		})
	})

	return r
}
