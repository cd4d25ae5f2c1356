package api

import (
	"net/http"
	"time"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/api/handler"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/app/service"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog/log"
)

func NewRouter(
	authService *service.AuthService,
	rentalService *service.RentalService,
	reviewService *service.ReviewService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token when present and puts claims in context;
	// Authenticator enforces it on protected groups.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(auth chi.Router) {
			authHandler.RegisterRoutes(auth)
		})

		rentalHandler := handler.NewRentalHandler(rentalService)
		v1.Route("/rentals", rentalHandler.RegisterRoutes)

		reviewHandler := handler.NewReviewHandler(reviewService)
		v1.Route("/rentals/{rentalID}/reviews", reviewHandler.RegisterRoutes)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.RequestURI()).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
