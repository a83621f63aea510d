package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nightowl/docs" //this is required to generate swagger docs
	"nightowl/internal/auth"
	"nightowl/internal/mailer"
	"nightowl/internal/moderation"
	"nightowl/internal/ratelimiter"
	"nightowl/internal/sharecode"
	"nightowl/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	otp           *auth.OTPService
	moderation    *moderation.Service
	shareCodes    *sharecode.Codec
	rateLimiter   ratelimiter.Limiter

	// strictLimiter throttles the abuse-prone writes (OTP issuance, new
	// submissions) much harder than the global limiter.
	strictLimiter ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	otp         otpConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}
type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}
type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type otpConfig struct {
	exp         time.Duration
	maxAttempts int
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.With(app.StrictRateLimiterMiddleware).Post("/otp/request", app.requestOTPHandler)
			r.With(app.StrictRateLimiterMiddleware).Post("/otp/verify", app.verifyOTPHandler)
			r.Post("/refresh", app.refreshTokenHandler)

			r.With(app.AuthTokenMiddleware).Post("/logout", app.logoutHandler)
		})

		// Published catalog; browsing needs no account.
		r.Route("/venues", func(r chi.Router) {
			r.Get("/", app.listVenuesHandler)
			r.Get("/{slug}", app.getVenueHandler)
			r.With(app.AuthTokenMiddleware).Post("/recommendations", app.recommendVenuesHandler)

			r.Route("/{venueID}/photos", func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.uploadVenuePhotoHandler)
				r.Delete("/", app.deleteVenuePhotoHandler) // DELETE /venues/{venueID}/photos?photo_url={url}
			})
		})

		r.Route("/submissions", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)

			r.With(app.StrictRateLimiterMiddleware).Post("/", app.createSubmissionHandler)
			r.Get("/mine", app.listMySubmissionsHandler)
			r.With(app.RequireReviewer).Get("/queue", app.reviewQueueHandler)

			r.Route("/{submissionID}", func(r chi.Router) {
				r.Get("/", app.getSubmissionHandler)
				r.Post("/reviews", app.submitReviewHandler)
				r.Get("/reviews", app.listSubmissionReviewsHandler)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/mine", app.listMyReviewsHandler)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listNotificationsHandler)
			r.Put("/{notificationID}/read", app.markNotificationReadHandler)
			r.Post("/push-token", app.registerPushTokenHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Route("/me", func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Get("/", app.getCurrentUserHandler)
				r.Get("/badges", app.listMyBadgesHandler)
				r.Post("/reviewer-application", app.applyForReviewerHandler)
			})
		})

		// Operator-only reviewer approval; the mobile app never calls this.
		r.With(app.BasicAuthMiddleware()).Put("/admin/reviewers/{userID}", app.setReviewerStatusHandler)
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
