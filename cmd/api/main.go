package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/checkout-pricing/internal/catalog"
	"github.com/noah-isme/checkout-pricing/internal/checkout"
	"github.com/noah-isme/checkout-pricing/internal/config"
	"github.com/noah-isme/checkout-pricing/internal/health"
	"github.com/noah-isme/checkout-pricing/internal/obs"
	"github.com/noah-isme/checkout-pricing/internal/ratelimit"
)

func main() {
	cfg := config.MustLoad()

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "checkout-api",
			Endpoint:      cfg.OTLPEndpoint,
			Exporter:      cfg.TracingExporter,
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	var (
		httpMetrics     *obs.HTTPMetrics
		checkoutMetrics *obs.CheckoutMetrics
	)
	if cfg.MetricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), nil)
		checkoutMetrics = obs.MustRegisterCheckoutMetrics(cfg.MetricsNamespace, nil)
	}

	services := catalog.Default()
	logger.Info().Strs("services", services.Codes()).Msg("catalog loaded")

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Catalog: services})
	checkoutHandler := &checkout.Handler{
		Svc: &checkout.Service{
			Catalog: services,
			Strict:  cfg.StrictCodes,
			Logger:  logger.With().Str("component", "checkout").Logger(),
			Metrics: checkoutMetrics,
		},
		Validator: checkout.NewValidator(),
		MaxItems:  cfg.MaxItems,
	}

	quoteLimit, err := newQuoteLimiter(cfg.RateLimit, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}

	healthHandler := health.Handler{Checks: map[string]health.Checker{
		"catalog": health.CheckerFunc(func(context.Context) error {
			if services.Len() == 0 {
				return errors.New("catalog empty")
			}
			return nil
		}),
	}}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	if cfg.SecureHeaders {
		r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
		r.Use(middleware.SetHeader("X-Frame-Options", "DENY"))
		r.Use(middleware.SetHeader("Referrer-Policy", "no-referrer"))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:         300,
	}))

	if httpMetrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/catalog", catalogHandler.List)
		v.Get("/catalog/{code}", catalogHandler.Get)
		v.Group(func(g chi.Router) {
			if cfg.BodyLimit > 0 {
				g.Use(middleware.RequestSize(cfg.BodyLimit))
			}
			g.Use(quoteLimit.Middleware)
			g.Post("/checkout/quote", checkoutHandler.Quote)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Bool("strict_codes", cfg.StrictCodes).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func newQuoteLimiter(rate string, logger zerolog.Logger) (ratelimit.Handler, error) {
	if rate == "" {
		return ratelimit.Handler{}, nil
	}
	store, err := ratelimit.NewMemory(rate)
	if err != nil {
		return ratelimit.Handler{}, err
	}
	return ratelimit.Handler{
		Limiter: store,
		Key:     ratelimit.ClientIPKey,
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limit check")
		},
	}, nil
}
