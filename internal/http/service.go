package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/phatnt99/shelfwise/internal/config"
	"github.com/phatnt99/shelfwise/internal/http/metric"
	"github.com/phatnt99/shelfwise/internal/http/middleware"
	"github.com/phatnt99/shelfwise/internal/http/swagger"
	"github.com/phatnt99/shelfwise/internal/service"
	"github.com/phatnt99/shelfwise/internal/storage/db"
	"github.com/phatnt99/shelfwise/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg     config.HTTP
	logger  *slog.Logger
	metrics *metric.Metrics

	productHandler  *productHandler
	settingsHandler *settingsHandler
	healthHandler   *healthHandler
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	validator validator.Validator,
	productSvc service.ProductService,
	settingsSvc service.SettingsService,
	health db.HealthChecker,
) *Service {
	logger := log.With(slog.String("service", "http"))
	responder := newResponder(logger)

	return &Service{
		cfg:             cfg,
		logger:          logger,
		metrics:         metric.New(),
		productHandler:  newProductHandler(responder, validator, productSvc),
		settingsHandler: newSettingsHandler(responder, validator, settingsSvc),
		healthHandler:   newHealthHandler(responder, health),
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CorsOrigin),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.productHandler.listProducts)
			r.Post("/", s.productHandler.createProduct)
			r.Get("/low-stock", s.productHandler.listLowStock)
			r.Post("/scan", s.productHandler.scanBarcode)
			r.Put("/{id}", s.productHandler.updateProduct)
			r.Delete("/{id}", s.productHandler.deleteProduct)
		})

		r.Route("/user/settings", func(r chi.Router) {
			r.Get("/", s.settingsHandler.getSettings)
			r.Post("/", s.settingsHandler.saveSettings)
		})
	})

	r.Get("/healthz", s.healthHandler.healthz)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}
