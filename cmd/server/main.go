package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/santu/marketplace/internal/httpserver"
	"github.com/santu/marketplace/internal/middleware/auth"
	"github.com/santu/marketplace/internal/mykafka"
	"github.com/santu/marketplace/internal/repo"
	"github.com/santu/marketplace/internal/search"
	"github.com/santu/marketplace/internal/service"
	"github.com/santu/marketplace/internal/upload"
	"github.com/santu/marketplace/internal/webhook"
	"github.com/santu/marketplace/pkg/config"
	pkgdb "github.com/santu/marketplace/pkg/db"
	"github.com/santu/marketplace/pkg/logging"
	"github.com/santu/marketplace/pkg/metrics"
	"github.com/santu/marketplace/pkg/middleware/ratelimit"
)

type eventProducer interface {
	service.EventPublisher
	Close() error
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.Env)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, cfg.IsProduction())
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	store := repo.New(db)
	if err := store.Migrate(context.Background()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var producer eventProducer = mykafka.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	authSvc := &service.AuthService{
		Store:  store,
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Events: producer,
	}

	deps := &httpserver.Deps{
		Shops:          &httpserver.ShopHTTP{Svc: &service.ShopService{Store: store, Events: producer}},
		Catalog:        &httpserver.CatalogHTTP{Svc: &service.CatalogService{Store: store}},
		Auth:           &httpserver.AuthHTTP{Svc: authSvc, SecureCookies: cfg.SecureCookies},
		Webhook:        &httpserver.WebhookHTTP{Verifier: &webhook.Verifier{Secret: cfg.StripeWebhookSecret}, Metrics: collector},
		Guard:          auth.NewGuard(authSvc, authSvc),
		TrustedOrigins: cfg.TrustedOrigins,
		RateLimit:      ratelimit.PerIP(ratelimit.DefaultConfig()),
		Ready:          store.Ping,
		Metrics:        metrics.Handler(reg),
	}
	if cfg.StripeWebhookSecret == "" {
		logger.Warn("stripe_webhook_disabled", "reason", "STRIPE_WEBHOOK_SECRET is not set")
	}

	var uploadStore upload.Store = upload.Disabled{}
	if cfg.S3Bucket != "" {
		s3Store, err := upload.NewS3Store(context.Background(), upload.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		uploadStore = s3Store
	} else {
		logger.Warn("uploads_disabled", "reason", "S3_BUCKET is not set")
	}
	deps.Upload = &httpserver.UploadHTTP{Relay: &upload.Relay{Store: uploadStore}, Metrics: collector}

	if cfg.ESURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		es, err := search.NewClient(ctx, search.Config{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword}, logger)
		cancel()
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		deps.Search = &httpserver.SearchHTTP{Svc: &search.Service{ES: es, Index: cfg.ProductIndex, Products: store}}
	}

	e := httpserver.New(logger, collector, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	logger.Info("shutdown complete")
}
