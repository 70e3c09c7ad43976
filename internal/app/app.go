package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/ozgurarslan/seminar-booking-system/internal/mailer"
	"github.com/ozgurarslan/seminar-booking-system/internal/notifier"
	"github.com/ozgurarslan/seminar-booking-system/internal/payment"
	"github.com/ozgurarslan/seminar-booking-system/internal/repository"
	appvalidator "github.com/ozgurarslan/seminar-booking-system/internal/validator"
	"github.com/ozgurarslan/seminar-booking-system/internal/vcs"
	"github.com/ozgurarslan/seminar-booking-system/internal/webhook"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	version = vcs.Version()
)

type application struct {
	config    config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate

	paymentRepo    domain.PaymentRepository
	seminarRepo    domain.SeminarRepository
	webhookLogRepo domain.WebhookLogRepository

	paymentProvider domain.PaymentProvider
	notifier        domain.Notifier
	webhookRouter   *webhook.Router

	webhookDeliveries metric.Int64Counter
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
	}
	redis struct {
		url           string
		noticeChannel string
		maxOpenConns  int
		maxIdleConns  int
		maxIdleTime   time.Duration
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	stripe struct {
		secretKey  string
		successUrl string
		failureUrl string
	}
	webhook struct {
		secret         string
		processTimeout time.Duration
		retentionDays  int
	}
	otelCollectorUrl string
}

func Run() error {
	// A local .env file is optional; in deployed environments the
	// variables come from the process environment.
	_ = godotenv.Load()

	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.redis.url, "redis-url", os.Getenv("REDIS_URL"), "Redis URL (optional)")
	flag.StringVar(&cfg.redis.noticeChannel, "redis-notice-channel", "seminar:notices", "Redis channel for messenger notices")
	flag.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.smtp.host, "smtp-host", os.Getenv("SMTP_HOST"), "SMTP host (optional)")
	flag.IntVar(&cfg.smtp.port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", "Seminar Booking <no-reply@seminars.example.com>", "SMTP sender")

	flag.StringVar(&cfg.stripe.secretKey, "stripe-key", os.Getenv("STRIPE_SECRET_KEY"), "Stripe secret key")
	flag.StringVar(&cfg.stripe.successUrl, "stripe-success-url", "https://example.com/success.html", "Stripe payment success page")
	flag.StringVar(&cfg.stripe.failureUrl, "stripe-failure-url", "https://example.com/failure.html", "Stripe payment failure page")

	flag.StringVar(&cfg.webhook.secret, "webhook-secret", os.Getenv("WEBHOOK_SECRET"), "shared secret for webhook signatures")
	flag.DurationVar(&cfg.webhook.processTimeout, "webhook-process-timeout", 10*time.Second, "per-delivery processing deadline")
	flag.IntVar(&cfg.webhook.retentionDays, "webhook-retention-days", 90, "days to keep webhook log entries (0 disables cleanup)")

	flag.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"), "OpenTelemetry collector URL (optional)")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	stripe.Key = cfg.stripe.secretKey

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &application{
		config:    cfg,
		logger:    logger,
		validator: appvalidator.NewValidator(),
	}

	shutdownTelemetry, err := app.initTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if err := repository.Migrate(cfg.db.dsn); err != nil {
		return err
	}

	db, err := newDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	app.db = db

	app.paymentRepo = repository.NewPostgresPaymentRepository(db)
	app.seminarRepo = repository.NewPostgresSeminarRepository(db, logger)
	app.webhookLogRepo = repository.NewPostgresWebhookLogRepository(db)

	app.paymentProvider = payment.NewStripePaymentProvider(cfg.stripe.successUrl, cfg.stripe.failureUrl)

	if cfg.redis.url != "" {
		redisClient, err := newRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		app.redis = redisClient
	} else {
		logger.Info("redis URL not set, duplicate checks fall back to the database only")
	}

	var smtpMailer mailer.Mailer
	if cfg.smtp.host != "" {
		smtpMailer = mailer.NewSMTPMailer(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender)
	} else {
		logger.Info("SMTP host not set, notification emails are disabled")
	}

	dispatcher := notifier.New(smtpMailer, app.redis, cfg.redis.noticeChannel, logger)
	defer dispatcher.Close()
	app.notifier = dispatcher

	processor := webhook.NewProcessor(app.paymentRepo, app.seminarRepo, logger)
	app.webhookRouter = processor.Router()

	meter := otel.Meter("seminar-booking-api")
	app.webhookDeliveries, err = meter.Int64Counter(
		"webhook.deliveries",
		metric.WithDescription("Webhook deliveries by event kind and outcome"),
	)
	if err != nil {
		return err
	}

	return app.run()
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	stopRetention := make(chan struct{})
	if app.config.webhook.retentionDays > 0 {
		go app.runLogRetention(stopRetention)
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		close(stopRetention)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

// runLogRetention prunes old webhook log entries once a day. The log
// is an audit trail, not a correctness mechanism, so failures here are
// logged and retried on the next tick.
func (app *application) runLogRetention(stop <-chan struct{}) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -app.config.webhook.retentionDays)

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			deleted, err := app.webhookLogRepo.DeleteOlderThan(ctx, cutoff)
			cancel()

			if err != nil {
				app.logger.Error("failed to prune webhook log", "error", err)
				continue
			}

			app.logger.Info("pruned webhook log", "deleted", deleted, "cutoff", cutoff)
		case <-stop:
			return
		}
	}
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(otelchi.Middleware("seminar-booking-api", otelchi.WithChiRoutes(r)))
	r.Use(app.recoverPanic)

	r.Get("/health", app.GetHealth)

	r.Route("/seminars/{seminarID}", func(r chi.Router) {
		r.Get("/", app.GetSeminarHandler)
		r.Post("/registrations", app.CreateRegistrationHandler)
	})

	r.Post("/webhooks/{provider}", app.PaymentWebhookHandler)

	return r
}
