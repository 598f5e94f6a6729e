package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/clients"
	"github.com/joy095/taxibooking/config"
	redisconf "github.com/joy095/taxibooking/config/redis"
	"github.com/joy095/taxibooking/logger"
	"github.com/joy095/taxibooking/metrics"
	"github.com/joy095/taxibooking/ratelimit"
	"github.com/joy095/taxibooking/routes"
	"github.com/joy095/taxibooking/services"
	"github.com/joy095/taxibooking/utils/mail"
	"github.com/joy095/taxibooking/validators"
	"github.com/joy095/taxibooking/views"
	"github.com/ulule/limiter/v3"
)

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	bookingLimiter, closeLimiter, err := buildLimiter(ctx, cfg.RateLimit)
	if err != nil {
		logger.ErrorLogger.Fatalf("Failed to set up rate limiter: %v", err)
	}
	defer closeLimiter()

	sender, err := buildSender(cfg.Mail)
	if err != nil {
		logger.ErrorLogger.Fatalf("Failed to set up mail: %v", err)
	}

	renderer, err := views.New()
	if err != nil {
		logger.ErrorLogger.Fatalf("Failed to load templates: %v", err)
	}

	m := metrics.NewMetrics()
	bookings := services.NewBookingService(bookingLimiter, validators.NewBookingValidator(), sender, m)

	var design clients.DesignClientWrapper
	if cfg.Design.Enabled() {
		design = clients.NewCanvaClient(cfg.Design)
	} else {
		logger.InfoLogger.Info("Design integration disabled; set CANVA_CLIENT_ID, CANVA_CLIENT_SECRET and CANVA_REDIRECT_URI to enable it")
	}

	r, err := routes.SetupRouter(routes.Deps{
		Config:   cfg,
		Views:    renderer,
		Bookings: bookings,
		Design:   design,
		Metrics:  m,
	})
	if err != nil {
		logger.ErrorLogger.Fatalf("Failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoLogger.Infof("Taxi Booking app listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorLogger.Fatalf("Server failed to listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
	stop()

	logger.InfoLogger.Info("Server exited gracefully.")
}

// buildLimiter returns the per-client booking limiter selected by
// RATE_LIMIT_STORE and a cleanup func. The memory limiter's janitor runs
// until ctx is cancelled.
func buildLimiter(ctx context.Context, cfg config.RateLimitConfig) (ratelimit.Limiter, func(), error) {
	rate, err := ratelimit.ParseCustomRate(cfg.Rule)
	if err != nil {
		logger.WarnLogger.Warnf("Invalid RATE_LIMIT %q, using %d-%s: %v", cfg.Rule, ratelimit.DefaultLimit, ratelimit.DefaultPeriod, err)
		rate = limiter.Rate{Limit: ratelimit.DefaultLimit, Period: ratelimit.DefaultPeriod}
	}

	switch cfg.Store {
	case "redis":
		rdb, err := redisconf.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		l, err := ratelimit.NewRedisLimiter(rdb, "booking", rate)
		if err != nil {
			redisconf.Close(rdb)
			return nil, nil, err
		}
		logger.InfoLogger.Infof("Booking rate limit %d per %s (redis)", rate.Limit, rate.Period)
		return l, func() { redisconf.Close(rdb) }, nil
	case "memory", "":
		w := ratelimit.NewWindow(rate, ratelimit.WithMaxEntries(cfg.MaxKeys))
		w.StartJanitor(ctx, rate.Period)
		logger.InfoLogger.Infof("Booking rate limit %d per %s (memory)", rate.Limit, rate.Period)
		return w, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown RATE_LIMIT_STORE %q", cfg.Store)
	}
}

// buildSender returns the SMTP dispatcher, or a no-op sender when the mail
// settings are incomplete. Only variable names are logged.
func buildSender(cfg config.MailConfig) (mail.Sender, error) {
	if !cfg.Configured() {
		logger.WarnLogger.Warnf("Email not configured; bookings will be accepted without notification. Missing: %v", cfg.Missing())
		return mail.NoopSender{}, nil
	}

	transport, err := mail.NewSMTPTransport(cfg)
	if err != nil {
		return nil, err
	}
	logger.InfoLogger.Infof("Booking notifications go to the admin address via %s:%s", cfg.Host, cfg.Port)
	return mail.NewDispatcher(transport,
		mail.WithCCCustomer(cfg.CCCustomer),
		mail.WithPDFSummary(cfg.AttachPDF),
	), nil
}
