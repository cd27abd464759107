package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/bootstrap"
	"github.com/xavierca1/lead-console/internal/config"
	"github.com/xavierca1/lead-console/internal/infra/http/handlers"
	"github.com/xavierca1/lead-console/internal/infra/http/middleware"
	"github.com/xavierca1/lead-console/internal/infra/mail"
	"github.com/xavierca1/lead-console/internal/infra/notify"
	"github.com/xavierca1/lead-console/internal/infra/queue"
	"github.com/xavierca1/lead-console/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. State store
	state, err := bootstrap.OpenStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to open state store", zap.Error(err))
	}
	defer state.Close()

	// 2. Notifications
	recorder := notify.NewRecorder(50)
	notifiers := notify.Multi{notify.NewLogNotifier(zl.Named("notify")), recorder}

	var amqpConn *amqp091.Connection
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			zl.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()
		amqpConn = rabbitMQ.Conn

		notifiers = append(notifiers, queue.NewProducer(rabbitMQ.Ch, zl.Named("producer")))

		if cfg.MailEnabled() {
			sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.MailTo)
			worker := queue.NewWorker(rabbitMQ.Ch, sender, zl.Named("worker"))
			go func() {
				if err := worker.Start(ctx, queue.QueueName); err != nil {
					zl.Error("Notification worker stopped", zap.Error(err))
				}
			}()
		}
	}

	// 3. Managers and use cases
	console := bootstrap.NewConsole(ctx, cfg, state.Store, bootstrap.NewRemote(cfg), notifiers, middleware.DomainMetrics{}, zl)
	defer console.Close()

	// 4. Handlers
	var pinger handlers.Pinger
	if state.Pinger != nil {
		pinger = state.Pinger
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Leads:          handlers.NewLeadHandler(console.Leads, console.Convert, zl.Named("http")),
		Opportunities:  handlers.NewOpportunityHandler(console.Opportunities),
		Health:         handlers.NewHealthHandler(pinger, state.Backend, amqpConn),
		Notifications:  handlers.NewNotificationHandler(recorder),
		ImportLimiter:  middleware.NewRateLimiter(cfg.ImportRatePerMinute),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         zl.Named("http"),
	})

	// 5. Server
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Lead console listening", zap.String("addr", srv.Addr), zap.String("store", state.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}
