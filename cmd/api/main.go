package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/auth"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/config"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/database"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/handlers"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/logging"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/mail"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/queue"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/ratelimit"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/repository"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/server"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database connection
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewResetTokenRepository(db)

	resumes, err := storage.NewResumeStore(cfg.UploadDir, cfg.MaxResumeBytes)
	if err != nil {
		logger.WithError(err).Fatal("upload directory unavailable")
	}

	// 3. Mail delivery: SMTP when configured, optionally behind RabbitMQ
	var delivery mail.Sender = &mail.LogSender{Logger: logger}
	if cfg.SMTPEnabled() {
		delivery = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Secure:   cfg.SMTPSecure,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.SMTPTimeout,
		})
	}
	sender := delivery
	if cfg.RabbitMQURL != "" {
		mq, err := queue.NewMailQueue(cfg.RabbitMQURL, cfg.MailQueue, logger)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, sending mail inline")
		} else {
			defer mq.Close()
			if err := mq.Consume(ctx, delivery); err != nil {
				logger.WithError(err).Fatal("mail consumer failed to start")
			}
			sender = mq
		}
	}
	notifier := mail.NewNotifier(sender, logger)

	// 4. Rate limiting: redis when configured, in-process otherwise
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	if cfg.RedisURL != "" {
		rl, err := ratelimit.NewRedisLimiter(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, using in-memory rate limiter")
		} else {
			defer rl.Close()
			limiter = rl
		}
	}

	// 5. Core services
	policy, err := services.NewStatusPolicy(cfg.StatusTransitionRule)
	if err != nil {
		logger.WithError(err).Fatal("invalid STATUS_TRANSITION_RULE")
	}
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	jobService := services.NewJobService(jobRepo, appRepo, resumes, logger)
	appService := services.NewApplicationService(services.ApplicationServiceDeps{
		Apps:     appRepo,
		Jobs:     jobRepo,
		Resumes:  resumes,
		Notifier: notifier,
		Policy:   policy,
		Logger:   logger,
	})
	dashboardService := services.NewDashboardService(appRepo, jobRepo, cfg.CostPerHire)
	authService := services.NewAuthService(userRepo, tokenRepo, issuer, notifier, cfg.FrontendURL, logger)
	settingsService := services.NewSettingsService(userRepo, logger)

	// 6. Handlers and routes
	router := server.NewRouter(server.Deps{
		Logger:       logger,
		Issuer:       issuer,
		Limiter:      limiter,
		CORSOrigins:  cfg.CORSOrigins,
		Jobs:         handlers.NewJobHandler(jobService, logger),
		Applications: handlers.NewApplicationHandler(appService, logger),
		Dashboard:    handlers.NewDashboardHandler(dashboardService, logger),
		Auth:         handlers.NewAuthHandler(authService, logger),
		Settings:     handlers.NewSettingsHandler(settingsService, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
