package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"superlists/internal/config"
	"superlists/internal/db"
	"superlists/internal/email"
	apihttp "superlists/internal/http"
	"superlists/internal/repository"
	"superlists/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	health := db.NewHealthChecker(pool)
	if err := health.Ping(ctx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	listRepo := repository.NewPgTodoListRepository(pool)
	txManager := repository.NewPgTxManager(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	} else if cfg.EmailVerification {
		logger.Warn("email verification enabled without smtp; confirmations will stay pending")
	}

	var (
		sessionStore = service.NewMemorySessionStore()
		loginLimiter = service.NewLoginLimiter(cfg.LoginWindow, cfg.LoginMaxFailures)
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory sessions", zap.Error(err))
		} else {
			sessionStore = service.NewRedisSessionStore(redisClient)
			loginLimiter = service.NewRedisLoginLimiter(redisClient, "login:fail:", cfg.LoginWindow, cfg.LoginMaxFailures)
		}
		cancel()
	}

	accountSvc := service.NewAccountService(
		logger,
		userRepo,
		profileRepo,
		txManager,
		emailSender,
		email.ConfirmationLinks{Scheme: cfg.SiteScheme, Host: cfg.SiteHost},
		service.AccountOptions{
			EmailVerification: cfg.EmailVerification,
			ConfirmationTTL:   cfg.ConfirmationTTL,
		},
	)
	sessionSvc := service.NewSessionService(
		logger,
		userRepo,
		profileRepo,
		sessionStore,
		service.NewSessionTokenService(cfg.SessionSecret),
		loginLimiter,
		cfg.SessionTTL,
		service.InactiveLoginPolicy(cfg.InactiveLoginPolicy),
	)

	cookies := apihttp.CookieOptions{Secure: cfg.CookieSecure}
	accountHandler := apihttp.NewAccountHandler(logger, accountSvc, sessionSvc, listRepo, cookies)
	homeHandler := apihttp.NewHomeHandler(logger, listRepo, health, cookies)
	router := apihttp.NewRouter(logger, sessionSvc, accountHandler, homeHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
