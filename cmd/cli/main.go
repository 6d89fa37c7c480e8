package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"superlists/internal/config"
	"superlists/internal/db"
	"superlists/internal/email"
	"superlists/internal/repository"
	"superlists/internal/service"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if os.Args[1] == "migrate" {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		fmt.Println("migrations applied")
		return
	}

	accounts := newAccountService(cfg, pool, logger)
	if err := runCommand(ctx, accounts, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func newAccountService(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) *service.AccountService {
	var sender email.Sender = email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		smtpSender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			sender = smtpSender
		}
	}
	return service.NewAccountService(
		logger,
		repository.NewPgUserRepository(pool),
		repository.NewPgProfileRepository(pool),
		repository.NewPgTxManager(pool),
		sender,
		email.ConfirmationLinks{Scheme: cfg.SiteScheme, Host: cfg.SiteHost},
		service.AccountOptions{
			EmailVerification: cfg.EmailVerification,
			ConfirmationTTL:   cfg.ConfirmationTTL,
		},
	)
}
