package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storm-aslanbek/veridian/internal/config"
	"github.com/storm-aslanbek/veridian/internal/handler"
	"github.com/storm-aslanbek/veridian/internal/logging"
	"github.com/storm-aslanbek/veridian/internal/middleware"
	"github.com/storm-aslanbek/veridian/internal/repository"
	"github.com/storm-aslanbek/veridian/internal/service"
	"github.com/storm-aslanbek/veridian/internal/support"
	"github.com/storm-aslanbek/veridian/internal/transfer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("veridian-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	accounts := repository.NewAccountRepository(db)
	transactions := repository.NewTransactionRepository(db)
	cards := repository.NewCardRepository(db)
	bills := repository.NewBillRepository(db)
	loans := repository.NewLoanRepository(db)
	recipients := repository.NewRecipientRepository(db)
	idempotency := repository.NewIdempotencyRepository(db)

	go cleanIdempotencyCache(idempotency)

	resolver := transfer.NewResolver(users, accounts)
	transfers := transfer.NewService(accounts, transactions, resolver, db, cfg.StorageTimeout)
	onboarding := service.NewOnboarding(db, users, accounts, cards, cfg.SeedBalance)
	chat := support.NewChatClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)

	authHandler := handler.NewAuthHandler(users, onboarding, cfg.JWTSecret, cfg.JWTExpiry)
	userHandler := handler.NewUserHandler(users, resolver)
	accountHandler := handler.NewAccountHandler(accounts)
	cardHandler := handler.NewCardHandler(cards)
	transactionHandler := handler.NewTransactionHandler(transactions)
	transferHandler := handler.NewTransferHandler(transfers)
	billingHandler := handler.NewBillingHandler(bills, loans)
	recipientHandler := handler.NewRecipientHandler(recipients)
	supportHandler := handler.NewSupportHandler(chat)

	authed := middleware.Auth(cfg.JWTSecret)
	idempotent := middleware.Idempotency(idempotency)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)

	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)

	mux.Handle("GET /users/me", authed(http.HandlerFunc(userHandler.Me)))
	mux.Handle("POST /users/search", authed(http.HandlerFunc(userHandler.Search)))

	mux.Handle("GET /accounts", authed(http.HandlerFunc(accountHandler.List)))
	mux.Handle("GET /accounts/{id}", authed(http.HandlerFunc(accountHandler.Get)))
	mux.Handle("GET /cards", authed(http.HandlerFunc(cardHandler.List)))
	mux.Handle("GET /transactions", authed(http.HandlerFunc(transactionHandler.List)))

	mux.Handle("POST /transfers/card", authed(idempotent(http.HandlerFunc(transferHandler.ToCard))))
	mux.Handle("POST /transfers/phone", authed(idempotent(http.HandlerFunc(transferHandler.ByPhone))))

	mux.Handle("GET /bills", authed(http.HandlerFunc(billingHandler.ListBills)))
	mux.Handle("GET /loans", authed(http.HandlerFunc(billingHandler.ListLoans)))
	mux.Handle("GET /recipients", authed(http.HandlerFunc(recipientHandler.List)))
	mux.Handle("POST /recipients", authed(http.HandlerFunc(recipientHandler.Create)))

	mux.Handle("POST /support/chat", authed(http.HandlerFunc(supportHandler.Chat)))

	var root http.Handler = mux
	root = middleware.Recovery(root)
	root = middleware.Logging(root)
	root = middleware.Tracing(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func cleanIdempotencyCache(repo *repository.IdempotencyRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := repo.CleanExpired(ctx)
		cancel()
		if err != nil {
			slog.Error("idempotency cache cleanup failed", "error", err)
			continue
		}
		if n > 0 {
			slog.Info("expired idempotency entries removed", "count", n)
		}
	}
}
