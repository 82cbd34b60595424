// Package main запускает HTTP-сервер витрины хемпмарт.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/hempmart-system/internal/commerce"
	"github.com/mmeshcher/hempmart-system/internal/config"
	"github.com/mmeshcher/hempmart-system/internal/handler"
	"github.com/mmeshcher/hempmart-system/internal/middleware"
	"github.com/mmeshcher/hempmart-system/internal/ratelimit"
	"github.com/mmeshcher/hempmart-system/internal/repository"
	"github.com/mmeshcher/hempmart-system/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	commerceClient := commerce.NewClient(cfg.CommerceAPIAddress)

	svc := service.NewService(repo, commerceClient)
	defer svc.Close()

	limiter := ratelimit.NewLimiter(cfg.SignupRateLimit)
	ageGate := middleware.NewAgeGate(cfg.AgeGateSecret)
	originCheck := middleware.OriginCheck(cfg.AllowedOrigins, cfg.Production())

	h := handler.NewHandler(svc, logger, limiter, ageGate, originCheck)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Фоновая чистка окон ограничителя подписок
	g.Go(func() error {
		limiter.StartSweeping(ctx)
		return nil
	})

	// Фоновая чистка отслеживаемых состояний корзин
	g.Go(func() error {
		svc.StartCartSweeper(ctx)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting hempmart server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
