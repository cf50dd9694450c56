// Package main запускает HTTP-сервис записи студентов на внеклассные занятия.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"activity-signup-service/internal/config"
	httpapi "activity-signup-service/internal/http"
	"activity-signup-service/internal/observability"
	"activity-signup-service/internal/repository"
	"activity-signup-service/internal/service"
)

func main() {
	// Чтение конфигурации из ENV и .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg)

	// 1. Каталог занятий и менеджер транзакций
	directory := repository.NewDirectory(repository.DefaultActivities())
	txManager := repository.NewTransactionManager(directory)

	// 2. Метрики
	opts := []httpapi.Option{httpapi.WithCORSOrigins(cfg.CORSAllowedOrigins)}
	var recorder service.Recorder
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		seedParticipantGauges(directory, metrics)
		recorder = metrics
		opts = append(opts, httpapi.WithMetrics(metrics, reg))
	}

	// 3. Сервис и HTTP-обработчик
	activityService := service.NewActivityService(directory, txManager, recorder)
	handler := httpapi.NewHandler(activityService, logger, opts...)

	server := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Запуск сервера в горутине
	go func() {
		logger.Info("starting http server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("err", err))
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server shutdown error", slog.Any("err", err))
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// seedParticipantGauges выставляет стартовые значения числа участников.
func seedParticipantGauges(directory *repository.Directory, metrics *observability.Metrics) {
	for name, activity := range directory.Snapshot() {
		metrics.SetParticipants(name, len(activity.Participants))
	}
}
