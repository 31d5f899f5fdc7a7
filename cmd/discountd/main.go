package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/biasharafund/discounting/internal/common"
	"github.com/biasharafund/discounting/internal/etims"
	"github.com/biasharafund/discounting/internal/export"
	"github.com/biasharafund/discounting/internal/extract"
	"github.com/biasharafund/discounting/internal/ocr"
	"github.com/biasharafund/discounting/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := ocr.NewExecRunner(logger)
	normalizer := ocr.NewNormalizer(cfg.OCR, runner, logger)
	engine := ocr.NewEngine(cfg.OCR, runner, logger)
	parser := etims.NewParser(logger)
	extractor := extract.NewExtractor(cfg.OCR, normalizer, engine, parser, logger)
	exporter := export.NewService(logger)

	handler := server.New(cfg.OCR, extractor, exporter, nil, logger)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
