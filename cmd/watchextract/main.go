package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/biasharafund/discounting/internal/common"
	"github.com/biasharafund/discounting/internal/etims"
	"github.com/biasharafund/discounting/internal/extract"
	"github.com/biasharafund/discounting/internal/ingest"
	"github.com/biasharafund/discounting/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage", "cmd", "watchextract <intake-dir> [more-dirs...]")
		os.Exit(2)
	}
	roots := os.Args[1:]

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

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       roots,
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	}, logger)
	if err != nil {
		logger.Error("start watcher", "error", err)
		os.Exit(1)
	}

	go func() {
		for werr := range errs {
			logger.Error("watch error", "error", werr)
		}
	}()

	// results land next to the source document
	sink := func(path string, result extract.Result) {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Error("encode result", "path", path, "error", err)
			return
		}
		if err := os.WriteFile(path+".extraction.json", data, 0o644); err != nil {
			logger.Error("write result", "path", path, "error", err)
		}
	}

	logger.Info("intake watching", "roots", roots)
	ingest.NewIntake(extractor, sink, 2, logger).Run(ctx, paths)
	logger.Info("stopped")
}
