package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/biasharafund/discounting/internal/common"
	"github.com/biasharafund/discounting/internal/etims"
	"github.com/biasharafund/discounting/internal/extract"
	"github.com/biasharafund/discounting/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <invoice-file>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	runner := ocr.NewExecRunner(logger)
	normalizer := ocr.NewNormalizer(cfg.OCR, runner, logger)
	engine := ocr.NewEngine(cfg.OCR, runner, logger)
	parser := etims.NewParser(logger)
	extractor := extract.NewExtractor(cfg.OCR, normalizer, engine, parser, logger)

	start := time.Now()
	result := extractor.Extract(ctx, path)
	dur := time.Since(start)

	logger.Info("extraction finished",
		"run_id", result.RunID.String(),
		"document_ok", result.Document.Success,
		"extraction_success", result.Invoice.ExtractionSuccess,
		"pages", result.Document.Pages,
		"duration_ms", dur.Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}

	if !result.Invoice.ExtractionSuccess {
		os.Exit(1)
	}
}
