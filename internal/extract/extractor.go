package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/biasharafund/discounting/internal/common"
	"github.com/biasharafund/discounting/internal/etims"
	"github.com/biasharafund/discounting/internal/ocr"
)

// recognizeWorkers bounds parallel per-page recognition. Page order in
// the combined text is preserved regardless of completion order.
const recognizeWorkers = 4

// Extractor sequences normalization, recognition, and field parsing into
// one unified result. It is the sole entry point for the request layer;
// every failure mode is folded into the result, never raised.
type Extractor struct {
	cfg    common.OCRConfig
	source PageSource
	engine Recognizer
	parser *etims.Parser
	logger *slog.Logger
}

func NewExtractor(cfg common.OCRConfig, source PageSource, engine Recognizer, parser *etims.Parser, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if parser == nil {
		parser = etims.NewParser(logger)
	}
	return &Extractor{cfg: cfg, source: source, engine: engine, parser: parser, logger: logger}
}

// ExtractText recognizes the whole document: validate, rasterize, then
// recognize each page. A page whose recognition fails contributes an
// error entry but does not abort its siblings; confidence is averaged
// over the pages that succeeded.
func (e *Extractor) ExtractText(ctx context.Context, path string) TextResult {
	result := TextResult{Errors: []string{}}

	if err := ValidateFile(path, e.cfg.MaxFileSize); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	start := time.Now()

	bitmaps, err := e.source.Pages(ctx, path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("OCR extraction failed: %v", err))
		return result
	}
	result.Pages = len(bitmaps)

	doc := ocr.Document{Pages: make([]ocr.Page, len(bitmaps))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recognizeWorkers)
	for i, bm := range bitmaps {
		i, bm := i, bm
		g.Go(func() error {
			doc.Pages[i] = e.engine.Recognize(gctx, bm, i+1)
			return nil
		})
	}
	// Recognize never returns errors; the group only bounds concurrency.
	_ = g.Wait()

	for _, p := range doc.Pages {
		if !p.OK() {
			result.Errors = append(result.Errors, fmt.Sprintf("page %d: %s", p.Index, p.Err))
		}
	}

	if doc.Succeeded() > 0 {
		result.Text = doc.CombinedText()
		result.Confidence = doc.AverageConfidence()
		result.Success = true
		e.logger.Info("extract.text.ok",
			"path", path,
			"pages", result.Pages,
			"pages_ok", doc.Succeeded(),
			"confidence", result.Confidence,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	} else {
		result.Errors = append(result.Errors, common.ErrNoTextExtracted.Error())
		e.logger.Warn("extract.text.empty", "path", path, "pages", result.Pages)
	}

	return result
}

// ParseInvoice parses already-recognized text into typed invoice fields.
func (e *Extractor) ParseInvoice(text string) etims.Result {
	return e.parser.ParseInvoice(text)
}

// Extract runs the full pipeline for one file and returns the unified
// result: document-level recognition plus parsed fields and scores.
func (e *Extractor) Extract(ctx context.Context, path string) Result {
	runID := uuid.New()

	doc := e.ExtractText(ctx, path)
	inv := e.parser.ParseInvoice(doc.Text)

	e.logger.Info("extract.run.done",
		"run_id", runID.String(),
		"path", path,
		"document_ok", doc.Success,
		"extraction_success", inv.ExtractionSuccess,
	)

	return Result{RunID: runID, Document: doc, Invoice: inv}
}
