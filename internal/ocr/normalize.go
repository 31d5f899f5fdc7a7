package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	_ "image/jpeg"
	_ "image/png"

	"github.com/biasharafund/discounting/constants"
	"github.com/biasharafund/discounting/internal/common"
)

// DecodeError reports a source document that could not be rasterized or
// loaded. It is fatal for the file; the orchestrator converts it into an
// extraction error rather than letting it escape.
type DecodeError struct {
	Path  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() error { return common.ErrDecode }

// Normalizer converts an input file (multi-page PDF or single image) into
// an ordered sequence of in-memory bitmaps ready for recognition.
type Normalizer struct {
	cfg    common.OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewNormalizer(cfg common.OCRConfig, runner Runner, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &Normalizer{cfg: cfg, runner: runner, logger: logger}
}

// Pages rasterizes or loads the file into one bitmap per page, in page
// order. PDFs render at the configured DPI so small print survives
// recognition; images load as a single-page sequence.
func (n *Normalizer) Pages(ctx context.Context, path string) ([]image.Image, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		return n.pdfPages(ctx, path)
	case constants.IMAGE:
		img, err := loadImage(path)
		if err != nil {
			return nil, &DecodeError{Path: path, Cause: err}
		}
		return []image.Image{img}, nil
	default:
		return nil, &DecodeError{Path: path, Cause: fmt.Errorf("unsupported extension: %q", ext)}
	}
}

// pdfPages shells out to pdftoppm, decodes the rendered PNGs into memory,
// and removes the temp dir on every exit path.
func (n *Normalizer) pdfPages(ctx context.Context, path string) ([]image.Image, error) {
	tmpDir, err := os.MkdirTemp("", "disc-pp-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			n.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := n.runner.Run(ctx, n.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", n.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return nil, &DecodeError{Path: path, Cause: fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))}
	}

	// collect rendered pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if n.cfg.MaxPages > 0 && len(matches) > n.cfg.MaxPages {
		matches = matches[:n.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, &DecodeError{Path: path, Cause: fmt.Errorf("pdftoppm produced no pages")}
	}

	pages := make([]image.Image, 0, len(matches))
	for _, m := range matches {
		img, err := loadImage(m)
		if err != nil {
			return nil, &DecodeError{Path: path, Cause: fmt.Errorf("decode rendered page %s: %w", filepath.Base(m), err)}
		}
		pages = append(pages, img)
	}
	n.logger.Debug("pdf rasterized", "path", path, "pages", len(pages), "dpi", n.cfg.DPI)
	return pages, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}
