package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/biasharafund/discounting/internal/common"
)

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

// Engine runs optical character recognition on single page bitmaps by
// shelling out to tesseract. Backend failures are captured on the returned
// Page, never returned as errors.
type Engine struct {
	cfg    common.OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg common.OCRConfig, runner Runner, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &Engine{cfg: cfg, runner: runner, logger: logger}
}

// Recognize preprocesses and recognizes one page bitmap. index is the
// 1-based page number carried through to the result.
func (e *Engine) Recognize(ctx context.Context, img image.Image, index int) Page {
	page := Page{Index: index}

	processed := Preprocess(img)

	tmp, err := os.CreateTemp("", "disc-page-*.png")
	if err != nil {
		page.Err = fmt.Sprintf("stage page image: %v", err)
		return page
	}
	tmpPath := tmp.Name()
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil {
			e.logger.Warn("failed to remove temp page image", "path", tmpPath, "error", rerr)
		}
	}()

	if err := png.Encode(tmp, processed); err != nil {
		_ = tmp.Close()
		page.Err = fmt.Sprintf("encode page image: %v", err)
		return page
	}
	if err := tmp.Close(); err != nil {
		page.Err = fmt.Sprintf("flush page image: %v", err)
		return page
	}

	text, err := e.tesseractText(ctx, tmpPath)
	if err != nil {
		page.Err = err.Error()
		return page
	}
	page.Text = text

	conf, err := e.tesseractTSVConfidence(ctx, tmpPath)
	if err != nil {
		// Any backend failure makes the whole page unusable.
		return Page{Index: index, Err: err.Error()}
	}
	page.Confidence = conf
	return page
}

func (e *Engine) args(path string) []string {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return args
}

func (e *Engine) tesseractText(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.args(path)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %v (%s)", err, truncate(string(errb), 512))
	}
	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return strings.TrimSpace(txt), nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns the mean
// word confidence in [0,1]. Tokens reporting the -1 sentinel are skipped;
// zero usable tokens yields 0.
func (e *Engine) tesseractTSVConfidence(ctx context.Context, path string) (float64, error) {
	args := append(e.args(path), "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %v (%s)", err, truncate(string(errb), 512))
	}

	lines := strings.Split(string(out), "\n")
	// columns: level..height, conf, text; the first line is the header
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n / 100.0, nil
}
