package extract

import (
	"context"
	"image"

	"github.com/google/uuid"

	"github.com/biasharafund/discounting/internal/etims"
	"github.com/biasharafund/discounting/internal/ocr"
)

// PageSource is Stage 1: file -> ordered page bitmaps.
type PageSource interface {
	Pages(ctx context.Context, path string) ([]image.Image, error)
}

// Recognizer is Stage 2: page bitmap -> recognized text + confidence.
// Implementations report failures on the Page, never as errors.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, index int) ocr.Page
}

// TextResult is the document-level recognition outcome.
type TextResult struct {
	Success    bool     `json:"success"`
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Pages      int      `json:"pages"`
	Errors     []string `json:"errors"`
}

// Result aggregates one full extraction run: document-level recognition
// plus the parsed invoice fields. Value object scoped to a single call;
// nothing here is persisted or shared.
type Result struct {
	RunID    uuid.UUID    `json:"run_id"`
	Document TextResult   `json:"document"`
	Invoice  etims.Result `json:"invoice"`
}
