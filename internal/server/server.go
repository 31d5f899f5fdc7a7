package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/biasharafund/discounting/internal/common"
	"github.com/biasharafund/discounting/internal/etims"
	"github.com/biasharafund/discounting/internal/extract"
	"github.com/biasharafund/discounting/internal/invoice"
)

// Pipeline is the extraction surface the handlers call. *extract.Extractor
// satisfies it; tests substitute a fake.
type Pipeline interface {
	Extract(ctx context.Context, path string) extract.Result
	ExtractText(ctx context.Context, path string) extract.TextResult
	ParseInvoice(text string) etims.Result
}

// Exporter renders a batch of extraction results as an XLSX workbook.
type Exporter interface {
	ExtractionsXLSX(results []extract.Result) ([]byte, error)
}

type Handler struct {
	cfg      common.OCRConfig
	pipeline Pipeline
	exporter Exporter
	store    invoice.Store
	logger   *slog.Logger
}

// New wires the HTTP handler. store may be nil, in which case assist
// responses carry the draft but nothing is persisted.
func New(cfg common.OCRConfig, pipeline Pipeline, exporter Exporter, store invoice.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{cfg: cfg, pipeline: pipeline, exporter: exporter, store: store, logger: logger}
}

// Router builds the chi router with CORS and request-ID middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(requestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJson(w, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		h.Attach(r)
	})

	return r
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/ocr/preview", h.handleOCRPreview)
	r.Post("/ocr/parse", h.handleOCRParse)
	r.Post("/ocr/export", h.handleOCRExport)
	r.Post("/invoices/assist", h.handleInvoiceAssist)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(common.WithRequestID(r.Context(), id)))
	})
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeJsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	errorCode := "invalid_request"
	if code == http.StatusNotFound {
		errorCode = "not_found"
	} else if code == http.StatusRequestEntityTooLarge {
		errorCode = "file_too_large"
	} else if code >= 500 {
		errorCode = "internal"
	}

	msg := ""
	if err != nil {
		msg = err.Error()
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(errorResponse{Error: errorBody{Code: errorCode, Message: msg}})
}
