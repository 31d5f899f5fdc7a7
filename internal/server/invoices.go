package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/biasharafund/discounting/internal/common"
	"github.com/biasharafund/discounting/internal/extract"
	"github.com/biasharafund/discounting/internal/invoice"
)

type assistResponse struct {
	Draft      invoice.Draft  `json:"draft"`
	Extraction extract.Result `json:"extraction"`
	Persisted  bool           `json:"persisted"`
}

// handleInvoiceAssist accepts a multipart upload plus an optional "fields"
// part holding user-entered values as JSON. OCR output backfills whatever
// the user left blank; user values always win. The assembled draft is
// persisted when a store is configured.
func (h *Handler) handleInvoiceAssist(w http.ResponseWriter, r *http.Request) {
	path, cleanup, err := h.saveUpload(w, r)
	if err != nil {
		writeError(w, uploadErrorStatus(err), err)
		return
	}
	defer cleanup()

	var user invoice.UserFields
	if raw := r.FormValue("fields"); raw != "" {
		schema := invoice.BuildUserFieldsJSONSchema()
		if err := invoice.ValidateJSONAgainstSchema(schema, []byte(raw)); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid fields JSON: %v", err))
			return
		}
	}

	result := h.pipeline.Extract(r.Context(), path)
	draft := invoice.Merge(user, result.Invoice, h.logger)

	persisted := false
	if h.store != nil {
		if err := h.store.SaveDraft(r.Context(), draft); err != nil {
			h.logger.Error("save draft failed", "draft_id", draft.ID.String(), "error", err)
			writeError(w, http.StatusInternalServerError, fmt.Errorf("save draft failed"))
			return
		}
		persisted = true
	}

	h.logger.Info("invoice.assist.done",
		"request_id", common.RequestIDFromContext(r.Context()),
		"draft_id", draft.ID.String(),
		"run_id", result.RunID.String(),
		"extraction_success", result.Invoice.ExtractionSuccess,
		"persisted", persisted,
	)

	writeJsonStatus(w, http.StatusCreated, assistResponse{
		Draft:      draft,
		Extraction: result,
		Persisted:  persisted,
	})
}
