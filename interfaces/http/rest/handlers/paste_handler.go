package handlers

import (
	"encoding/base64"
	"net/http"

	"go.uber.org/zap"

	"mediagraph/application/services"
	"mediagraph/pkg/common"
	"mediagraph/pkg/utils"
)

// PasteHandler handles clipboard paste HTTP requests
type PasteHandler struct {
	ingestor *services.PasteIngestor
	maxBytes int64
	logger   *zap.Logger
}

// NewPasteHandler creates a new paste handler
func NewPasteHandler(ingestor *services.PasteIngestor, maxBytes int64, logger *zap.Logger) *PasteHandler {
	return &PasteHandler{ingestor: ingestor, maxBytes: maxBytes, logger: logger}
}

// PasteItemRequest is one clipboard entry; data is base64 encoded.
type PasteItemRequest struct {
	MediaType string `json:"mediaType" validate:"required"`
	Data      string `json:"data"`
}

// PasteRequest represents the request body for a clipboard paste
type PasteRequest struct {
	Items []PasteItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PasteResponse represents the outcome of a paste
type PasteResponse struct {
	Handled bool   `json:"handled"`
	NodeID  string `json:"nodeId,omitempty"`
}

// Paste handles POST /paste
func (h *PasteHandler) Paste(w http.ResponseWriter, r *http.Request) {
	var req PasteRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	items := make([]services.ClipboardItem, 0, len(req.Items))
	for _, item := range req.Items {
		data, err := base64.StdEncoding.DecodeString(item.Data)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "item data is not valid base64")
			return
		}
		items = append(items, services.ClipboardItem{MediaType: item.MediaType, Data: data})
	}

	result, err := h.ingestor.Ingest(r.Context(), items)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, PasteResponse{Handled: result.Handled, NodeID: result.NodeID})
}

// Status handles GET /paste/status
func (h *PasteHandler) Status(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]bool{"busy": h.ingestor.Busy()})
}
