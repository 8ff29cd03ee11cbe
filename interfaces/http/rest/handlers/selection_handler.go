package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mediagraph/application/services"
	"mediagraph/pkg/common"
	"mediagraph/pkg/utils"
)

// SelectionHandler handles selection and share HTTP requests
type SelectionHandler struct {
	store  *services.SelectionShareStore
	logger *zap.Logger
}

// NewSelectionHandler creates a new selection handler
func NewSelectionHandler(store *services.SelectionShareStore, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{store: store, logger: logger}
}

// SetSelectionRequest represents the request body for replacing the selection
type SetSelectionRequest struct {
	NodeIDs []string `json:"nodeIds" validate:"dive,required"`
}

// SetSelection handles PUT /selection
func (h *SelectionHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req SetSelectionRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	h.store.SetSelected(req.NodeIDs)
	common.RespondJSON(w, http.StatusOK, h.store.Selected())
}

// GetSelection handles GET /selection
func (h *SelectionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.store.Selected())
}

// ShareSelection handles POST /selection/share
func (h *SelectionHandler) ShareSelection(w http.ResponseWriter, r *http.Request) {
	h.store.ShareSelected()
	common.RespondJSON(w, http.StatusOK, h.store.Shared())
}

// GetShared handles GET /selection/shared
func (h *SelectionHandler) GetShared(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.store.Shared())
}

// RemoveShared handles DELETE /selection/shared/{nodeID}
func (h *SelectionHandler) RemoveShared(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveShared(chi.URLParam(r, "nodeID"))
	common.RespondJSON(w, http.StatusOK, h.store.Shared())
}

// ClearShared handles DELETE /selection/shared
func (h *SelectionHandler) ClearShared(w http.ResponseWriter, r *http.Request) {
	h.store.ClearShared()
	common.RespondJSON(w, http.StatusOK, []struct{}{})
}
