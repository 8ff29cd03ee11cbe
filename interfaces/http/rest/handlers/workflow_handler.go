package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mediagraph/application/workflows"
	"mediagraph/pkg/common"
	"mediagraph/pkg/utils"
)

// WorkflowHandler handles generate, edit and upscale HTTP requests
type WorkflowHandler struct {
	orchestrator *workflows.Orchestrator
	logger       *zap.Logger
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(orchestrator *workflows.Orchestrator, logger *zap.Logger) *WorkflowHandler {
	return &WorkflowHandler{orchestrator: orchestrator, logger: logger}
}

// GenerateRequest represents the request body for submitting a generation
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// SuggestRequest represents the request body for prompt suggestions
type SuggestRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// EditRequest represents the request body for submitting an edit
type EditRequest struct {
	SourceIDs   []string `json:"sourceIds" validate:"required,min=1,dive,required"`
	Instruction string   `json:"instruction" validate:"required,min=1"`
}

// EditAcceptRequest represents the request body for accepting an edit
type EditAcceptRequest struct {
	Replace bool `json:"replace"`
}

// UpscaleRequest represents the request body for submitting an upscale
type UpscaleRequest struct {
	SourceID string  `json:"sourceId" validate:"required"`
	Scale    float64 `json:"scale" validate:"required,gt=0"`
	Model    string  `json:"model" validate:"required"`
}

// WorkflowStatusResponse reports a workflow's phase and staged result
type WorkflowStatusResponse struct {
	Phase   workflows.Phase `json:"phase"`
	Error   string          `json:"error,omitempty"`
	Staging interface{}     `json:"staging,omitempty"`
}

// AcceptResponse reports the node produced by an accepted workflow
type AcceptResponse struct {
	NodeID string `json:"nodeId"`
}

// SubmitGenerate handles POST /workflows/generate
func (h *WorkflowHandler) SubmitGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.orchestrator.Generate.Submit(r.Context(), req.Prompt); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.generateStatus(w)
}

// GenerateStatus handles GET /workflows/generate
func (h *WorkflowHandler) GenerateStatus(w http.ResponseWriter, r *http.Request) {
	h.generateStatus(w)
}

// AcceptGenerate handles POST /workflows/generate/accept
func (h *WorkflowHandler) AcceptGenerate(w http.ResponseWriter, r *http.Request) {
	nodeID, err := h.orchestrator.Generate.Accept(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, AcceptResponse{NodeID: nodeID})
}

// DiscardGenerate handles POST /workflows/generate/discard
func (h *WorkflowHandler) DiscardGenerate(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.Generate.Discard()
	h.generateStatus(w)
}

// RegenerateGenerate handles POST /workflows/generate/regenerate
func (h *WorkflowHandler) RegenerateGenerate(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Generate.Regenerate(r.Context()); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.generateStatus(w)
}

// Suggest handles POST /workflows/generate/suggest
func (h *WorkflowHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	suggestions, err := h.orchestrator.Generate.Suggest(r.Context(), req.Prompt)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// SubmitEdit handles POST /workflows/edit
func (h *WorkflowHandler) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.orchestrator.Edit.Submit(r.Context(), req.SourceIDs, req.Instruction); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.editStatus(w)
}

// EditStatus handles GET /workflows/edit
func (h *WorkflowHandler) EditStatus(w http.ResponseWriter, r *http.Request) {
	h.editStatus(w)
}

// AcceptEdit handles POST /workflows/edit/accept
func (h *WorkflowHandler) AcceptEdit(w http.ResponseWriter, r *http.Request) {
	var req EditAcceptRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	nodeID, err := h.orchestrator.Edit.Accept(r.Context(), req.Replace)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, AcceptResponse{NodeID: nodeID})
}

// DiscardEdit handles POST /workflows/edit/discard
func (h *WorkflowHandler) DiscardEdit(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.Edit.Discard()
	h.editStatus(w)
}

// RegenerateEdit handles POST /workflows/edit/regenerate
func (h *WorkflowHandler) RegenerateEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Edit.Regenerate(r.Context()); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.editStatus(w)
}

// SubmitUpscale handles POST /workflows/upscale
func (h *WorkflowHandler) SubmitUpscale(w http.ResponseWriter, r *http.Request) {
	var req UpscaleRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.orchestrator.Upscale.Submit(r.Context(), req.SourceID, req.Scale, req.Model); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.upscaleStatus(w)
}

// UpscaleStatus handles GET /workflows/upscale
func (h *WorkflowHandler) UpscaleStatus(w http.ResponseWriter, r *http.Request) {
	h.upscaleStatus(w)
}

// UpscaleCatalogue handles GET /workflows/upscale/options
func (h *WorkflowHandler) UpscaleCatalogue(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"scales": h.orchestrator.Upscale.Scales(),
		"models": h.orchestrator.Upscale.Models(),
	})
}

// AcceptUpscale handles POST /workflows/upscale/accept
func (h *WorkflowHandler) AcceptUpscale(w http.ResponseWriter, r *http.Request) {
	nodeID, err := h.orchestrator.Upscale.Accept(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, AcceptResponse{NodeID: nodeID})
}

// DiscardUpscale handles POST /workflows/upscale/discard
func (h *WorkflowHandler) DiscardUpscale(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.Upscale.Discard()
	h.upscaleStatus(w)
}

// RegenerateUpscale handles POST /workflows/upscale/regenerate
func (h *WorkflowHandler) RegenerateUpscale(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Upscale.Regenerate(r.Context()); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.upscaleStatus(w)
}

func (h *WorkflowHandler) generateStatus(w http.ResponseWriter) {
	resp := WorkflowStatusResponse{Phase: h.orchestrator.Generate.Phase()}
	if err := h.orchestrator.Generate.Err(); err != nil {
		resp.Error = err.Error()
	}
	if staged := h.orchestrator.Generate.Staging(); staged != nil {
		resp.Staging = staged
	}
	common.RespondJSON(w, http.StatusOK, resp)
}

func (h *WorkflowHandler) editStatus(w http.ResponseWriter) {
	resp := WorkflowStatusResponse{Phase: h.orchestrator.Edit.Phase()}
	if err := h.orchestrator.Edit.Err(); err != nil {
		resp.Error = err.Error()
	}
	if staged := h.orchestrator.Edit.Staging(); staged != nil {
		resp.Staging = staged
	}
	common.RespondJSON(w, http.StatusOK, resp)
}

func (h *WorkflowHandler) upscaleStatus(w http.ResponseWriter) {
	resp := WorkflowStatusResponse{Phase: h.orchestrator.Upscale.Phase()}
	if err := h.orchestrator.Upscale.Err(); err != nil {
		resp.Error = err.Error()
	}
	if staged := h.orchestrator.Upscale.Staging(); staged != nil {
		resp.Staging = staged
	}
	common.RespondJSON(w, http.StatusOK, resp)
}
