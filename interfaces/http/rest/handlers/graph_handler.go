package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mediagraph/application/workspace"
	"mediagraph/domain/canvas"
	"mediagraph/domain/core/entities"
	"mediagraph/domain/core/valueobjects"
	"mediagraph/pkg/common"
	"mediagraph/pkg/utils"
)

const maxBodyBytes = 1 << 20

// GraphHandler handles node, edge and viewport HTTP requests
type GraphHandler struct {
	ws     *workspace.Workspace
	logger *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(ws *workspace.Workspace, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{ws: ws, logger: logger}
}

// CreateNodeRequest represents the request body for creating a node
type CreateNodeRequest struct {
	Kind     string   `json:"kind" validate:"required,oneof=text image audio video"`
	Label    string   `json:"label,omitempty" validate:"omitempty,max=200"`
	AssetURL string   `json:"assetUrl,omitempty" validate:"omitempty"`
	FileName string   `json:"fileName,omitempty"`
	Width    float64  `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height   float64  `json:"height,omitempty" validate:"omitempty,gt=0"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
}

// UpdateNodeRequest represents the request body for updating a node
type UpdateNodeRequest struct {
	AssetURL         *string `json:"assetUrl,omitempty"`
	Label            *string `json:"label,omitempty" validate:"omitempty,max=200"`
	FileName         *string `json:"fileName,omitempty"`
	ProvenancePrompt *string `json:"provenancePrompt,omitempty"`
}

// MoveNodeRequest represents the request body for moving a node
type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ResizeNodeRequest represents the request body for resizing a node
type ResizeNodeRequest struct {
	Width  float64 `json:"width" validate:"required,gt=0"`
	Height float64 `json:"height" validate:"required,gt=0"`
}

// CreateEdgeRequest represents the request body for creating an edge
type CreateEdgeRequest struct {
	SourceID string `json:"sourceId" validate:"required"`
	TargetID string `json:"targetId" validate:"required"`
}

// ViewportRequest represents the request body for replacing the viewport
type ViewportRequest struct {
	PanX         float64 `json:"panX"`
	PanY         float64 `json:"panY"`
	Zoom         float64 `json:"zoom" validate:"required,gt=0"`
	ScreenWidth  float64 `json:"screenWidth" validate:"required,gt=0"`
	ScreenHeight float64 `json:"screenHeight" validate:"required,gt=0"`
}

// CreateNode handles POST /nodes. Nodes with explicit coordinates land
// there; the rest are centered in the current viewport.
func (h *GraphHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	profile := canvas.ProfileManual
	spec := workspace.NodeSpec{
		Kind: valueobjects.NodeKind(req.Kind),
		Asset: valueobjects.AssetDescriptor{
			URL:      req.AssetURL,
			FileName: req.FileName,
			Width:    req.Width,
			Height:   req.Height,
		},
		Label:   req.Label,
		Profile: &profile,
	}

	var (
		nodeID string
		err    error
	)
	if req.X != nil && req.Y != nil {
		nodeID, err = h.ws.AddNodeAt(valueobjects.Position{X: *req.X, Y: *req.Y}, spec)
	} else {
		nodeID, err = h.ws.AddNodeCentered(spec)
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	view, err := h.ws.Node(nodeID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, view)
}

// GetNode handles GET /nodes/{nodeID}
func (h *GraphHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	view, err := h.ws.Node(chi.URLParam(r, "nodeID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// UpdateNode handles PATCH /nodes/{nodeID}
func (h *GraphHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var req UpdateNodeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	nodeID := chi.URLParam(r, "nodeID")
	update := entities.NodeUpdate{
		AssetURL:         req.AssetURL,
		Label:            req.Label,
		FileName:         req.FileName,
		ProvenancePrompt: req.ProvenancePrompt,
	}
	if err := h.ws.UpdateNode(nodeID, update); err != nil {
		common.RespondAppError(w, err)
		return
	}

	view, err := h.ws.Node(nodeID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// MoveNode handles PUT /nodes/{nodeID}/position
func (h *GraphHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req MoveNodeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	if err := h.ws.MoveNode(chi.URLParam(r, "nodeID"), valueobjects.Position{X: req.X, Y: req.Y}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

// ResizeNode handles PUT /nodes/{nodeID}/size
func (h *GraphHandler) ResizeNode(w http.ResponseWriter, r *http.Request) {
	var req ResizeNodeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	size := valueobjects.Dimensions{Width: req.Width, Height: req.Height}
	if err := h.ws.ResizeNode(chi.URLParam(r, "nodeID"), size); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "resized"})
}

// CreateEdge handles POST /edges
func (h *GraphHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var req CreateEdgeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	edgeID, err := h.ws.Connect(req.SourceID, req.TargetID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": edgeID})
}

// GetGraph handles GET /graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.ws.Snapshot())
}

// GetViewport handles GET /viewport
func (h *GraphHandler) GetViewport(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.ws.Viewport())
}

// SetViewport handles PUT /viewport
func (h *GraphHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	viewport := canvas.Viewport{
		PanX:         req.PanX,
		PanY:         req.PanY,
		Zoom:         req.Zoom,
		ScreenWidth:  req.ScreenWidth,
		ScreenHeight: req.ScreenHeight,
	}
	if err := h.ws.SetViewport(viewport); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, viewport)
}
