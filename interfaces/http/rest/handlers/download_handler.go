package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"mediagraph/application/ports"
	"mediagraph/pkg/common"
	"mediagraph/pkg/utils"
)

// DownloadHandler handles asset download HTTP requests
type DownloadHandler struct {
	downloads ports.DownloadCoordinator
	logger    *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(downloads ports.DownloadCoordinator, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{downloads: downloads, logger: logger}
}

// BundleRequest represents the request body for a bundled download
type BundleRequest struct {
	Assets []ports.DownloadAsset `json:"assets" validate:"required,min=1,dive"`
}

// Bundle handles POST /downloads/bundle and streams back a zip archive
func (h *DownloadHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	var req BundleRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	archive, err := h.downloads.PackageMany(r.Context(), req.Assets)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	name := fmt.Sprintf("assets-%d.zip", time.Now().UnixMilli())
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	w.Write(archive)
}

// Single handles GET /downloads?url=... and streams back one asset
func (h *DownloadHandler) Single(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "url query parameter is required")
		return
	}

	data, contentType, err := h.downloads.FetchOne(r.Context(), url)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = fmt.Sprintf("asset-%d", time.Now().UnixMilli())
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
