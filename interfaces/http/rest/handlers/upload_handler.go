package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"mediagraph/application/ports"
	"mediagraph/pkg/common"
	"mediagraph/pkg/utils"
)

// allowedUploadTypes lists the image content types accepted for direct
// and presigned uploads.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

const defaultPresignExpiry = time.Hour

// UploadHandler handles direct media uploads and presigned URL issuance
type UploadHandler struct {
	store    ports.AssetStore
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store ports.AssetStore, maxBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, maxBytes: maxBytes, logger: logger}
}

// UploadedFile describes one stored upload
type UploadedFile struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignUploadRequest represents the request body for a presigned upload URL
type PresignUploadRequest struct {
	FileName      string `json:"fileName" validate:"required"`
	ContentType   string `json:"contentType" validate:"required"`
	Folder        string `json:"folder,omitempty"`
	ExpirySeconds int    `json:"expirySeconds,omitempty" validate:"omitempty,gt=0,lte=86400"`
}

// PresignResponse carries an issued presigned URL
type PresignResponse struct {
	URL string `json:"url"`
	Key string `json:"key,omitempty"`
}

// Upload handles POST /uploads. Multipart form; every file part is
// stored under the "uploads" folder.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	var headers []*multipart.FileHeader
	for _, fieldFiles := range r.MultipartForm.File {
		for _, fh := range fieldFiles {
			contentType := fh.Header.Get("Content-Type")
			if !allowedUploadTypes[contentType] {
				common.RespondError(w, http.StatusBadRequest, "VALIDATION",
					"file type "+contentType+" is not allowed")
				return
			}
			headers = append(headers, fh)
		}
	}
	if len(headers) == 0 {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "no files uploaded")
		return
	}

	uploaded := make([]UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readMultipartFile(fh)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
			return
		}
		result, err := h.store.Upload(r.Context(), data, fh.Filename, fh.Header.Get("Content-Type"), "uploads")
		if err != nil {
			h.logger.Error("upload failed", zap.String("fileName", fh.Filename), zap.Error(err))
			common.RespondAppError(w, err)
			return
		}
		uploaded = append(uploaded, UploadedFile{URL: result.URL, Key: result.Key})
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{"files": uploaded})
}

// PresignUpload handles POST /uploads/presign. Issues a presigned PUT
// URL so large files go straight to storage.
func (h *UploadHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	var req PresignUploadRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	if !allowedUploadTypes[req.ContentType] {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION",
			"file type "+req.ContentType+" is not allowed")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "uploads"
	}
	expiry := defaultPresignExpiry
	if req.ExpirySeconds > 0 {
		expiry = time.Duration(req.ExpirySeconds) * time.Second
	}

	result, err := h.store.PresignUpload(r.Context(), req.FileName, req.ContentType, folder, expiry)
	if err != nil {
		h.logger.Error("presigning upload failed", zap.String("fileName", req.FileName), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, PresignResponse{URL: result.URL, Key: result.Key})
}

// PresignDownload handles GET /uploads/presign?key=&expirySeconds=
func (h *UploadHandler) PresignDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "key query parameter is required")
		return
	}

	expiry := defaultPresignExpiry
	if raw := r.URL.Query().Get("expirySeconds"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "expirySeconds must be a positive integer")
			return
		}
		expiry = time.Duration(seconds) * time.Second
	}

	url, err := h.store.PresignDownload(r.Context(), key, expiry)
	if err != nil {
		h.logger.Error("presigning download failed", zap.String("key", key), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, PresignResponse{URL: url, Key: key})
}

// Delete handles DELETE /uploads?key=
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "key query parameter is required")
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		h.logger.Error("deleting upload failed", zap.String("key", key), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"key": key})
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
