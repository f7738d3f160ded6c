package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/service"
)

type FileURLResponse struct {
	FileURL string `json:"fileUrl"`
}

type VerifyStorageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handlers) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateUploadURLRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		WriteAppError(w, err)
		return
	}

	upload, err := h.UploadService.GenerateUploadURL(r.Context(), currentUserID(r), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, upload, http.StatusOK)
}

func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	var req service.UploadFileRequest
	if err := decodeJSON(w, r, h.uploadBodyLimit(), &req); err != nil {
		WriteAppError(w, err)
		return
	}

	result, err := h.UploadService.UploadFile(r.Context(), currentUserID(r), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, result, http.StatusCreated)
}

// uploadBodyLimit allows for base64 expansion of a maximum-size file plus the JSON envelope.
func (h *Handlers) uploadBodyLimit() int64 {
	return h.Cfg.Upload.MaxUploadSize/3*4 + 4096
}

func (h *Handlers) GetFileURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		WriteAppError(w, apperr.Validation("key is required"))
		return
	}

	fileURL, err := h.UploadService.GetFileURL(r.Context(), currentUserID(r), key)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, FileURLResponse{FileURL: fileURL}, http.StatusOK)
}

func (h *Handlers) VerifyStorageAccess(w http.ResponseWriter, r *http.Request) {
	if err := h.UploadService.VerifyAccess(r.Context()); err != nil {
		h.Logger.Warn("storage access check failed", zap.Error(err))
		writeSuccess(w, VerifyStorageResponse{Success: false, Message: err.Error()}, http.StatusBadGateway)
		return
	}

	writeSuccess(w, VerifyStorageResponse{Success: true, Message: "storage bucket is reachable"}, http.StatusOK)
}
