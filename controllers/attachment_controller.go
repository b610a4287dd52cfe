package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshvardhan-91/Gaming-website-sub000/services"
)

// AttachmentController mints presigned S3 URLs so clients can upload
// chat attachments directly and reference the key in a message.
type AttachmentController struct {
	S3 *services.S3Service
}

func NewAttachmentController(s3 *services.S3Service) *AttachmentController {
	return &AttachmentController{S3: s3}
}

// HandlePresignUpload - POST /api/attachments/presign
func (c *AttachmentController) HandlePresignUpload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.FileName == "" || request.FileType == "" {
		writeJSONError(w, http.StatusBadRequest, "fileName and fileType are required")
		return
	}

	uploadURL, key, err := c.S3.GenerateAttachmentUploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to generate upload URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": uploadURL,
		"key":       key,
	})
}

// HandlePresignDownload - POST /api/attachments/presign-read
func (c *AttachmentController) HandlePresignDownload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Key == "" {
		writeJSONError(w, http.StatusBadRequest, "key is required")
		return
	}

	downloadURL, err := c.S3.GenerateAttachmentReadURL(r.Context(), request.Key)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to generate download URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"downloadUrl": downloadURL})
}
