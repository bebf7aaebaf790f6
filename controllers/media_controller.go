package controllers

import (
	"encoding/json"
	"net/http"

	"bloom_server/helpers"
	"bloom_server/services"
)

// MediaController issues presigned URLs for avatar images
type MediaController struct {
	MediaService *services.MediaService
}

func NewMediaController(mediaService *services.MediaService) *MediaController {
	return &MediaController{MediaService: mediaService}
}

// HandleAvatarUploadURL returns a presigned PUT URL for an avatar upload
func (mc *MediaController) HandleAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.FileName == "" || request.FileType == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "fileName and fileType are required")
		return
	}

	uploadURL, key, err := mc.MediaService.AvatarUploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{
		"uploadUrl": uploadURL,
		"key":       key,
	})
}

// HandleAvatarReadURL returns a presigned GET URL for a stored avatar
func (mc *MediaController) HandleAvatarReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "key is required")
		return
	}

	readURL, err := mc.MediaService.AvatarReadURL(r.Context(), key)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to generate read URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"readUrl": readURL})
}
