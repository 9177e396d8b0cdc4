package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/auth"
	"github.com/sweetflow/sweetflow/internal/store"
	"github.com/sweetflow/sweetflow/pkg/models"
)

// Logo uploads are capped well above any reasonable image size.
const maxLogoBytes = 10 << 20

type Handler struct {
	service *Service
	logger  *logrus.Logger
}

func NewHandler(service *Service, logger *logrus.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/profile", h.GetProfile).Methods("GET")
	r.HandleFunc("/profile", h.UpdateProfile).Methods("PUT")
	r.HandleFunc("/profile/preferences", h.UpdatePreferences).Methods("PUT")
	r.HandleFunc("/profile/logo", h.UploadLogo).Methods("POST")
	r.HandleFunc("/account", h.DeleteAccount).Methods("DELETE")
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	profile, err := h.service.Get(r.Context(), ownerID)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to get profile")
		return
	}

	h.respondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	var draft InfoDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateInfo(r.Context(), ownerID, &draft)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to update profile")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.ProfileResponse{
		Success: true,
		Message: "Business information updated",
		Profile: profile,
	})
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdatePreferences(r.Context(), ownerID, prefs)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to update preferences")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.ProfileResponse{
		Success: true,
		Message: "Preferences updated",
		Profile: profile,
	})
}

func (h *Handler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "A logo file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	profile, err := h.service.UploadLogo(r.Context(), ownerID, header.Filename, contentType, file)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to upload logo")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.ProfileResponse{
		Success: true,
		Message: "Logo uploaded",
		Profile: profile,
	})
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	if err := h.service.DeleteAccount(r.Context(), ownerID); err != nil {
		h.respondWithServiceError(w, err, "Failed to delete account")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.ProfileResponse{
		Success: true,
		Message: "Your account has been successfully deleted",
	})
}

func (h *Handler) respondWithServiceError(w http.ResponseWriter, err error, logMsg string) {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		h.respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Validation failed",
			"errors":  verrs,
		})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		h.respondWithError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if errors.Is(err, ErrBucketUnavailable) {
		h.respondWithError(w, http.StatusServiceUnavailable, ErrBucketUnavailable.Error())
		return
	}
	h.logger.WithError(err).Error(logMsg)
	h.respondWithError(w, http.StatusInternalServerError, err.Error())
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
