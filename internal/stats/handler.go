package stats

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/auth"
)

type Handler struct {
	service *Service
	logger  *logrus.Logger
}

func NewHandler(service *Service, logger *logrus.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/stats", h.GetSummary).Methods("GET")
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	summary, err := h.service.Summary(r.Context(), ownerID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute order summary")
		response, _ := json.Marshal(map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(response)
		return
	}

	response, _ := json.Marshal(map[string]interface{}{
		"success": true,
		"stats":   summary,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}
