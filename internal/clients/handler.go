package clients

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

type Handler struct {
	service *Service
	logger  *logrus.Logger
}

func NewHandler(service *Service, logger *logrus.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/clients", h.CreateClient).Methods("POST")
	r.HandleFunc("/clients", h.ListClients).Methods("GET")
	r.HandleFunc("/clients/{id}", h.GetClient).Methods("GET")
	r.HandleFunc("/clients/{id}", h.UpdateClient).Methods("PUT")
	r.HandleFunc("/clients/{id}", h.DeleteClient).Methods("DELETE")
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	var draft models.ClientDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := h.service.Create(r.Context(), ownerID, &draft)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to create client")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, models.ClientResponse{
		Success: true,
		Message: "Client added successfully",
		Client:  client,
	})
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())
	clientID := mux.Vars(r)["id"]

	var draft models.ClientDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := h.service.Update(r.Context(), ownerID, clientID, &draft)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to update client")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.ClientResponse{
		Success: true,
		Message: "Client updated successfully",
		Client:  client,
	})
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())
	clientID := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), ownerID, clientID); err != nil {
		h.respondWithServiceError(w, err, "Failed to delete client")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.ClientResponse{
		Success: true,
		Message: "Client deleted successfully",
	})
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	list, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to list clients")
		return
	}
	if list == nil {
		list = []*models.Client{}
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"clients": list,
		"count":   len(list),
	})
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())
	clientID := mux.Vars(r)["id"]

	client, err := h.service.Get(r.Context(), ownerID, clientID)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to get client")
		return
	}

	h.respondWithJSON(w, http.StatusOK, client)
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
		h.respondWithError(w, http.StatusNotFound, "Client not found")
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
