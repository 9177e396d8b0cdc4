package orders

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

// Register mounts the order routes on an authenticated subrouter.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	r.HandleFunc("/orders", h.ListOrders).Methods("GET")
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
	r.HandleFunc("/orders/{id}", h.UpdateOrder).Methods("PUT")
	r.HandleFunc("/orders/{id}", h.DeleteOrder).Methods("DELETE")
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())

	var draft models.OrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.WithError(err).Error("Failed to decode order request")
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.Create(r.Context(), ownerID, &draft)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to create order")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, models.OrderResponse{
		Success: true,
		Message: "Order created successfully",
		Order:   order,
	})
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())
	orderID := mux.Vars(r)["id"]

	var draft models.OrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.WithError(err).Error("Failed to decode order request")
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.Update(r.Context(), ownerID, orderID, &draft)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to update order")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.OrderResponse{
		Success: true,
		Message: "Order updated successfully",
		Order:   order,
	})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())
	orderID := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), ownerID, orderID); err != nil {
		h.respondWithServiceError(w, err, "Failed to delete order")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.OrderResponse{
		Success: true,
		Message: "Order deleted successfully",
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())
	status := r.URL.Query().Get("status")

	orders, err := h.service.List(r.Context(), ownerID, status)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to list orders")
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
		"count":   len(orders),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustOwnerID(r.Context())
	orderID := mux.Vars(r)["id"]

	order, err := h.service.Get(r.Context(), ownerID, orderID)
	if err != nil {
		h.respondWithServiceError(w, err, "Failed to get order")
		return
	}

	h.respondWithJSON(w, http.StatusOK, order)
}

// respondWithServiceError maps service failures onto the error
// taxonomy: field-scoped 400 for validation, 404 for missing or
// foreign rows, and a 500 carrying the store message verbatim for
// everything else.
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
		h.respondWithError(w, http.StatusNotFound, "Order not found")
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
