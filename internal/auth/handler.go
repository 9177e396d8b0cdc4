package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/store"
)

type Handler struct {
	service *Service
	logger  *logrus.Logger
}

func NewHandler(service *Service, logger *logrus.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public auth routes. Signout is also public: it
// takes the token it revokes from the Authorization header.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/auth/signup", h.SignUp).Methods("POST")
	r.HandleFunc("/auth/signin", h.SignIn).Methods("POST")
	r.HandleFunc("/auth/signout", h.SignOut).Methods("POST")
}

type signUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
	FullName     string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := map[string]string{}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs["email"] = "A valid email address is required"
	}
	if len(req.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		errs["business_name"] = "Business name is required"
	}
	if strings.TrimSpace(req.FullName) == "" {
		errs["full_name"] = "Full name is required"
	}
	if len(errs) > 0 {
		h.respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
		return
	}

	session, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.BusinessName, req.FullName)
	if errors.Is(err, store.ErrDuplicateEmail) {
		h.respondWithError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign up")
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusCreated, sessionResponse{
		Success: true,
		Message: "Account created",
		Token:   session.Token,
		OwnerID: session.OwnerID,
	})
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		h.respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign in")
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, sessionResponse{
		Success: true,
		Token:   session.Token,
		OwnerID: session.OwnerID,
	})
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		h.respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.SignOut(r.Context(), token); err != nil {
		h.logger.WithError(err).Error("Failed to sign out")
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, sessionResponse{Success: true, Message: "Signed out"})
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
