package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sweetflow/sweetflow/internal/store"
)

func protectedRouter(sessions store.SessionStore) (*mux.Router, *string) {
	var seenOwner string
	router := mux.NewRouter()
	router.Use(Middleware(sessions, testLogger()))
	router.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		seenOwner = MustOwnerID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return router, &seenOwner
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	router, _ := protectedRouter(store.NewMemory())

	req := httptest.NewRequest("GET", "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareRejectsUnknownToken(t *testing.T) {
	router, _ := protectedRouter(store.NewMemory())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareResolvesOwner(t *testing.T) {
	mem := store.NewMemory()
	err := mem.CreateSession(context.Background(), &store.Session{
		Token:     "tok-1",
		OwnerID:   "owner-1",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	router, seenOwner := protectedRouter(mem)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *seenOwner != "owner-1" {
		t.Errorf("owner = %q, want owner-1", *seenOwner)
	}
}
