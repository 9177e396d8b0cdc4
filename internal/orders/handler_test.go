package orders

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sweetflow/sweetflow/internal/auth"
	"github.com/sweetflow/sweetflow/pkg/models"
)

func newTestRouter(svc *Service) *mux.Router {
	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithOwnerID(r.Context(), owner)))
		})
	})
	NewHandler(svc, testLogger()).Register(router)
	return router
}

func postJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	rec := postJSON(t, router, "POST", "/orders", validDraft())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp models.OrderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Order == nil {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	if resp.Order.TotalPrice != 90 {
		t.Errorf("total = %v, want 90", resp.Order.TotalPrice)
	}
	if resp.Order.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", resp.Order.Status)
	}
}

func TestCreateOrderValidationResponse(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	draft := validDraft()
	draft.ClientName = "x"
	draft.Items[0].Quantity = 0
	rec := postJSON(t, router, "POST", "/orders", draft)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("success should be false")
	}
	if _, ok := resp.Errors["client_name"]; !ok {
		t.Errorf("expected client_name error, got %v", resp.Errors)
	}
	if _, ok := resp.Errors["items[0].quantity"]; !ok {
		t.Errorf("expected item quantity error, got %v", resp.Errors)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	req := httptest.NewRequest("GET", "/orders/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateAndDeleteOrderEndpoints(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	rec := postJSON(t, router, "POST", "/orders", validDraft())
	var createResp models.OrderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &createResp); err != nil {
		t.Fatal(err)
	}
	orderID := createResp.Order.ID

	draft := validDraft()
	draft.Status = models.StatusInProgress
	rec = postJSON(t, router, "PUT", "/orders/"+orderID, draft)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest("DELETE", "/orders/"+orderID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest("GET", "/orders/"+orderID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestListOrdersEndpoint(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	d := validDraft()
	d.Status = models.StatusCompleted
	postJSON(t, router, "POST", "/orders", d)
	postJSON(t, router, "POST", "/orders", validDraft())

	req := httptest.NewRequest("GET", "/orders?status=completed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool           `json:"success"`
		Orders  []models.Order `json:"orders"`
		Count   int            `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || len(resp.Orders) != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Orders[0].Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", resp.Orders[0].Status)
	}
}
