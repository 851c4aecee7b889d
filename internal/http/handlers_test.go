package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fairyhunter13/product-catalog-service/internal/catalog"
	"github.com/fairyhunter13/product-catalog-service/internal/config"
	"github.com/fairyhunter13/product-catalog-service/internal/mediator"
	"github.com/fairyhunter13/product-catalog-service/internal/model"
	"github.com/fairyhunter13/product-catalog-service/internal/obs"
	"github.com/fairyhunter13/product-catalog-service/internal/store"
)

func setupApp(t *testing.T) http.Handler {
	t.Helper()
	obs.InitLogger("error")
	st, err := store.Open("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	bus := mediator.New(obs.Logger)
	if err := catalog.Register(bus, st, bus); err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	app := NewApp(config.Config{}, bus)
	return NewRouter(app)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

func createProduct(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/products", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if resp["id"] == "" {
		t.Fatalf("expected non-empty id")
	}
	return resp["id"]
}

func TestCreateThenGet(t *testing.T) {
	h := setupApp(t)
	id := createProduct(t, h, `{"name":"Mouse","description":"Wireless","price":29.99}`)

	rr := doJSON(t, h, http.MethodGet, "/products/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var view model.ProductView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.ID != id || view.Name != "Mouse" || view.Description != "Wireless" || view.Price != 29.99 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestCreateValidationError(t *testing.T) {
	h := setupApp(t)
	rr := doJSON(t, h, http.MethodPost, "/products", `{"name":"Bad","price":-5}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "validation_error") {
		t.Fatalf("expected validation_error payload: %s", rr.Body.String())
	}
}

func TestCreateRequiresJSONContentType(t *testing.T) {
	h := setupApp(t)
	r := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(`{"name":"x","price":1}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rr.Code)
	}
}

func TestCreateRejectsUnknownFields(t *testing.T) {
	h := setupApp(t)
	rr := doJSON(t, h, http.MethodPost, "/products", `{"name":"x","price":1,"stock":3}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetUnknownReturns404(t *testing.T) {
	h := setupApp(t)
	rr := doJSON(t, h, http.MethodGet, "/products/does-not-exist", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestListEmptyAndAfterCreates(t *testing.T) {
	h := setupApp(t)

	rr := doJSON(t, h, http.MethodGet, "/products", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var views []model.ProductView
	if err := json.Unmarshal(rr.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty list, got %d", len(views))
	}

	for i := 0; i < 3; i++ {
		createProduct(t, h, fmt.Sprintf(`{"name":"p%d","price":%d}`, i, i))
	}
	rr = doJSON(t, h, http.MethodGet, "/products", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
}

func TestPutUpdatesProduct(t *testing.T) {
	h := setupApp(t)
	id := createProduct(t, h, `{"name":"Mouse","price":9.99}`)

	body := fmt.Sprintf(`{"id":%q,"name":"Mouse Pro","description":"Wireless","price":39.99}`, id)
	rr := doJSON(t, h, http.MethodPut, "/products/"+id, body)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodGet, "/products/"+id, "")
	var view model.ProductView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Name != "Mouse Pro" || view.Description != "Wireless" || view.Price != 39.99 {
		t.Fatalf("unexpected view after update: %+v", view)
	}
}

func TestPutIDMismatchReturns400(t *testing.T) {
	h := setupApp(t)
	id := createProduct(t, h, `{"name":"Mouse","price":9.99}`)

	rr := doJSON(t, h, http.MethodPut, "/products/"+id, `{"id":"other","name":"x","price":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "id_mismatch") {
		t.Fatalf("expected id_mismatch payload: %s", rr.Body.String())
	}
}

func TestPutUnknownReturns404(t *testing.T) {
	h := setupApp(t)
	rr := doJSON(t, h, http.MethodPut, "/products/ghost", `{"id":"ghost","name":"x","price":1}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	h := setupApp(t)
	id := createProduct(t, h, `{"name":"Mouse","price":9.99}`)

	for i := 0; i < 2; i++ {
		rr := doJSON(t, h, http.MethodDelete, "/products/"+id, "")
		if rr.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204, got %d", i, rr.Code)
		}
	}
	rr := doJSON(t, h, http.MethodGet, "/products/"+id, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestHealthzOK(t *testing.T) {
	h := setupApp(t)
	rr := doJSON(t, h, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestMetricsHandler(t *testing.T) {
	h := setupApp(t)
	rr := doJSON(t, h, http.MethodGet, "/debug/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var m map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if _, ok := m["products_created"]; !ok {
		t.Fatalf("expected products_created metric")
	}
}

func TestOpenAPIServed(t *testing.T) {
	h := setupApp(t)
	rr := doJSON(t, h, http.MethodGet, "/openapi.yaml", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("openapi:")) {
		t.Fatalf("expected openapi content")
	}
}

func TestDocsServed(t *testing.T) {
	h := setupApp(t)
	rr := doJSON(t, h, http.MethodGet, "/docs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "swagger-ui") {
		t.Fatalf("expected swagger-ui in docs body")
	}
}
