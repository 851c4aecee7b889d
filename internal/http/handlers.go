package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/product-catalog-service/internal/catalog"
	"github.com/fairyhunter13/product-catalog-service/internal/config"
	"github.com/fairyhunter13/product-catalog-service/internal/mediator"
	"github.com/fairyhunter13/product-catalog-service/internal/model"
	"github.com/fairyhunter13/product-catalog-service/internal/obs"
)

// App translates HTTP requests into commands and queries, dispatches them,
// and maps results and error kinds back to status codes.
type App struct {
	Cfg     config.Config
	Bus     *mediator.Dispatcher
	started time.Time
}

func NewApp(cfg config.Config, bus *mediator.Dispatcher) *App {
	return &App{Cfg: cfg, Bus: bus, started: time.Now()}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

// writeDispatchError maps handler error kinds to status codes. Store and
// wiring failures land on 500.
func writeDispatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (a *App) createProduct(w http.ResponseWriter, r *http.Request) {
	var cmd catalog.CreateProduct
	if !decodeBody(w, r, &cmd) {
		return
	}
	id, err := mediator.Send[string](r.Context(), a.Bus, cmd)
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	obs.Logger.Info("product_create_accepted",
		"request_id", RequestIDFromContext(r.Context()),
		"product_id", id,
	)
}

func (a *App) getProduct(w http.ResponseWriter, r *http.Request) {
	q := catalog.GetProduct{ID: chi.URLParam(r, "id")}
	view, err := mediator.Send[*model.ProductView](r.Context(), a.Bus, q)
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	if view == nil {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *App) listProducts(w http.ResponseWriter, r *http.Request) {
	views, err := mediator.Send[[]model.ProductView](r.Context(), a.Bus, catalog.ListProducts{})
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	if views == nil {
		views = []model.ProductView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *App) updateProduct(w http.ResponseWriter, r *http.Request) {
	pathID := chi.URLParam(r, "id")
	var cmd catalog.UpdateProduct
	if !decodeBody(w, r, &cmd) {
		return
	}
	// Boundary check: a body id that disagrees with the path never reaches
	// the dispatcher.
	if cmd.ID != "" && cmd.ID != pathID {
		writeError(w, http.StatusBadRequest, "id_mismatch", "body id does not match path id")
		return
	}
	cmd.ID = pathID
	if _, err := a.Bus.Send(r.Context(), cmd); err != nil {
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) deleteProduct(w http.ResponseWriter, r *http.Request) {
	cmd := catalog.DeleteProduct{ID: chi.URLParam(r, "id")}
	if _, err := a.Bus.Send(r.Context(), cmd); err != nil {
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, _ *http.Request) {
	m := map[string]any{
		"products_created": catalog.ProductsCreatedCount(),
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}
