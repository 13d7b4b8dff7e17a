package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyejinmoon/babysteps-backend/internal/clipboard"
	"github.com/hyejinmoon/babysteps-backend/internal/estimator"
	"github.com/hyejinmoon/babysteps-backend/internal/meals"
	"github.com/hyejinmoon/babysteps-backend/internal/pantry"
	"github.com/hyejinmoon/babysteps-backend/pkg/config"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	"github.com/hyejinmoon/babysteps-backend/pkg/metrics"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
	"github.com/google/uuid"
)

type noopPantry struct{}

func (noopPantry) AddItem(context.Context, pantry.AddItemInput) (*pantry.ItemDTO, error) {
	return &pantry.ItemDTO{}, nil
}
func (noopPantry) ListItems(context.Context, pantry.ListQuery) ([]pantry.ItemDTO, error) {
	return []pantry.ItemDTO{}, nil
}
func (noopPantry) AdjustQuantity(context.Context, uuid.UUID, int) (*pantry.ItemDTO, error) {
	return &pantry.ItemDTO{}, nil
}
func (noopPantry) SetQuantity(context.Context, uuid.UUID, int) (*pantry.ItemDTO, error) {
	return &pantry.ItemDTO{}, nil
}
func (noopPantry) Rename(context.Context, uuid.UUID, string) (*pantry.ItemDTO, error) {
	return &pantry.ItemDTO{}, nil
}
func (noopPantry) DeleteItem(context.Context, uuid.UUID) error { return nil }

type noopMeals struct{}

func (noopMeals) SaveMeal(context.Context, meals.SaveMealInput) (*meals.MealDTO, error) {
	return &meals.MealDTO{}, nil
}
func (noopMeals) LogMeal(context.Context, meals.LogMealInput) (*meals.MealDTO, error) {
	return &meals.MealDTO{}, nil
}
func (noopMeals) GetMeal(context.Context, types.Date, enums.MealSlot) (*meals.MealDTO, error) {
	return &meals.MealDTO{}, nil
}
func (noopMeals) ListMeals(context.Context, types.Date, types.Date) ([]meals.MealDTO, error) {
	return nil, nil
}
func (noopMeals) CopyMeal(context.Context, meals.CopyMealInput) ([]meals.MealDTO, error) {
	return nil, nil
}
func (noopMeals) MarkEaten(context.Context, types.Date, enums.MealSlot, bool) (*meals.MealDTO, error) {
	return &meals.MealDTO{}, nil
}
func (noopMeals) LoadSnapshots(context.Context, types.Date, types.Date) ([]estimator.MealSnapshot, error) {
	return nil, nil
}

type noopClipboard struct{}

func (noopClipboard) Copy(context.Context, string, types.Date, enums.MealSlot) error { return nil }
func (noopClipboard) Paste(context.Context, string, []types.Date) ([]meals.MealDTO, error) {
	return nil, nil
}
func (noopClipboard) Clear(context.Context, string) error { return nil }

var _ clipboard.Service = noopClipboard{}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	registry := prometheus.NewRegistry()
	return NewRouter(RouterParams{
		Config:    &config.Config{App: config.AppConfig{Env: "test", Port: "8080"}},
		Metrics:   metrics.NewHTTPMetrics(registry),
		Registry:  registry,
		Pantry:    noopPantry{},
		Meals:     noopMeals{},
		Clipboard: noopClipboard{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-BabySteps-Env"))
}

func TestRouterServesMetrics(t *testing.T) {
	router := newTestRouter(t)

	// Generate one observed request first.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/pantry", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouterAssignsRequestID(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health/live", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health/live", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	router.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-Id"))
}

func TestRouterMintsSessionForClipboard(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/clipboard/copy",
		strings.NewReader(`{"date":"2026-03-02","slot":"lunch"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-Id"))
}

func TestRouterEchoesProvidedSession(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/clipboard/paste",
		strings.NewReader(`{"targets":["2026-03-03"]}`))
	req.Header.Set("X-Session-Id", "session-abc")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-abc", rec.Header().Get("X-Session-Id"))
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
