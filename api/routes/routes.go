package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyejinmoon/babysteps-backend/api/controllers"
	"github.com/hyejinmoon/babysteps-backend/api/middleware"
	"github.com/hyejinmoon/babysteps-backend/internal/clipboard"
	"github.com/hyejinmoon/babysteps-backend/internal/meals"
	"github.com/hyejinmoon/babysteps-backend/internal/pantry"
	"github.com/hyejinmoon/babysteps-backend/pkg/config"
	"github.com/hyejinmoon/babysteps-backend/pkg/db"
	"github.com/hyejinmoon/babysteps-backend/pkg/logger"
	"github.com/hyejinmoon/babysteps-backend/pkg/metrics"
	"github.com/hyejinmoon/babysteps-backend/pkg/redis"
)

// RouterParams collects everything the HTTP surface needs.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     redis.Pinger
	Metrics   *metrics.HTTPMetrics
	Registry  *prometheus.Registry
	Pantry    pantry.Service
	Meals     meals.Service
	Clipboard clipboard.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(p.Metrics),
		middleware.CORS(p.Config.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/pantry", func(r chi.Router) {
		r.Get("/", controllers.PantryList(p.Pantry, p.Logger))
		r.Post("/", controllers.PantryCreate(p.Pantry, p.Logger))
		r.Patch("/{itemId}", controllers.PantryUpdate(p.Pantry, p.Logger))
		r.Post("/{itemId}/adjust", controllers.PantryAdjust(p.Pantry, p.Logger))
		r.Delete("/{itemId}", controllers.PantryDelete(p.Pantry, p.Logger))
	})

	r.Route("/api/v1/meals", func(r chi.Router) {
		r.Get("/", controllers.MealsList(p.Meals, p.Logger))
		r.Post("/log", controllers.MealsLog(p.Meals, p.Logger))
		r.Get("/{date}/{slot}", controllers.MealsGet(p.Meals, p.Logger))
		r.Put("/{date}/{slot}", controllers.MealsSave(p.Meals, p.Logger))
		r.Post("/{date}/{slot}/eaten", controllers.MealsMarkEaten(p.Meals, p.Logger))
		r.Post("/{date}/{slot}/copy", controllers.MealsCopy(p.Meals, p.Logger))
	})

	r.Route("/api/v1/clipboard", func(r chi.Router) {
		r.Use(middleware.Session(p.Logger))
		r.Post("/copy", controllers.ClipboardCopy(p.Clipboard, p.Logger))
		r.Post("/paste", controllers.ClipboardPaste(p.Clipboard, p.Logger))
		r.Delete("/", controllers.ClipboardClear(p.Clipboard, p.Logger))
	})

	return r
}
