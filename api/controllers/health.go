package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/hyejinmoon/babysteps-backend/api/responses"
	"github.com/hyejinmoon/babysteps-backend/pkg/config"
	"github.com/hyejinmoon/babysteps-backend/pkg/db"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/instance"
	"github.com/hyejinmoon/babysteps-backend/pkg/logger"
	"github.com/hyejinmoon/babysteps-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BabySteps-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{
			"status":   "live",
			"instance": instance.GetID(),
		})
	}
}

// HealthReady pings the datastores this process cannot serve without.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BabySteps-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		checks["database"] = pingStatus(ctx, dbP)
		if checks["database"] != "ok" {
			failed = true
		}
		checks["redis"] = pingStatus(ctx, redisP)
		if checks["redis"] != "ok" {
			failed = true
		}

		if failed {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
					WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingStatus(ctx context.Context, p pinger) string {
	if p == nil {
		return "not configured"
	}
	if err := p.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
