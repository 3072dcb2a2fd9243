package controllers

import (
	"context"
	"net/http"

	"github.com/denovbaraka/storefront-backend/api/responses"
	"github.com/denovbaraka/storefront-backend/pkg/config"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

const envHeader = "X-Somsa-Env"

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency status. The local store is required;
// Redis is optional and only checked when wired.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger, redisClient Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				checks["localstore"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "localstore ping failed", err)
				}
			} else {
				checks["localstore"] = "ok"
			}
		}

		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				checks["redis"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "redis ping failed", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		status := "ready"
		httpStatus := http.StatusOK
		if !healthy {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
