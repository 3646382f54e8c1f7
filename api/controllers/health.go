package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/lmorandi/catalog-admin-backend/api/responses"
	"github.com/lmorandi/catalog-admin-backend/pkg/config"
	"github.com/lmorandi/catalog-admin-backend/pkg/db"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)
		responses.WriteSuccess(w, responses.Fields{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not reachable"))
				return
			}
		}

		responses.WriteSuccess(w, responses.Fields{"status": "ready"})
	}
}
