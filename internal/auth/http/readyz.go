package http

import (
	"net/http"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/store"
	"github.com/azmin8744/soliloquio/pkg/api"
	"github.com/azmin8744/soliloquio/pkg/httpx"
)

// ReadyzHandler checks the database before reporting ready.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &api.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, api.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
