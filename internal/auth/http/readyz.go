package http

import (
	"context"
	"net/http"
	"time"

	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/sautiyetu/sauti/pkg/httpx"
)

// Pinger is satisfied by the store and by the redis client wrapper.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database, the token signer and, when configured, redis.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"a dependency is unavailable"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	db Pinger,
	signerReady func() bool,
	cache Pinger, // optional
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: "ok", Signer: "ok"}
		status := "ok"
		code := http.StatusOK

		degrade := func() {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if err := db.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			degrade()
		}
		if !signerReady() {
			checks.Signer = "error: no signing key loaded"
			degrade()
		}
		if cache != nil {
			checks.Redis = "ok"
			if err := cache.Ping(r.Context()); err != nil {
				checks.Redis = "error: " + err.Error()
				degrade()
			}
		}

		httpx.WriteJSON(w, code, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
