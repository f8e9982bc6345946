package middlewares

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/babylonchain/staking-vault-service/internal/config"
)

const (
	maxAge = 300
)

func CorsMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		// the gateway forwards the caller identity as a custom header
		AllowedHeaders: []string{"Content-Type", CallerHeader},
		ExposedHeaders: []string{TraceIdHeader},
		MaxAge:         maxAge,
	})
	return c.Handler
}
