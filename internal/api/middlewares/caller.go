package middlewares

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/staking-vault-service/internal/utils"
)

// CallerHeader carries the identity the gateway in front of the service
// authenticated the request as.
const CallerHeader = "X-Caller-Id"

type callerContextKey struct{}

// CallerMiddleware attaches a well formed caller identity to the request
// context. Malformed identities are dropped, handlers that need a caller
// reject the request.
func CallerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := r.Header.Get(CallerHeader)
		if caller == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !utils.IsValidIdentity(caller) {
			log.Ctx(r.Context()).Warn().Str("caller", caller).Msg("ignoring malformed caller identity")
			next.ServeHTTP(w, r)
			return
		}

		logger := log.Ctx(r.Context()).With().Str("caller", caller).Logger()
		ctx := context.WithValue(logger.WithContext(r.Context()), callerContextKey{}, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func CallerFromContext(ctx context.Context) (string, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(string)
	return caller, ok && caller != ""
}
