package middlewares

import (
	"net/http"

	"github.com/babylonchain/staking-vault-service/internal/observability/tracing"
)

// TraceIdHeader echoes the request's trace id so clients can quote it.
const TraceIdHeader = "X-Trace-Id"

func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.AttachTracingIntoContext(r.Context())
		w.Header().Set(TraceIdHeader, tracing.GetTraceId(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
