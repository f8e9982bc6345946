package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordersAndRouter(t *testing.T) {
	Init()
	Init()

	RecordVaultOperation("deposit", Success)
	RecordVaultOperation("deposit", Success)
	RecordVaultOperation("deposit", Error)
	assert.Equal(t, float64(2), testutil.ToFloat64(vaultOperationCounter.WithLabelValues("deposit", "success")))

	RecordPoolState(1_500_000, 1_000_000, 1_250_000_000)
	assert.Equal(t, float64(1_250_000_000), testutil.ToFloat64(exchangeRateGauge))
	assert.Equal(t, float64(1_500_000), testutil.ToFloat64(poolTotalsGauge.WithLabelValues("assets")))

	RecordEventPublishFailure(2)
	RecordQueueMessage("reward_publication_queue", Error)
	StartHttpRequestDurationTimer("/v1/vault")(http.StatusOK)

	rec := httptest.NewRecorder()
	Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "vault_operations_total"))
	assert.True(t, strings.Contains(body, "vault_event_publish_failures_total"))
	assert.True(t, strings.Contains(body, `http_request_duration_seconds_count{endpoint="/v1/vault",status="200"} 1`))
}
