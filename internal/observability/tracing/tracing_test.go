package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapWithSpanRecordsSpans(t *testing.T) {
	ctx := AttachTracingIntoContext(context.Background())
	_, err := uuid.Parse(GetTraceId(ctx))
	require.NoError(t, err)

	result, err := WrapWithSpan(ctx, "deposit", func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result)

	_, err = WrapWithSpan(ctx, "redeem", func() (string, error) {
		return "", errors.New("failed")
	})
	assert.EqualError(t, err, "failed")

	info := GetTracingInfo(ctx)
	require.NotNil(t, info)
	require.Len(t, info.SpanDetails, 2)
	assert.Equal(t, "deposit", info.SpanDetails[0].Name)
	assert.Equal(t, "redeem", info.SpanDetails[1].Name)
}

func TestWrapWithSpanWithoutTracing(t *testing.T) {
	result, err := WrapWithSpan(context.Background(), "view", func() (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, result)
	assert.Empty(t, GetTraceId(context.Background()))
}
