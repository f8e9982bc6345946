package healthcheck

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueCheckerFunc func() error

func (f queueCheckerFunc) IsConnectionHealthy() error { return f() }

type dbCheckerFunc func(ctx context.Context) error

func (f dbCheckerFunc) DoHealthCheck(ctx context.Context) error { return f(ctx) }

func TestCheck(t *testing.T) {
	ok := queueCheckerFunc(func() error { return nil })
	broken := queueCheckerFunc(func() error { return errors.New("channel closed") })
	dbOk := dbCheckerFunc(func(context.Context) error { return nil })
	dbBroken := dbCheckerFunc(func(context.Context) error { return errors.New("no reachable servers") })

	ctx := context.Background()
	assert.True(t, check(ctx, ok, dbOk))
	assert.True(t, check(ctx, nil, nil))
	assert.False(t, check(ctx, broken, dbOk))
	assert.False(t, check(ctx, ok, dbBroken))
}

func TestCronTerminatesOnFailure(t *testing.T) {
	var terminated atomic.Bool
	original := terminate
	terminate = func() { terminated.Store(true) }
	t.Cleanup(func() { terminate = original })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broken := queueCheckerFunc(func() error { return errors.New("channel closed") })
	require.NoError(t, StartHealthCheckCron(ctx, broken, nil, 1))

	assert.Eventually(t, terminated.Load, 3*time.Second, 50*time.Millisecond)
}
