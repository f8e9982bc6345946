package healthcheck

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultCronTime = 60
	dbPingTimeout   = 5 * time.Second
)

var logger zerolog.Logger = log.Logger

// terminate is replaced in tests.
var terminate = func() {
	logger.Error().Msg("Terminating service due to health check failure.")
	os.Exit(1)
}

func SetLogger(customLogger zerolog.Logger) {
	logger = customLogger
}

// QueueChecker reports whether every queue connection is alive.
type QueueChecker interface {
	IsConnectionHealthy() error
}

// DbChecker pings the vault store.
type DbChecker interface {
	DoHealthCheck(ctx context.Context) error
}

// StartHealthCheckCron checks the queue connections and the store every
// cronTime seconds and terminates the process on the first failure, leaving
// the restart to the orchestrator.
func StartHealthCheckCron(ctx context.Context, queues QueueChecker, db DbChecker, cronTime int) error {
	c := cron.New()
	logger.Info().Msg("Initiated Health Check Cron")

	if cronTime == 0 {
		cronTime = defaultCronTime
	}

	cronSpec := fmt.Sprintf("@every %ds", cronTime)

	_, err := c.AddFunc(cronSpec, func() {
		if !check(ctx, queues, db) {
			terminate()
		}
	})
	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Stopping Health Check Cron")
		c.Stop()
	}()

	return nil
}

func check(ctx context.Context, queues QueueChecker, db DbChecker) bool {
	healthy := true
	if queues != nil {
		if err := queues.IsConnectionHealthy(); err != nil {
			logger.Error().Err(err).Msg("One or more queue connections are not healthy.")
			healthy = false
		}
	}
	if db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		defer cancel()
		if err := db.DoHealthCheck(pingCtx); err != nil {
			logger.Error().Err(err).Msg("Database is not healthy.")
			healthy = false
		}
	}
	return healthy
}
