package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/babylonchain/staking-vault-service/cmd/staking-vault-service/cli"
	"github.com/babylonchain/staking-vault-service/cmd/staking-vault-service/scripts"
	"github.com/babylonchain/staking-vault-service/internal/api"
	"github.com/babylonchain/staking-vault-service/internal/config"
	"github.com/babylonchain/staking-vault-service/internal/db/model"
	"github.com/babylonchain/staking-vault-service/internal/observability/healthcheck"
	"github.com/babylonchain/staking-vault-service/internal/observability/metrics"
	"github.com/babylonchain/staking-vault-service/internal/queue"
	queueclient "github.com/babylonchain/staking-vault-service/internal/queue/client"
	"github.com/babylonchain/staking-vault-service/internal/services"
)

const shutdownTimeout = 10 * time.Second

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

// @title Staking Vault Service API
// @version 1.0
// @description Pooled staking vault: deposits, share accounting, unbonding and reward publication.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	metrics.Init()

	err = model.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up staking vault db model")
	}

	eventsQueue, err := queueclient.NewQueueClient(&cfg.Queue, queueclient.VaultEventsQueueName)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up vault events queue client")
	}

	services, err := services.New(ctx, cfg, eventsQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up staking vault services layer")
	}

	queues, err := queue.New(&cfg.Queue, services, eventsQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up queues")
	}
	defer queues.StopReceivingMessages()

	if cli.GetReplayFlag() {
		log.Info().Msg("Replay flag is set. Starting replay of unprocessable messages.")
		if _, err := scripts.ReplayUnprocessableMessages(ctx, queues, services.DbClient); err != nil {
			log.Error().Err(err).Msg("error while replaying unprocessable messages")
		}
		return
	}

	if err := queues.StartReceivingMessages(); err != nil {
		log.Fatal().Err(err).Msg("error while starting to receive queue messages")
	}

	if err := healthcheck.StartHealthCheckCron(ctx, queues, services, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up staking vault api")
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	g.Go(func() error {
		return metrics.StartServer(gCtx, cfg.Metrics.GetMetricsPort())
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("Shutting down staking vault service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("staking vault service stopped with error")
	}
}
