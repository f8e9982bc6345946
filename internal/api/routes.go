package api

import (
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/babylonchain/staking-vault-service/docs"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Get("/v1/vault", registerHandler(handlers.GetVaultOverview))
	r.Get("/v1/vault/exchange-rate", registerHandler(handlers.GetExchangeRate))
	r.Get("/v1/vault/shares-to-assets", registerHandler(handlers.GetSharesToAssets))
	r.Get("/v1/vault/assets-to-shares", registerHandler(handlers.GetAssetsToShares))
	r.Get("/v1/account", registerHandler(handlers.GetAccount))
	r.Get("/v1/unbonding/ticket", registerHandler(handlers.GetUnbondingTicket))
	r.Get("/v1/rewards", registerHandler(handlers.GetRewardPublication))

	r.Post("/v1/deposit", registerHandler(handlers.Deposit))
	r.Post("/v1/unbond", registerHandler(handlers.Unbond))
	r.Post("/v1/redeem", registerHandler(handlers.Redeem))
	r.Post("/v1/rewards", registerHandler(handlers.PublishReward))

	r.Route("/v1/admin", func(r chi.Router) {
		r.Post("/initialize", registerHandler(handlers.Initialize))
		r.Post("/pause", registerHandler(handlers.SetPaused))
		r.Post("/unbonding-period", registerHandler(handlers.UpdateUnbondingPeriod))
		r.Post("/freeze-administrators", registerHandler(handlers.UpdateFreezeAdministrators))
		r.Post("/rewards-administrators", registerHandler(handlers.UpdateRewardsAdministrators))
		r.Post("/freeze", registerHandler(handlers.FreezeAccount))
		r.Post("/thaw", registerHandler(handlers.ThawAccount))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
