package handlers

import (
	"net/http"

	"github.com/babylonchain/staking-vault-service/internal/types"
)

// HealthCheck godoc
// @Summary Health check endpoint
// @Description Check the health of the service
// @Produce json
// @Success 200 {string} PublicResponse[string] "Server is up and running"
// @Router /healthcheck [get]
func (h *Handler) HealthCheck(request *http.Request) (*Result, *types.Error) {
	err := h.services.DoHealthCheck(request.Context())
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}

	return NewResult("Server is up and running"), nil
}
