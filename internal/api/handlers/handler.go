package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/babylonchain/staking-vault-service/internal/config"
	"github.com/babylonchain/staking-vault-service/internal/services"
	"github.com/babylonchain/staking-vault-service/internal/utils"
)

type Handler struct {
	config   *config.Config
	services *services.Services
	validate *validator.Validate
}

type PublicResponse[T any] struct {
	Data T `json:"data"`
}

type Result struct {
	Data   interface{}
	Status int
}

// NewResult returns a successful result, with default status code 200
func NewResult[T any](data T) *Result {
	res := &PublicResponse[T]{Data: data}
	return &Result{Data: res, Status: http.StatusOK}
}

func New(
	ctx context.Context, cfg *config.Config, services *services.Services,
) (*Handler, error) {
	validate := validator.New()
	if err := validate.RegisterValidation("identity", func(fl validator.FieldLevel) bool {
		return utils.IsValidIdentity(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	if err := validate.RegisterValidation("asset_id", func(fl validator.FieldLevel) bool {
		return utils.IsValidAssetId(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	return &Handler{
		config:   cfg,
		services: services,
		validate: validate,
	}, nil
}
