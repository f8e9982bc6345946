package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/babylonchain/staking-vault-service/internal/api/middlewares"
	"github.com/babylonchain/staking-vault-service/internal/types"
	"github.com/babylonchain/staking-vault-service/internal/utils"
)

// parsePayload decodes the JSON body into T and validates its struct tags.
func parsePayload[T any](h *Handler, request *http.Request) (*T, *types.Error) {
	return decodePayload[T](h, request, false)
}

// parseOptionalPayload is parsePayload for endpoints whose body may be empty.
// An empty body yields the zero value of T.
func parseOptionalPayload[T any](h *Handler, request *http.Request) (*T, *types.Error) {
	return decodePayload[T](h, request, true)
}

func decodePayload[T any](h *Handler, request *http.Request, allowEmpty bool) (*T, *types.Error) {
	payload := new(T)
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil && !(allowEmpty && errors.Is(err, io.EOF)) {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return nil, types.NewErrorWithMsg(
				http.StatusBadRequest, types.ValidationError, strings.Join(fields, "; "),
			)
		}
		return nil, types.NewError(http.StatusBadRequest, types.ValidationError, err)
	}
	return payload, nil
}

// requireCaller returns the identity the gateway authenticated the request as.
func requireCaller(request *http.Request) (string, *types.Error) {
	caller, ok := middlewares.CallerFromContext(request.Context())
	if !ok {
		return "", types.NewErrorWithMsg(
			http.StatusUnauthorized, types.Unauthorized,
			fmt.Sprintf("a valid %s header is required", middlewares.CallerHeader),
		)
	}
	return caller, nil
}

func parseIdentityQuery(request *http.Request, queryName string) (string, *types.Error) {
	value := request.URL.Query().Get(queryName)
	if value == "" {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, queryName+" is required")
	}
	if !utils.IsValidIdentity(value) {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid "+queryName)
	}
	return value, nil
}

func parseUintQuery(request *http.Request, queryName string, bitSize int) (uint64, *types.Error) {
	value := request.URL.Query().Get(queryName)
	if value == "" {
		return 0, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, queryName+" is required")
	}
	parsed, err := strconv.ParseUint(value, 10, bitSize)
	if err != nil {
		return 0, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid "+queryName)
	}
	return parsed, nil
}
