package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	// 5XX
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	Overflow             ErrorCode = "OVERFLOW"
	DivisionByZero       ErrorCode = "DIVISION_BY_ZERO"

	// 4XX
	ValidationError              ErrorCode = "VALIDATION_ERROR"
	NotFound                     ErrorCode = "NOT_FOUND"
	BadRequest                   ErrorCode = "BAD_REQUEST"
	Forbidden                    ErrorCode = "FORBIDDEN"
	Unauthorized                 ErrorCode = "UNAUTHORIZED"
	InvalidAmount                ErrorCode = "INVALID_AMOUNT"
	InvalidUnbondingPeriod       ErrorCode = "INVALID_UNBONDING_PERIOD"
	TooManyAdministrators        ErrorCode = "TOO_MANY_ADMINISTRATORS"
	AssetsCannotBeSame           ErrorCode = "ASSETS_CANNOT_BE_SAME"
	ProtocolPaused               ErrorCode = "PROTOCOL_PAUSED"
	NotInitialized               ErrorCode = "NOT_INITIALIZED"
	AlreadyInitialized           ErrorCode = "ALREADY_INITIALIZED"
	AlreadyExists                ErrorCode = "ALREADY_EXISTS"
	DepositTooSmall              ErrorCode = "DEPOSIT_TOO_SMALL"
	InsufficientBalance          ErrorCode = "INSUFFICIENT_BALANCE"
	InsufficientUnbondingBalance ErrorCode = "INSUFFICIENT_UNBONDING_BALANCE"
	InsufficientVaultBalance     ErrorCode = "INSUFFICIENT_VAULT_BALANCE"
	UnbondingPeriodNotElapsed    ErrorCode = "UNBONDING_PERIOD_NOT_ELAPSED"
	InvalidTicketOwner           ErrorCode = "INVALID_TICKET_OWNER"
	TicketNotFound               ErrorCode = "TICKET_NOT_FOUND"
	AccountFrozen                ErrorCode = "ACCOUNT_FROZEN"
)

// Error represents an error with an HTTP status code and an application-specific error code.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

const UninitializedStatusCode = 0

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the provided status code, error code, and underlying error.
// If the status code is not provided (0), it defaults to http.StatusInternalServerError(500).
// If the error code is empty, it defaults to INTERNAL_SERVICE_ERROR.
func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	if statusCode == UninitializedStatusCode {
		statusCode = http.StatusInternalServerError
	}
	if errorCode == "" {
		errorCode = InternalServiceError
	}
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
		Err:        err,
	}
}

// IsErrorCode reports whether err is an *Error carrying the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var typedErr *Error
	if errors.As(err, &typedErr) {
		return typedErr.ErrorCode == code
	}
	return false
}
