package db

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo server error codes, see https://www.mongodb.com/docs/manual/reference/error-codes/
const (
	writeConflictErrorCode         = 112
	noSuchTransactionErrorCode     = 251
	transientTransactionErrorLabel = "TransientTransactionError"
)

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsWriteConflictError(err error) bool {
	return hasServerErrorCode(err, writeConflictErrorCode)
}

func IsTransactionAbortedError(err error) bool {
	return hasServerErrorCode(err, noSuchTransactionErrorCode)
}

// IsTransientTransactionError reports errors the server labelled safe to retry as a whole transaction.
func IsTransientTransactionError(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorLabel(transientTransactionErrorLabel)
	}
	return false
}

func hasServerErrorCode(err error, code int) bool {
	if err == nil {
		return false
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorCode(code)
	}
	return false
}
