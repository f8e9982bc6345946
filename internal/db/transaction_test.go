package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babylonchain/staking-vault-service/internal/utils"
)

func writeConflictError() *mongo.CommandError {
	return &mongo.CommandError{
		Code:    112,
		Message: "write conflict",
		Name:    "WriteConflict",
	}
}

type mockSession struct {
	mock.Mock
}

func (m *mockSession) EndSession(ctx context.Context) {
	m.Called(ctx)
}

func (m *mockSession) WithTransaction(
	ctx context.Context,
	fn func(sessCtx mongo.SessionContext) (interface{}, error),
	opts ...*options.TransactionOptions,
) (interface{}, error) {
	args := m.Called(ctx, fn)
	return args.Get(0), args.Error(1)
}

type mockTransactionClient struct {
	mock.Mock
}

func (m *mockTransactionClient) StartSession(opts ...*options.SessionOptions) (DBSession, error) {
	args := m.Called()
	session, _ := args.Get(0).(DBSession)
	return session, args.Error(1)
}

func recordSleeps(t *testing.T) *[]time.Duration {
	sleeps := []time.Duration{}
	utils.SetSleepFunc(func(d time.Duration) {
		sleeps = append(sleeps, d)
	})
	t.Cleanup(utils.ResetSleepFunc)
	return &sleeps
}

func noopTxn(sessCtx mongo.SessionContext) (interface{}, error) {
	return nil, nil
}

func TestTxWithRetries_ExponentialBackoff(t *testing.T) {
	session := &mockSession{}
	session.On("WithTransaction", mock.Anything, mock.Anything).Return(nil, writeConflictError()).Twice()
	session.On("WithTransaction", mock.Anything, mock.Anything).Return("success", nil).Once()
	session.On("EndSession", mock.Anything).Return()

	client := &mockTransactionClient{}
	client.On("StartSession").Return(session, nil)

	sleeps := recordSleeps(t)

	result, err := TxWithRetries(context.Background(), client, noopTxn)
	require.NoError(t, err)
	require.Equal(t, "success", result)

	require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *sleeps)
	session.AssertNumberOfCalls(t, "EndSession", 3)
	client.AssertNumberOfCalls(t, "StartSession", 3)
}

func TestTxWithRetries_MaxRetries(t *testing.T) {
	session := &mockSession{}
	session.On("WithTransaction", mock.Anything, mock.Anything).Return(nil, writeConflictError())
	session.On("EndSession", mock.Anything).Return()

	client := &mockTransactionClient{}
	client.On("StartSession").Return(session, nil)

	sleeps := recordSleeps(t)

	result, err := TxWithRetries(context.Background(), client, noopTxn)
	require.Error(t, err)
	require.True(t, IsWriteConflictError(err))
	require.Nil(t, result)
	require.Len(t, *sleeps, DefaultMaxAttempts-1)
	session.AssertNumberOfCalls(t, "WithTransaction", DefaultMaxAttempts)
}

func TestTxWithRetries_NonRetryableError(t *testing.T) {
	duplicate := &DuplicateKeyError{Key: "7", Message: "reward publication already exists"}

	session := &mockSession{}
	session.On("WithTransaction", mock.Anything, mock.Anything).Return(nil, duplicate).Once()
	session.On("EndSession", mock.Anything).Return()

	client := &mockTransactionClient{}
	client.On("StartSession").Return(session, nil)

	sleeps := recordSleeps(t)

	_, err := TxWithRetries(context.Background(), client, noopTxn)
	require.True(t, IsDuplicateKeyError(err))
	require.Empty(t, *sleeps)
	session.AssertExpectations(t)
}

func TestTxWithRetries_SessionError(t *testing.T) {
	client := &mockTransactionClient{}
	client.On("StartSession").Return(nil, errors.New("no replica set"))

	_, err := TxWithRetries(context.Background(), client, noopTxn)
	require.EqualError(t, err, "no replica set")
}

func TestErrorHelpers(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &NotFoundError{Key: "k", Message: "missing"})
	require.True(t, IsNotFoundError(wrapped))
	require.False(t, IsDuplicateKeyError(wrapped))

	require.True(t, IsTransactionAbortedError(&mongo.CommandError{Code: 251}))
	require.False(t, IsWriteConflictError(errors.New("plain")))
	require.True(t, IsTransientTransactionError(mongo.CommandError{Labels: []string{"TransientTransactionError"}}))
}
