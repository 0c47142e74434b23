package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

func newTransactionRepo(t *testing.T) *TransactionRepository {
	t.Helper()
	return NewTransactionRepository(store.NewMemoryStore(), zap.NewNop())
}

func TestTransactionCreateAndList(t *testing.T) {
	repo := newTransactionRepo(t)

	tx, err := repo.Create(context.Background(), &domain.Transaction{
		UserID:   "user-a",
		Amount:   5000,
		Currency: "USD",
		Type:     domain.TransactionTypePayment,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)

	_, err = repo.Create(context.Background(), &domain.Transaction{
		UserID:   "user-b",
		Amount:   1500,
		Currency: "USD",
		Type:     domain.TransactionTypePayout,
	})
	require.NoError(t, err)

	page, err := repo.ListByUser(context.Background(), "user-a", Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, tx.ID, page.Items[0].ID)

	payouts, err := repo.ListByType(context.Background(), domain.TransactionTypePayout, Pagination{})
	require.NoError(t, err)
	require.Len(t, payouts.Items, 1)
	assert.Equal(t, "user-b", payouts.Items[0].UserID)
}

func TestTransactionStatusChangeRepositionsIndex(t *testing.T) {
	repo := newTransactionRepo(t)

	tx, err := repo.Create(context.Background(), &domain.Transaction{
		UserID:   "user-a",
		Amount:   5000,
		Currency: "USD",
		Type:     domain.TransactionTypePayment,
	})
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(context.Background(), "user-a", tx.ID, domain.TransactionStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, updated.Status)

	pending, err := repo.ListByStatus(context.Background(), domain.TransactionStatusPending, Pagination{})
	require.NoError(t, err)
	assert.Empty(t, pending.Items)

	completed, err := repo.ListByStatus(context.Background(), domain.TransactionStatusCompleted, Pagination{})
	require.NoError(t, err)
	require.Len(t, completed.Items, 1)
	assert.Equal(t, tx.ID, completed.Items[0].ID)
}

func TestTransactionUpdateMissing(t *testing.T) {
	repo := newTransactionRepo(t)

	_, err := repo.UpdateStatus(context.Background(), "user-a", "nope", domain.TransactionStatusFailed)
	assert.True(t, IsNotFound(err))
}
