package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// TransactionRepository persists payment ledger rows at
// (USER#<userId>, TRANSACTION#<id>). GSI1 lists by status, GSI2 by type,
// both across users for reconciliation. Rows are append-mostly: the only
// mutable attribute is status, and the status index is rewritten with it.
type TransactionRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewTransactionRepository(s store.Store, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{store: s, logger: logger, now: time.Now}
}

func transactionKey(userID, transactionID string) store.Key {
	return store.Key{PK: domain.UserPK(userID), SK: domain.TransactionSK(transactionID)}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx.ID == "" {
		tx.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	tx.CreatedAt, tx.UpdatedAt = now, now
	if tx.Status == "" {
		tx.Status = domain.TransactionStatusPending
	}

	item, err := marshalItem(tx, transactionKey(tx.UserID, tx.ID), entityTransaction, tx.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("transaction", tx.ID, "already exists")
		}
		return nil, err
	}
	return tx, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	item, err := r.store.Get(ctx, transactionKey(userID, transactionID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("transaction", transactionID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Transaction](item)
}

// ListByUser returns a user's ledger in sort-key (id) order.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, p Pagination) (Page[*domain.Transaction], error) {
	result, err := r.store.Query(ctx, store.Query{
		Partition:  domain.UserPK(userID),
		SortPrefix: domain.SKPrefixTransaction,
		Limit:      p.EffectiveLimit(),
		Backward:   p.Backward,
		Cursor:     p.Cursor,
	})
	if err != nil {
		return Page[*domain.Transaction]{}, err
	}
	txs, err := unmarshalItems[domain.Transaction](result.Items)
	if err != nil {
		return Page[*domain.Transaction]{}, err
	}
	return Page[*domain.Transaction]{Items: txs, NextCursor: result.NextCursor}, nil
}

func (r *TransactionRepository) ListByStatus(ctx context.Context, status domain.TransactionStatus, p Pagination) (Page[*domain.Transaction], error) {
	return r.listByIndex(ctx, domain.GSI1, "TX_STATUS#"+string(status), p)
}

func (r *TransactionRepository) ListByType(ctx context.Context, t domain.TransactionType, p Pagination) (Page[*domain.Transaction], error) {
	return r.listByIndex(ctx, domain.GSI2, "TX_TYPE#"+string(t), p)
}

func (r *TransactionRepository) listByIndex(ctx context.Context, index, partition string, p Pagination) (Page[*domain.Transaction], error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     index,
		Partition: partition,
		Limit:     p.EffectiveLimit(),
		Backward:  p.Backward,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return Page[*domain.Transaction]{}, err
	}
	txs, err := unmarshalItems[domain.Transaction](result.Items)
	if err != nil {
		return Page[*domain.Transaction]{}, err
	}
	return Page[*domain.Transaction]{Items: txs, NextCursor: result.NextCursor}, nil
}

// UpdateStatus moves the transaction to its new status-index position.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, userID, transactionID string, status domain.TransactionStatus) (*domain.Transaction, error) {
	tx, err := r.FindByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	tx.Apply(domain.TransactionPatch{Status: &status})
	tx.UpdatedAt = domain.NowISO(r.now())

	idx := tx.IndexKeys()
	item, err := marshalItem(tx, transactionKey(userID, transactionID), entityTransaction, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           transactionKey(userID, transactionID),
		Set:           updateSet(item),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("transaction", transactionID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Transaction](updated)
}
