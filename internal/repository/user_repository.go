package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// UserRepository persists user profiles at (USER#<id>, PROFILE), with phone
// lookups on GSI1 and telegram-id lookups on GSI2. Accounts are soft
// deleted: Deactivate flips isActive, the row stays.
type UserRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewUserRepository(s store.Store, logger *zap.Logger) *UserRepository {
	return &UserRepository{store: s, logger: logger, now: time.Now}
}

func userKey(userID string) store.Key {
	return store.Key{PK: domain.UserPK(userID), SK: domain.SKProfile}
}

// Create persists a new profile. The phone number must be unique; the
// pre-check plus the conditional put keeps duplicates out without a
// cross-item transaction.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	user.CreatedAt, user.UpdatedAt = now, now
	user.IsActive = true

	if existing, err := r.FindByPhone(ctx, user.Phone); err == nil {
		return nil, NewConflict("user", existing.ID, "phone already registered")
	} else if !IsNotFound(err) {
		return nil, err
	}

	item, err := marshalItem(user, userKey(user.ID), entityUser, user.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("user", user.ID, "already exists")
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	item, err := r.store.Get(ctx, userKey(userID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("user", userID)
		}
		return nil, err
	}
	return unmarshalItem[domain.User](item)
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findByLookup(ctx, domain.GSI1, "PHONE#"+phone, phone)
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID string) (*domain.User, error) {
	return r.findByLookup(ctx, domain.GSI2, "TG#"+telegramID, telegramID)
}

func (r *UserRepository) findByLookup(ctx context.Context, index, partition, id string) (*domain.User, error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     index,
		Partition: partition,
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, NewNotFound("user", id)
	}
	return unmarshalItem[domain.User](result.Items[0])
}

// Update merges the patch and rewrites both lookup-index projections from
// the merged profile.
func (r *UserRepository) Update(ctx context.Context, userID string, patch domain.UserPatch) (*domain.User, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Apply(patch)
	user.UpdatedAt = domain.NowISO(r.now())

	idx := user.IndexKeys()
	item, err := marshalItem(user, userKey(userID), entityUser, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           userKey(userID),
		Set:           updateSet(item),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("user", userID)
		}
		return nil, err
	}
	return unmarshalItem[domain.User](updated)
}

// Deactivate soft-deletes the account.
func (r *UserRepository) Deactivate(ctx context.Context, userID string) error {
	inactive := false
	_, err := r.Update(ctx, userID, domain.UserPatch{IsActive: &inactive})
	return err
}

// ListTelegramUsers walks the table for telegram-linked active users. This
// is a full scan, accepted only because it backs the ops-triggered telegram
// broadcast; it must never serve a request path.
func (r *UserRepository) ListTelegramUsers(ctx context.Context, limit int32) ([]*domain.User, error) {
	items, err := r.store.Scan(ctx, map[string]string{attrEntityType: entityUser}, limit)
	if err != nil {
		return nil, err
	}
	users, err := unmarshalItems[domain.User](items)
	if err != nil {
		return nil, err
	}
	linked := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if u.TelegramID != "" && u.IsActive {
			linked = append(linked, u)
		}
	}
	return linked, nil
}
