package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// CheckRepository persists the trust-and-safety rows: background checks at
// (BACKGROUND_CHECK#<id>, METADATA), disputes at (USER#<id>, DISPUTE#<id>)
// and verifications at (USER#<id>, VERIFICATION#<id>). All three project a
// status index on GSI1 for the review queue.
type CheckRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewCheckRepository(s store.Store, logger *zap.Logger) *CheckRepository {
	return &CheckRepository{store: s, logger: logger, now: time.Now}
}

func backgroundCheckKey(checkID string) store.Key {
	return store.Key{PK: domain.BackgroundCheckPK(checkID), SK: domain.SKMetadata}
}

func disputeKey(userID, disputeID string) store.Key {
	return store.Key{PK: domain.UserPK(userID), SK: domain.DisputeSK(disputeID)}
}

func verificationKey(userID, verificationID string) store.Key {
	return store.Key{PK: domain.UserPK(userID), SK: domain.VerificationSK(verificationID)}
}

func (r *CheckRepository) CreateBackgroundCheck(ctx context.Context, check *domain.BackgroundCheck) (*domain.BackgroundCheck, error) {
	if check.ID == "" {
		check.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	check.CreatedAt, check.UpdatedAt = now, now
	if check.Status == "" {
		check.Status = domain.CheckStatusPending
	}

	item, err := marshalItem(check, backgroundCheckKey(check.ID), entityBackgroundCheck, check.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("background check", check.ID, "already exists")
		}
		return nil, err
	}
	return check, nil
}

func (r *CheckRepository) FindBackgroundCheck(ctx context.Context, checkID string) (*domain.BackgroundCheck, error) {
	item, err := r.store.Get(ctx, backgroundCheckKey(checkID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("background check", checkID)
		}
		return nil, err
	}
	return unmarshalItem[domain.BackgroundCheck](item)
}

// ListBackgroundChecksByStatus feeds the review queue, oldest first.
func (r *CheckRepository) ListBackgroundChecksByStatus(ctx context.Context, status domain.CheckStatus, p Pagination) (Page[*domain.BackgroundCheck], error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     domain.GSI1,
		Partition: "CHECK_STATUS#" + string(status),
		Limit:     p.EffectiveLimit(),
		Backward:  p.Backward,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return Page[*domain.BackgroundCheck]{}, err
	}
	checks, err := unmarshalItems[domain.BackgroundCheck](result.Items)
	if err != nil {
		return Page[*domain.BackgroundCheck]{}, err
	}
	return Page[*domain.BackgroundCheck]{Items: checks, NextCursor: result.NextCursor}, nil
}

// UpdateBackgroundCheck merges the patch and repositions the row in the
// status index.
func (r *CheckRepository) UpdateBackgroundCheck(ctx context.Context, checkID string, patch domain.BackgroundCheckPatch) (*domain.BackgroundCheck, error) {
	check, err := r.FindBackgroundCheck(ctx, checkID)
	if err != nil {
		return nil, err
	}
	check.Apply(patch)
	check.UpdatedAt = domain.NowISO(r.now())

	idx := check.IndexKeys()
	item, err := marshalItem(check, backgroundCheckKey(checkID), entityBackgroundCheck, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           backgroundCheckKey(checkID),
		Set:           updateSet(item),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("background check", checkID)
		}
		return nil, err
	}
	return unmarshalItem[domain.BackgroundCheck](updated)
}

func (r *CheckRepository) CreateDispute(ctx context.Context, d *domain.Dispute) (*domain.Dispute, error) {
	if d.ID == "" {
		d.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	d.CreatedAt, d.UpdatedAt = now, now
	if d.Status == "" {
		d.Status = domain.CheckStatusPending
	}

	item, err := marshalItem(d, disputeKey(d.UserID, d.ID), entityDispute, d.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("dispute", d.ID, "already exists")
		}
		return nil, err
	}
	return d, nil
}

func (r *CheckRepository) UpdateDispute(ctx context.Context, userID, disputeID string, patch domain.DisputePatch) (*domain.Dispute, error) {
	key := disputeKey(userID, disputeID)
	item, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("dispute", disputeID)
		}
		return nil, err
	}
	d, err := unmarshalItem[domain.Dispute](item)
	if err != nil {
		return nil, err
	}
	d.Apply(patch)
	d.UpdatedAt = domain.NowISO(r.now())

	idx := d.IndexKeys()
	merged, err := marshalItem(d, key, entityDispute, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           key,
		Set:           updateSet(merged),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("dispute", disputeID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Dispute](updated)
}

func (r *CheckRepository) CreateVerification(ctx context.Context, v *domain.Verification) (*domain.Verification, error) {
	if v.ID == "" {
		v.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	v.CreatedAt, v.UpdatedAt = now, now
	if v.Status == "" {
		v.Status = domain.CheckStatusPending
	}

	item, err := marshalItem(v, verificationKey(v.UserID, v.ID), entityVerification, v.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("verification", v.ID, "already exists")
		}
		return nil, err
	}
	return v, nil
}

// ListVerificationsByStatus feeds the document review queue.
func (r *CheckRepository) ListVerificationsByStatus(ctx context.Context, status domain.CheckStatus, p Pagination) (Page[*domain.Verification], error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     domain.GSI1,
		Partition: "VERIFICATION_STATUS#" + string(status),
		Limit:     p.EffectiveLimit(),
		Backward:  p.Backward,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return Page[*domain.Verification]{}, err
	}
	vs, err := unmarshalItems[domain.Verification](result.Items)
	if err != nil {
		return Page[*domain.Verification]{}, err
	}
	return Page[*domain.Verification]{Items: vs, NextCursor: result.NextCursor}, nil
}

// UpdateVerification repositions the row in the status index.
func (r *CheckRepository) UpdateVerification(ctx context.Context, userID, verificationID string, patch domain.VerificationPatch) (*domain.Verification, error) {
	key := verificationKey(userID, verificationID)
	item, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("verification", verificationID)
		}
		return nil, err
	}
	v, err := unmarshalItem[domain.Verification](item)
	if err != nil {
		return nil, err
	}
	v.Apply(patch)
	v.UpdatedAt = domain.NowISO(r.now())

	idx := v.IndexKeys()
	merged, err := marshalItem(v, key, entityVerification, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           key,
		Set:           updateSet(merged),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("verification", verificationID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Verification](updated)
}
