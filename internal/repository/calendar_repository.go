package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// CalendarRepository persists a master's availability slots at
// (USER#<masterId>, CALENDAR#<id>). GSI1 groups slots by schedule day; the
// day component derives from the slot's type, date and weekday, so every
// update rewrites it.
type CalendarRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewCalendarRepository(s store.Store, logger *zap.Logger) *CalendarRepository {
	return &CalendarRepository{store: s, logger: logger, now: time.Now}
}

func calendarKey(masterID, slotID string) store.Key {
	return store.Key{PK: domain.UserPK(masterID), SK: domain.CalendarSlotSK(slotID)}
}

func (r *CalendarRepository) Create(ctx context.Context, slot *domain.CalendarSlot) (*domain.CalendarSlot, error) {
	if slot.ID == "" {
		slot.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	slot.CreatedAt, slot.UpdatedAt = now, now

	item, err := marshalItem(slot, calendarKey(slot.MasterID, slot.ID), entityCalendarSlot, slot.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("calendar slot", slot.ID, "already exists")
		}
		return nil, err
	}
	return slot, nil
}

func (r *CalendarRepository) FindByID(ctx context.Context, masterID, slotID string) (*domain.CalendarSlot, error) {
	item, err := r.store.Get(ctx, calendarKey(masterID, slotID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("calendar slot", slotID)
		}
		return nil, err
	}
	return unmarshalItem[domain.CalendarSlot](item)
}

// ListByMaster returns every slot in the master's calendar partition.
func (r *CalendarRepository) ListByMaster(ctx context.Context, masterID string) ([]*domain.CalendarSlot, error) {
	result, err := r.store.Query(ctx, store.Query{
		Partition:  domain.UserPK(masterID),
		SortPrefix: domain.SKPrefixCalendar,
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems[domain.CalendarSlot](result.Items)
}

// ListByDay serves the day view: slots for one schedule day, ordered by
// start time. Day is a date (YYYY-MM-DD) for one-off slots or a weekday
// name for weekly ones.
func (r *CalendarRepository) ListByDay(ctx context.Context, masterID, day string) ([]*domain.CalendarSlot, error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     domain.GSI1,
		Partition: "SCHEDULE#" + masterID + "#" + day,
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems[domain.CalendarSlot](result.Items)
}

// Update merges the patch and repositions the slot under its new schedule
// day.
func (r *CalendarRepository) Update(ctx context.Context, masterID, slotID string, patch domain.CalendarSlotPatch) (*domain.CalendarSlot, error) {
	slot, err := r.FindByID(ctx, masterID, slotID)
	if err != nil {
		return nil, err
	}
	slot.Apply(patch)
	slot.UpdatedAt = domain.NowISO(r.now())

	idx := slot.IndexKeys()
	item, err := marshalItem(slot, calendarKey(masterID, slotID), entityCalendarSlot, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           calendarKey(masterID, slotID),
		Set:           updateSet(item),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("calendar slot", slotID)
		}
		return nil, err
	}
	return unmarshalItem[domain.CalendarSlot](updated)
}

// Delete hard-deletes a slot; absent rows are not an error.
func (r *CalendarRepository) Delete(ctx context.Context, masterID, slotID string) error {
	return r.store.Delete(ctx, calendarKey(masterID, slotID))
}
