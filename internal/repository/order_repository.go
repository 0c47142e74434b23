package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// OrderRepository persists orders at (ORDER#<id>, METADATA) and their
// applications at (ORDER#<orderId>, APPLICATION#<id>). Status listings use
// GSI1, category listings GSI2, a client's own orders GSI3, a master's
// applications GSI1.
type OrderRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderRepository(s store.Store, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{store: s, logger: logger, now: time.Now}
}

func orderKey(orderID string) store.Key {
	return store.Key{PK: domain.OrderPK(orderID), SK: domain.SKMetadata}
}

func applicationKey(orderID, applicationID string) store.Key {
	return store.Key{PK: domain.OrderPK(orderID), SK: domain.ApplicationSK(applicationID)}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.ID == "" {
		order.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	order.CreatedAt, order.UpdatedAt = now, now
	if order.Status == "" {
		order.Status = domain.OrderStatusOpen
	}

	item, err := marshalItem(order, orderKey(order.ID), entityOrder, order.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("order", order.ID, "already exists")
		}
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	item, err := r.store.Get(ctx, orderKey(orderID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("order", orderID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Order](item)
}

// ListByStatus pages open/matched/... orders newest-first when Backward is
// set.
func (r *OrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus, p Pagination) (Page[*domain.Order], error) {
	return r.list(ctx, domain.GSI1, "ORDER_STATUS#"+string(status), p)
}

func (r *OrderRepository) ListByCategory(ctx context.Context, category string, p Pagination) (Page[*domain.Order], error) {
	return r.list(ctx, domain.GSI2, "ORDER_CATEGORY#"+category, p)
}

// ListByClient returns a client's own orders across statuses.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID string, p Pagination) (Page[*domain.Order], error) {
	return r.list(ctx, domain.GSI3, "CLIENT#"+clientID, p)
}

func (r *OrderRepository) list(ctx context.Context, index, partition string, p Pagination) (Page[*domain.Order], error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     index,
		Partition: partition,
		Limit:     p.EffectiveLimit(),
		Backward:  p.Backward,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return Page[*domain.Order]{}, err
	}
	orders, err := unmarshalItems[domain.Order](result.Items)
	if err != nil {
		return Page[*domain.Order]{}, err
	}
	return Page[*domain.Order]{Items: orders, NextCursor: result.NextCursor}, nil
}

// Update merges the patch and repositions the order under its new status
// and category index keys.
func (r *OrderRepository) Update(ctx context.Context, orderID string, patch domain.OrderPatch) (*domain.Order, error) {
	order, err := r.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Apply(patch)
	order.UpdatedAt = domain.NowISO(r.now())

	idx := order.IndexKeys()
	item, err := marshalItem(order, orderKey(orderID), entityOrder, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           orderKey(orderID),
		Set:           updateSet(item),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("order", orderID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Order](updated)
}

// Delete hard-deletes the order row. Applications under the partition are
// left for the cleanup sweep; they are unreachable once the order is gone.
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	return r.store.Delete(ctx, orderKey(orderID))
}

// CreateApplication stores a master's application in the order's partition.
func (r *OrderRepository) CreateApplication(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if app.ID == "" {
		app.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	app.CreatedAt, app.UpdatedAt = now, now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}

	item, err := marshalItem(app, applicationKey(app.OrderID, app.ID), entityApplication, app.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("application", app.ID, "already exists")
		}
		return nil, err
	}
	return app, nil
}

// ListApplications returns every application on an order, oldest first.
func (r *OrderRepository) ListApplications(ctx context.Context, orderID string) ([]*domain.Application, error) {
	result, err := r.store.Query(ctx, store.Query{
		Partition:  domain.OrderPK(orderID),
		SortPrefix: domain.SKPrefixApplication,
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems[domain.Application](result.Items)
}

// ListApplicationsByMaster returns a master's applications across orders.
func (r *OrderRepository) ListApplicationsByMaster(ctx context.Context, masterID string, p Pagination) (Page[*domain.Application], error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     domain.GSI1,
		Partition: "MASTER#" + masterID,
		Limit:     p.EffectiveLimit(),
		Backward:  p.Backward,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return Page[*domain.Application]{}, err
	}
	apps, err := unmarshalItems[domain.Application](result.Items)
	if err != nil {
		return Page[*domain.Application]{}, err
	}
	return Page[*domain.Application]{Items: apps, NextCursor: result.NextCursor}, nil
}

func (r *OrderRepository) UpdateApplication(ctx context.Context, orderID, applicationID string, patch domain.ApplicationPatch) (*domain.Application, error) {
	key := applicationKey(orderID, applicationID)
	item, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("application", applicationID)
		}
		return nil, err
	}
	app, err := unmarshalItem[domain.Application](item)
	if err != nil {
		return nil, err
	}
	app.Apply(patch)
	app.UpdatedAt = domain.NowISO(r.now())

	idx := app.IndexKeys()
	merged, err := marshalItem(app, key, entityApplication, idx)
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
			return nil, NewNotFound("application", applicationID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Application](updated)
}
