package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

func newOrderRepo(t *testing.T) (*OrderRepository, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewOrderRepository(s, zap.NewNop()), s
}

// createOrderAt pins the repository clock so index sort keys are
// deterministic.
func createOrderAt(t *testing.T, repo *OrderRepository, at time.Time, order *domain.Order) *domain.Order {
	t.Helper()
	repo.now = func() time.Time { return at }
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestOrderCreateDefaultsToOpen(t *testing.T) {
	repo, _ := newOrderRepo(t)

	order, err := repo.Create(context.Background(), &domain.Order{
		ClientID: "client-1",
		Title:    "Fix the sink",
		Category: "plumbing",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderStatusOpen, order.Status)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix the sink", found.Title)
}

func TestOrderListByStatusChronological(t *testing.T) {
	repo, _ := newOrderRepo(t)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	createOrderAt(t, repo, base, &domain.Order{ClientID: "c", Title: "oldest", Category: "plumbing"})
	createOrderAt(t, repo, base.Add(time.Minute), &domain.Order{ClientID: "c", Title: "middle", Category: "electric"})
	createOrderAt(t, repo, base.Add(2*time.Minute), &domain.Order{ClientID: "c", Title: "newest", Category: "plumbing"})

	page, err := repo.ListByStatus(context.Background(), domain.OrderStatusOpen, Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "oldest", page.Items[0].Title)
	assert.Equal(t, "newest", page.Items[2].Title)

	newestFirst, err := repo.ListByStatus(context.Background(), domain.OrderStatusOpen, Pagination{Backward: true})
	require.NoError(t, err)
	require.Len(t, newestFirst.Items, 3)
	assert.Equal(t, "newest", newestFirst.Items[0].Title)
}

func TestOrderListByCategory(t *testing.T) {
	repo, _ := newOrderRepo(t)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	createOrderAt(t, repo, base, &domain.Order{ClientID: "c", Title: "pipes", Category: "plumbing"})
	createOrderAt(t, repo, base.Add(time.Minute), &domain.Order{ClientID: "c", Title: "wiring", Category: "electric"})

	page, err := repo.ListByCategory(context.Background(), "plumbing", Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "pipes", page.Items[0].Title)
}

func TestOrderListByClient(t *testing.T) {
	repo, _ := newOrderRepo(t)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	createOrderAt(t, repo, base, &domain.Order{ClientID: "client-1", Title: "mine", Category: "plumbing"})
	createOrderAt(t, repo, base.Add(time.Minute), &domain.Order{ClientID: "client-2", Title: "theirs", Category: "plumbing"})

	page, err := repo.ListByClient(context.Background(), "client-1", Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "mine", page.Items[0].Title)
}

func TestOrderStatusChangeRepositionsIndex(t *testing.T) {
	repo, _ := newOrderRepo(t)

	order, err := repo.Create(context.Background(), &domain.Order{
		ClientID: "client-1",
		Title:    "Fix the sink",
		Category: "plumbing",
	})
	require.NoError(t, err)

	_, err = repo.Update(context.Background(), order.ID, domain.OrderPatch{
		Status: ptr(domain.OrderStatusMatched),
	})
	require.NoError(t, err)

	open, err := repo.ListByStatus(context.Background(), domain.OrderStatusOpen, Pagination{})
	require.NoError(t, err)
	assert.Empty(t, open.Items)

	matched, err := repo.ListByStatus(context.Background(), domain.OrderStatusMatched, Pagination{})
	require.NoError(t, err)
	require.Len(t, matched.Items, 1)
	assert.Equal(t, order.ID, matched.Items[0].ID)
}

func TestOrderCategoryChangeRepositionsIndex(t *testing.T) {
	repo, _ := newOrderRepo(t)

	order, err := repo.Create(context.Background(), &domain.Order{
		ClientID: "client-1",
		Title:    "Fix the sink",
		Category: "plumbing",
	})
	require.NoError(t, err)

	_, err = repo.Update(context.Background(), order.ID, domain.OrderPatch{
		Category: ptr("renovation"),
	})
	require.NoError(t, err)

	old, err := repo.ListByCategory(context.Background(), "plumbing", Pagination{})
	require.NoError(t, err)
	assert.Empty(t, old.Items)

	moved, err := repo.ListByCategory(context.Background(), "renovation", Pagination{})
	require.NoError(t, err)
	require.Len(t, moved.Items, 1)
	assert.Equal(t, order.ID, moved.Items[0].ID)
}

func TestOrderDeleteRemovesFromListings(t *testing.T) {
	repo, _ := newOrderRepo(t)

	order, err := repo.Create(context.Background(), &domain.Order{
		ClientID: "client-1",
		Title:    "Fix the sink",
		Category: "plumbing",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), order.ID))

	_, err = repo.FindByID(context.Background(), order.ID)
	assert.True(t, IsNotFound(err))

	open, err := repo.ListByStatus(context.Background(), domain.OrderStatusOpen, Pagination{})
	require.NoError(t, err)
	assert.Empty(t, open.Items)
}

func TestApplicationLifecycle(t *testing.T) {
	repo, _ := newOrderRepo(t)

	order, err := repo.Create(context.Background(), &domain.Order{
		ClientID: "client-1",
		Title:    "Fix the sink",
		Category: "plumbing",
	})
	require.NoError(t, err)

	app, err := repo.CreateApplication(context.Background(), &domain.Application{
		OrderID:  order.ID,
		MasterID: "master-1",
		Message:  "can start Monday",
		Price:    5000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)

	apps, err := repo.ListApplications(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "master-1", apps[0].MasterID)

	decided, err := repo.UpdateApplication(context.Background(), order.ID, app.ID, domain.ApplicationPatch{
		Status: ptr(domain.ApplicationStatusAccepted),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusAccepted, decided.Status)
	assert.Equal(t, "can start Monday", decided.Message)
}

func TestApplicationsByMasterSpanOrders(t *testing.T) {
	repo, _ := newOrderRepo(t)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i, orderID := range []string{"order-1", "order-2"} {
		tick := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return tick }
		_, err := repo.CreateApplication(context.Background(), &domain.Application{
			OrderID:  orderID,
			MasterID: "master-1",
		})
		require.NoError(t, err)
	}
	_, err := repo.CreateApplication(context.Background(), &domain.Application{
		OrderID:  "order-1",
		MasterID: "master-2",
	})
	require.NoError(t, err)

	page, err := repo.ListApplicationsByMaster(context.Background(), "master-1", Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "order-1", page.Items[0].OrderID)
	assert.Equal(t, "order-2", page.Items[1].OrderID)
}

func TestUpdateApplicationMissing(t *testing.T) {
	repo, _ := newOrderRepo(t)

	_, err := repo.UpdateApplication(context.Background(), "order-1", "nope", domain.ApplicationPatch{
		Status: ptr(domain.ApplicationStatusRejected),
	})
	assert.True(t, IsNotFound(err))
}
