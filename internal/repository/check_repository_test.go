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

func newCheckRepo(t *testing.T) *CheckRepository {
	t.Helper()
	return NewCheckRepository(store.NewMemoryStore(), zap.NewNop())
}

func TestBackgroundCheckReviewQueue(t *testing.T) {
	repo := newCheckRepo(t)

	check, err := repo.CreateBackgroundCheck(context.Background(), &domain.BackgroundCheck{
		UserID:   "user-a",
		Provider: "checkr",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckStatusPending, check.Status)

	queue, err := repo.ListBackgroundChecksByStatus(context.Background(), domain.CheckStatusPending, Pagination{})
	require.NoError(t, err)
	require.Len(t, queue.Items, 1)

	approved, err := repo.UpdateBackgroundCheck(context.Background(), check.ID, domain.BackgroundCheckPatch{
		Status:  ptr(domain.CheckStatusApproved),
		Comment: ptr("clean record"),
	})
	require.NoError(t, err)
	assert.Equal(t, "clean record", approved.Comment)

	queue, err = repo.ListBackgroundChecksByStatus(context.Background(), domain.CheckStatusPending, Pagination{})
	require.NoError(t, err)
	assert.Empty(t, queue.Items)

	done, err := repo.ListBackgroundChecksByStatus(context.Background(), domain.CheckStatusApproved, Pagination{})
	require.NoError(t, err)
	require.Len(t, done.Items, 1)
	assert.Equal(t, check.ID, done.Items[0].ID)
}

func TestDisputeLifecycle(t *testing.T) {
	repo := newCheckRepo(t)

	d, err := repo.CreateDispute(context.Background(), &domain.Dispute{
		UserID:    "user-a",
		ProjectID: "project-1",
		Reason:    "work not delivered",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckStatusPending, d.Status)

	resolved, err := repo.UpdateDispute(context.Background(), "user-a", d.ID, domain.DisputePatch{
		Status: ptr(domain.CheckStatusRejected),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckStatusRejected, resolved.Status)
	assert.Equal(t, "work not delivered", resolved.Reason)
}

func TestVerificationReviewQueue(t *testing.T) {
	repo := newCheckRepo(t)

	v, err := repo.CreateVerification(context.Background(), &domain.Verification{
		UserID:       "user-a",
		DocumentType: "passport",
	})
	require.NoError(t, err)

	queue, err := repo.ListVerificationsByStatus(context.Background(), domain.CheckStatusPending, Pagination{})
	require.NoError(t, err)
	require.Len(t, queue.Items, 1)

	_, err = repo.UpdateVerification(context.Background(), "user-a", v.ID, domain.VerificationPatch{
		Status: ptr(domain.CheckStatusApproved),
	})
	require.NoError(t, err)

	queue, err = repo.ListVerificationsByStatus(context.Background(), domain.CheckStatusPending, Pagination{})
	require.NoError(t, err)
	assert.Empty(t, queue.Items)

	_, err = repo.UpdateVerification(context.Background(), "user-a", "nope", domain.VerificationPatch{
		Status: ptr(domain.CheckStatusRejected),
	})
	assert.True(t, IsNotFound(err))
}
