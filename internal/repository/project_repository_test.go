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

func ptr[T any](v T) *T { return &v }

func newProjectRepo(t *testing.T) (*ProjectRepository, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewProjectRepository(s, zap.NewNop()), s
}

func TestProjectCreateWritesMirrors(t *testing.T) {
	repo, _ := newProjectRepo(t)

	project, err := repo.Create(context.Background(), &domain.Project{
		ClientID: "client-1",
		MasterID: "master-1",
		Title:    "Kitchen remodel",
		Budget:   120000,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, domain.ProjectStatusActive, project.Status)

	for _, userID := range []string{"client-1", "master-1"} {
		page, err := repo.ListByUser(context.Background(), userID, Pagination{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, project.ID, page.Items[0].ID)
		assert.Equal(t, "Kitchen remodel", page.Items[0].Title)
	}
}

func TestProjectListByUserNewestFirst(t *testing.T) {
	repo, _ := newProjectRepo(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		tick := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return tick }
		_, err := repo.Create(context.Background(), &domain.Project{
			ClientID: "client-1",
			MasterID: "master-1",
			Title:    title,
		})
		require.NoError(t, err)
	}

	page, err := repo.ListByUser(context.Background(), "client-1", Pagination{Backward: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "third", page.Items[0].Title)
	assert.Equal(t, "first", page.Items[2].Title)
}

func TestProjectUpdateRefreshesMirrors(t *testing.T) {
	repo, _ := newProjectRepo(t)

	project, err := repo.Create(context.Background(), &domain.Project{
		ClientID: "client-1",
		MasterID: "master-1",
		Title:    "Kitchen remodel",
	})
	require.NoError(t, err)

	updated, err := repo.Update(context.Background(), project.ID, domain.ProjectPatch{
		Status: ptr(domain.ProjectStatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusCompleted, updated.Status)
	assert.Equal(t, "Kitchen remodel", updated.Title)

	page, err := repo.ListByUser(context.Background(), "master-1", Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.ProjectStatusCompleted, page.Items[0].Status)
}

func TestProjectUpdateMissing(t *testing.T) {
	repo, _ := newProjectRepo(t)

	_, err := repo.Update(context.Background(), "nope", domain.ProjectPatch{
		Title: ptr("renamed"),
	})
	assert.True(t, IsNotFound(err))
}

func TestMilestoneCreateAndList(t *testing.T) {
	repo, _ := newProjectRepo(t)

	project, err := repo.Create(context.Background(), &domain.Project{
		ClientID: "client-1",
		MasterID: "master-1",
		Title:    "Site build",
	})
	require.NoError(t, err)

	m, err := repo.CreateMilestone(context.Background(), &domain.Milestone{
		ProjectID: project.ID,
		Title:     "Design",
		DueDate:   "2026-04-10",
		Amount:    30000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneStatusPending, m.Status)

	_, err = repo.CreateMilestone(context.Background(), &domain.Milestone{
		ProjectID: project.ID,
		Title:     "Build",
		DueDate:   "2026-05-01",
	})
	require.NoError(t, err)

	milestones, err := repo.ListMilestones(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Len(t, milestones, 2)
}

func TestMilestoneStatusChangeRepositionsIndex(t *testing.T) {
	repo, _ := newProjectRepo(t)

	m, err := repo.CreateMilestone(context.Background(), &domain.Milestone{
		ProjectID: "project-1",
		Title:     "Design",
		DueDate:   "2026-04-10",
	})
	require.NoError(t, err)

	pending, err := repo.ListMilestonesByStatus(context.Background(), domain.MilestoneStatusPending, "", "", Pagination{})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, m.ID, pending.Items[0].ID)

	_, err = repo.UpdateMilestone(context.Background(), "project-1", m.ID, domain.MilestonePatch{
		Status: ptr(domain.MilestoneStatusCompleted),
	})
	require.NoError(t, err)

	pending, err = repo.ListMilestonesByStatus(context.Background(), domain.MilestoneStatusPending, "", "", Pagination{})
	require.NoError(t, err)
	assert.Empty(t, pending.Items)

	completed, err := repo.ListMilestonesByStatus(context.Background(), domain.MilestoneStatusCompleted, "", "", Pagination{})
	require.NoError(t, err)
	require.Len(t, completed.Items, 1)
	assert.Equal(t, m.ID, completed.Items[0].ID)
}

func TestMilestonesByStatusDueRange(t *testing.T) {
	repo, _ := newProjectRepo(t)

	for _, due := range []string{"2026-04-01", "2026-04-15", "2026-05-20"} {
		_, err := repo.CreateMilestone(context.Background(), &domain.Milestone{
			ProjectID: "project-1",
			Title:     "due " + due,
			DueDate:   due,
		})
		require.NoError(t, err)
	}

	page, err := repo.ListMilestonesByStatus(context.Background(), domain.MilestoneStatusPending,
		"2026-04-01", "2026-04-30", Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "2026-04-01", page.Items[0].DueDate)
	assert.Equal(t, "2026-04-15", page.Items[1].DueDate)
}

func TestMilestoneDueDateChangeReordersSweep(t *testing.T) {
	repo, _ := newProjectRepo(t)

	early, err := repo.CreateMilestone(context.Background(), &domain.Milestone{
		ProjectID: "project-1",
		Title:     "early",
		DueDate:   "2026-04-01",
	})
	require.NoError(t, err)
	_, err = repo.CreateMilestone(context.Background(), &domain.Milestone{
		ProjectID: "project-1",
		Title:     "late",
		DueDate:   "2026-04-20",
	})
	require.NoError(t, err)

	_, err = repo.UpdateMilestone(context.Background(), "project-1", early.ID, domain.MilestonePatch{
		DueDate: ptr("2026-04-30"),
	})
	require.NoError(t, err)

	page, err := repo.ListMilestonesByStatus(context.Background(), domain.MilestoneStatusPending, "", "", Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "late", page.Items[0].Title)
	assert.Equal(t, "early", page.Items[1].Title)
}

func TestDeleteMilestoneIsIdempotent(t *testing.T) {
	repo, _ := newProjectRepo(t)

	m, err := repo.CreateMilestone(context.Background(), &domain.Milestone{
		ProjectID: "project-1",
		Title:     "Design",
		DueDate:   "2026-04-10",
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteMilestone(context.Background(), "project-1", m.ID))
	require.NoError(t, repo.DeleteMilestone(context.Background(), "project-1", m.ID))

	_, err = repo.FindMilestone(context.Background(), "project-1", m.ID)
	assert.True(t, IsNotFound(err))
}
