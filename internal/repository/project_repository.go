package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// ProjectRepository persists the canonical project row at
// (PROJECT#<id>, METADATA), mirror copies under both parties'
// (USER#<id>, PROJECT#<createdAt>#<id>), and milestones at
// (PROJECT#<id>, MILESTONE#<id>).
//
// Mirror writes are a best-effort saga: the canonical row is written first,
// then each mirror sequentially. A mirror failure after the canonical write
// is logged as a consistency warning with the full key context; the repair
// tool re-derives mirrors from the canonical row, so no inline retry is
// attempted here.
type ProjectRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewProjectRepository(s store.Store, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{store: s, logger: logger, now: time.Now}
}

func projectKey(projectID string) store.Key {
	return store.Key{PK: domain.ProjectPK(projectID), SK: domain.SKMetadata}
}

func milestoneKey(projectID, milestoneID string) store.Key {
	return store.Key{PK: domain.ProjectPK(projectID), SK: domain.MilestoneSK(milestoneID)}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project.ID == "" {
		project.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	project.CreatedAt, project.UpdatedAt = now, now
	if project.Status == "" {
		project.Status = domain.ProjectStatusActive
	}

	item, err := marshalItem(project, projectKey(project.ID), entityProject, project.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("project", project.ID, "already exists")
		}
		return nil, err
	}

	r.writeMirrors(ctx, project)
	return project, nil
}

// writeMirrors refreshes the denormalized copies under each party. Failures
// are logged, not returned: the canonical row is already committed.
func (r *ProjectRepository) writeMirrors(ctx context.Context, project *domain.Project) {
	for _, ownerID := range project.MirrorOwners() {
		key := store.Key{
			PK: domain.UserPK(ownerID),
			SK: domain.ProjectMirrorSK(project.CreatedAt, project.ID),
		}
		item, err := marshalItem(project, key, entityProjectMirror, domain.IndexKeys{})
		if err != nil {
			r.logger.Warn("project mirror marshal failed",
				zap.String("projectId", project.ID),
				zap.String("ownerId", ownerID),
				zap.Error(err))
			continue
		}
		if err := r.store.Put(ctx, item, store.PutOptions{}); err != nil {
			r.logger.Warn("project mirror write failed, mirror stale until repair",
				zap.String("projectId", project.ID),
				zap.String("ownerId", ownerID),
				zap.String("mirrorSk", key.SK),
				zap.Error(err))
		}
	}
}

func (r *ProjectRepository) FindByID(ctx context.Context, projectID string) (*domain.Project, error) {
	item, err := r.store.Get(ctx, projectKey(projectID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("project", projectID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Project](item)
}

// ListByUser reads the mirror rows in a user's partition, newest first when
// Backward is set.
func (r *ProjectRepository) ListByUser(ctx context.Context, userID string, p Pagination) (Page[*domain.Project], error) {
	result, err := r.store.Query(ctx, store.Query{
		Partition:  domain.UserPK(userID),
		SortPrefix: domain.SKPrefixProject,
		Limit:      p.EffectiveLimit(),
		Backward:   p.Backward,
		Cursor:     p.Cursor,
	})
	if err != nil {
		return Page[*domain.Project]{}, err
	}
	projects, err := unmarshalItems[domain.Project](result.Items)
	if err != nil {
		return Page[*domain.Project]{}, err
	}
	return Page[*domain.Project]{Items: projects, NextCursor: result.NextCursor}, nil
}

// Update merges the patch into the canonical row, then refreshes both
// mirrors from it.
func (r *ProjectRepository) Update(ctx context.Context, projectID string, patch domain.ProjectPatch) (*domain.Project, error) {
	project, err := r.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project.Apply(patch)
	project.UpdatedAt = domain.NowISO(r.now())

	idx := project.IndexKeys()
	item, err := marshalItem(project, projectKey(projectID), entityProject, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           projectKey(projectID),
		Set:           updateSet(item),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("project", projectID)
		}
		return nil, err
	}
	merged, err := unmarshalItem[domain.Project](updated)
	if err != nil {
		return nil, err
	}

	r.writeMirrors(ctx, merged)
	return merged, nil
}

func (r *ProjectRepository) CreateMilestone(ctx context.Context, m *domain.Milestone) (*domain.Milestone, error) {
	if m.ID == "" {
		m.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	m.CreatedAt, m.UpdatedAt = now, now
	if m.Status == "" {
		m.Status = domain.MilestoneStatusPending
	}

	item, err := marshalItem(m, milestoneKey(m.ProjectID, m.ID), entityMilestone, m.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("milestone", m.ID, "already exists")
		}
		return nil, err
	}
	return m, nil
}

func (r *ProjectRepository) FindMilestone(ctx context.Context, projectID, milestoneID string) (*domain.Milestone, error) {
	item, err := r.store.Get(ctx, milestoneKey(projectID, milestoneID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("milestone", milestoneID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Milestone](item)
}

// ListMilestones returns a project's milestones in sort-key order.
func (r *ProjectRepository) ListMilestones(ctx context.Context, projectID string) ([]*domain.Milestone, error) {
	result, err := r.store.Query(ctx, store.Query{
		Partition:  domain.ProjectPK(projectID),
		SortPrefix: domain.SKPrefixMilestone,
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems[domain.Milestone](result.Items)
}

// ListMilestonesByStatus serves the reminder sweep: all milestones in the
// given status ordered by due date, optionally bounded to a due-date range.
func (r *ProjectRepository) ListMilestonesByStatus(ctx context.Context, status domain.MilestoneStatus, dueFrom, dueTo string, p Pagination) (Page[*domain.Milestone], error) {
	q := store.Query{
		Index:     domain.GSI1,
		Partition: "MILESTONE_STATUS#" + string(status),
		Limit:     p.EffectiveLimit(),
		Backward:  p.Backward,
		Cursor:    p.Cursor,
	}
	if dueFrom != "" && dueTo != "" {
		// "#" < "$" keeps the high bound inclusive across id suffixes.
		q.SortLow = "DUE#" + dueFrom
		q.SortHigh = "DUE#" + dueTo + "$"
	}
	result, err := r.store.Query(ctx, q)
	if err != nil {
		return Page[*domain.Milestone]{}, err
	}
	milestones, err := unmarshalItems[domain.Milestone](result.Items)
	if err != nil {
		return Page[*domain.Milestone]{}, err
	}
	return Page[*domain.Milestone]{Items: milestones, NextCursor: result.NextCursor}, nil
}

// UpdateMilestone merges the patch and repositions the milestone under its
// new status/due-date index key. Status and due date both feed GSI1, so the
// rewrite happens on every update, not just status changes.
func (r *ProjectRepository) UpdateMilestone(ctx context.Context, projectID, milestoneID string, patch domain.MilestonePatch) (*domain.Milestone, error) {
	m, err := r.FindMilestone(ctx, projectID, milestoneID)
	if err != nil {
		return nil, err
	}
	m.Apply(patch)
	m.UpdatedAt = domain.NowISO(r.now())

	idx := m.IndexKeys()
	item, err := marshalItem(m, milestoneKey(projectID, milestoneID), entityMilestone, idx)
	if err != nil {
		return nil, err
	}
	updated, err := r.store.Update(ctx, store.Update{
		Key:           milestoneKey(projectID, milestoneID),
		Set:           updateSet(item),
		Remove:        staleIndexAttrs(idx),
		RequireExists: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("milestone", milestoneID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Milestone](updated)
}

// DeleteMilestone hard-deletes; deleting an absent milestone is not an
// error, so the operation is retry-safe.
func (r *ProjectRepository) DeleteMilestone(ctx context.Context, projectID, milestoneID string) error {
	return r.store.Delete(ctx, milestoneKey(projectID, milestoneID))
}
