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

func newCalendarRepo(t *testing.T) *CalendarRepository {
	t.Helper()
	return NewCalendarRepository(store.NewMemoryStore(), zap.NewNop())
}

func TestCalendarDayViewOrdersByStartTime(t *testing.T) {
	repo := newCalendarRepo(t)

	for _, start := range []string{"14:00", "09:00", "11:30"} {
		_, err := repo.Create(context.Background(), &domain.CalendarSlot{
			MasterID:  "master-1",
			Type:      domain.ScheduleTypeOnce,
			Date:      "2026-09-01",
			StartTime: start,
			EndTime:   "18:00",
		})
		require.NoError(t, err)
	}

	slots, err := repo.ListByDay(context.Background(), "master-1", "2026-09-01")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "14:00", slots[2].StartTime)
}

func TestCalendarWeeklySlotIndexesByWeekday(t *testing.T) {
	repo := newCalendarRepo(t)

	_, err := repo.Create(context.Background(), &domain.CalendarSlot{
		MasterID:  "master-1",
		Type:      domain.ScheduleTypeWeekly,
		Weekday:   "MONDAY",
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)

	slots, err := repo.ListByDay(context.Background(), "master-1", "MONDAY")
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestCalendarRescheduleMovesDayIndex(t *testing.T) {
	repo := newCalendarRepo(t)

	slot, err := repo.Create(context.Background(), &domain.CalendarSlot{
		MasterID:  "master-1",
		Type:      domain.ScheduleTypeOnce,
		Date:      "2026-09-01",
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)

	_, err = repo.Update(context.Background(), "master-1", slot.ID, domain.CalendarSlotPatch{
		Date: ptr("2026-09-02"),
	})
	require.NoError(t, err)

	old, err := repo.ListByDay(context.Background(), "master-1", "2026-09-01")
	require.NoError(t, err)
	assert.Empty(t, old)

	moved, err := repo.ListByDay(context.Background(), "master-1", "2026-09-02")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, slot.ID, moved[0].ID)
}

func TestCalendarBookAndDelete(t *testing.T) {
	repo := newCalendarRepo(t)

	slot, err := repo.Create(context.Background(), &domain.CalendarSlot{
		MasterID:  "master-1",
		Type:      domain.ScheduleTypeOnce,
		Date:      "2026-09-01",
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)

	booked, err := repo.Update(context.Background(), "master-1", slot.ID, domain.CalendarSlotPatch{
		Booked: ptr(true),
	})
	require.NoError(t, err)
	assert.True(t, booked.Booked)

	require.NoError(t, repo.Delete(context.Background(), "master-1", slot.ID))
	require.NoError(t, repo.Delete(context.Background(), "master-1", slot.ID))

	slots, err := repo.ListByMaster(context.Background(), "master-1")
	require.NoError(t, err)
	assert.Empty(t, slots)
}
