package shifts_test

import (
	"strconv"
	"testing"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/shifts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailyTaskMap_Empty(t *testing.T) {
	_, err := shifts.BuildDailyTaskMap(nil)
	assert.ErrorIs(t, err, models.ErrNoTasksAvailable)
}

func TestBuildDailyTaskMap_CoversAllDays(t *testing.T) {
	ids := []string{"t1", "t2", "t3", "t4", "t5"}

	tasks, err := shifts.BuildDailyTaskMap(ids)
	require.NoError(t, err)
	require.Len(t, tasks, models.TaskMapDays)

	known := map[string]bool{}
	for _, id := range ids {
		known[id] = true
	}
	for day := 1; day <= models.TaskMapDays; day++ {
		id, ok := tasks[strconv.Itoa(day)]
		require.True(t, ok, "day %d missing", day)
		assert.True(t, known[id], "day %d has unknown task %q", day, id)
	}
}

func TestBuildDailyTaskMap_CyclesInFixedRotation(t *testing.T) {
	ids := []string{"t1", "t2", "t3", "t4", "t5"}

	tasks, err := shifts.BuildDailyTaskMap(ids)
	require.NoError(t, err)

	// the first cycle is a permutation of the full task set
	seen := map[string]bool{}
	for day := 1; day <= len(ids); day++ {
		seen[tasks[strconv.Itoa(day)]] = true
	}
	assert.Len(t, seen, len(ids))

	// and every later day repeats the task from one cycle earlier
	for day := len(ids) + 1; day <= models.TaskMapDays; day++ {
		assert.Equal(t, tasks[strconv.Itoa(day-len(ids))], tasks[strconv.Itoa(day)])
	}
}

func TestBuildDailyTaskMap_SingleTask(t *testing.T) {
	tasks, err := shifts.BuildDailyTaskMap([]string{"only"})
	require.NoError(t, err)
	for day := 1; day <= models.TaskMapDays; day++ {
		assert.Equal(t, "only", tasks[strconv.Itoa(day)])
	}
}
