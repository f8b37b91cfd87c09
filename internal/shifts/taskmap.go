package shifts

import (
	"math/rand"
	"strconv"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
)

// BuildDailyTaskMap assigns tasks to days 1..31: a uniform shuffle of the
// task ids, repeated cyclically when there are fewer tasks than days. The
// result is stored on the shift verbatim and never rebuilt, so later task
// edits do not affect running shifts. Days of a multi-month shift resolve
// by day of month.
func BuildDailyTaskMap(taskIDs []string) (map[string]string, error) {
	if len(taskIDs) == 0 {
		return nil, models.ErrNoTasksAvailable
	}

	shuffled := make([]string, len(taskIDs))
	copy(shuffled, taskIDs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	tasks := make(map[string]string, models.TaskMapDays)
	for day := 1; day <= models.TaskMapDays; day++ {
		tasks[strconv.Itoa(day)] = shuffled[(day-1)%len(shuffled)]
	}
	return tasks, nil
}
