package storage

import (
	"context"
	"fmt"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/google/uuid"
)

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

func (s *Storage) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, wrapGet(err, "task")
	}
	return &task, nil
}

func (s *Storage) ListTasks(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := s.db.WithContext(ctx).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func (s *Storage) GetAllTaskIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.
		WithContext(ctx).
		Model(&models.Task{}).
		Pluck("id", &ids).
		Error; err != nil {
		return nil, fmt.Errorf("getting task ids: %w", err)
	}
	return ids, nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskID string, url, description string) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"url":         url,
			"description": description,
		}).
		Error; err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}
