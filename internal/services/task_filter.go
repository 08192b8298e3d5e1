package services

import (
	"strings"
	"time"

	"github.com/taskhub-dev/taskhub/internal/models"
)

// applyTaskFilters runs the predicate pipeline over a base task set. Each
// predicate is independent; absent filters pass everything through.
func applyTaskFilters(tasks []models.Task, filter TaskFilterInput, now time.Time) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesTaskFilter(&t, filter, now) {
			result = append(result, t)
		}
	}
	return result
}

func matchesTaskFilter(t *models.Task, filter TaskFilterInput, now time.Time) bool {
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, t.Priority) {
		return false
	}
	if filter.AssignedToID != nil {
		if t.AssignedToID == nil || *t.AssignedToID != *filter.AssignedToID {
			return false
		}
	}
	if filter.CreatorID != nil && t.CreatorID != *filter.CreatorID {
		return false
	}
	// Due window bounds are strict: (from, to).
	if filter.DueDateFrom != nil {
		if t.DueDate == nil || !t.DueDate.After(*filter.DueDateFrom) {
			return false
		}
	}
	if filter.DueDateTo != nil {
		if t.DueDate == nil || !t.DueDate.Before(*filter.DueDateTo) {
			return false
		}
	}
	if search := strings.TrimSpace(filter.SearchText); search != "" {
		lower := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(t.Title), lower) &&
			!strings.Contains(strings.ToLower(t.Description), lower) {
			return false
		}
	}
	if filter.Overdue != nil && *filter.Overdue && !t.IsOverdue(now) {
		return false
	}
	return true
}

func containsStatus(statuses []models.TaskStatus, status models.TaskStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func containsPriority(priorities []models.TaskPriority, priority models.TaskPriority) bool {
	for _, p := range priorities {
		if p == priority {
			return true
		}
	}
	return false
}
