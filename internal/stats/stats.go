// Package stats computes derived task metrics. Compute is a pure function of
// a task collection, a reference time and the subject user; callers decide
// the scope of the collection before invoking it.
package stats

import (
	"math"
	"time"

	"github.com/taskhub-dev/taskhub/internal/models"
)

// Statistics holds the aggregate counts and rates for a task collection.
type Statistics struct {
	TotalTasks int64 `json:"total_tasks"`

	TodoCount       int64 `json:"todo_count"`
	InProgressCount int64 `json:"in_progress_count"`
	InReviewCount   int64 `json:"in_review_count"`
	DoneCount       int64 `json:"done_count"`
	CancelledCount  int64 `json:"cancelled_count"`

	LowPriorityCount    int64 `json:"low_priority_count"`
	MediumPriorityCount int64 `json:"medium_priority_count"`
	HighPriorityCount   int64 `json:"high_priority_count"`
	UrgentPriorityCount int64 `json:"urgent_priority_count"`

	OverdueCount     int64 `json:"overdue_count"`
	DueTodayCount    int64 `json:"due_today_count"`
	DueThisWeekCount int64 `json:"due_this_week_count"`

	UnassignedCount  int64 `json:"unassigned_count"`
	AssignedToMe     int64 `json:"assigned_to_me_count"`
	CreatedByMe      int64 `json:"created_by_me_count"`

	CompletionRate       float64 `json:"completion_rate"`
	OnTimeCompletionRate float64 `json:"on_time_completion_rate"`

	TotalEstimatedHours float64 `json:"total_estimated_hours"`
	TotalActualHours    float64 `json:"total_actual_hours"`
}

// Compute aggregates the given tasks as of now. subjectID drives the
// assigned-to-me and created-by-me counts.
func Compute(tasks []models.Task, now time.Time, subjectID uint64) Statistics {
	var s Statistics
	s.TotalTasks = int64(len(tasks))

	var completedOnTime int64

	for i := range tasks {
		t := &tasks[i]

		switch t.Status {
		case models.TaskStatusTodo:
			s.TodoCount++
		case models.TaskStatusInProgress:
			s.InProgressCount++
		case models.TaskStatusInReview:
			s.InReviewCount++
		case models.TaskStatusDone:
			s.DoneCount++
		case models.TaskStatusCancelled:
			s.CancelledCount++
		}

		switch t.Priority {
		case models.TaskPriorityLow:
			s.LowPriorityCount++
		case models.TaskPriorityMedium:
			s.MediumPriorityCount++
		case models.TaskPriorityHigh:
			s.HighPriorityCount++
		case models.TaskPriorityUrgent:
			s.UrgentPriorityCount++
		}

		if t.IsOverdue(now) {
			s.OverdueCount++
		}
		if t.DueDate != nil && !t.Status.IsTerminal() {
			if sameDay(*t.DueDate, now) {
				s.DueTodayCount++
			}
			if t.DueDate.After(now) && t.DueDate.Before(now.AddDate(0, 0, 7)) {
				s.DueThisWeekCount++
			}
		}

		if t.AssignedToID == nil {
			s.UnassignedCount++
		} else if *t.AssignedToID == subjectID {
			s.AssignedToMe++
		}
		if t.CreatorID == subjectID {
			s.CreatedByMe++
		}

		// Done before the due date counts as on time; tasks without a due
		// date are never "on time" but still count toward DoneCount.
		if t.Status == models.TaskStatusDone &&
			t.CompletedAt != nil && t.DueDate != nil &&
			t.CompletedAt.Before(*t.DueDate) {
			completedOnTime++
		}

		if t.EstimatedHours != nil {
			s.TotalEstimatedHours += *t.EstimatedHours
		}
		if t.ActualHours != nil {
			s.TotalActualHours += *t.ActualHours
		}
	}

	if s.TotalTasks > 0 {
		s.CompletionRate = Round2(float64(s.DoneCount) * 100.0 / float64(s.TotalTasks))
	}
	if s.DoneCount > 0 {
		s.OnTimeCompletionRate = Round2(float64(completedOnTime) * 100.0 / float64(s.DoneCount))
	}

	return s
}

// Round2 rounds half-up to two decimal places.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
