// Package notify computes due-soon notifications from a point-in-time
// task snapshot. The evaluation is pure: same snapshot and same reference
// time always produce the same result, and nothing is persisted.
package notify

import (
	"fmt"
	"time"

	"github.com/tasknest/task-manager-api/internal/model"
)

// Window returns the due-soon span [today, dayAfterTomorrow) for the
// given reference time, normalized to local midnight.
func Window(now time.Time) (from, to time.Time) {
	today := Midnight(now)
	return today, today.AddDate(0, 0, 2)
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Evaluate returns one notification per task due today or tomorrow
// relative to now. Only COMPLETED is excluded; a CANCELLED task with a
// near due date still notifies, matching observed product behavior.
// Tasks without a due date are never eligible.
func Evaluate(tasks []model.Task, now time.Time) []model.Notification {
	today, dayAfterTomorrow := Window(now)
	tomorrow := today.AddDate(0, 0, 1)

	notifications := make([]model.Notification, 0)
	for _, t := range tasks {
		if t.Status == model.StatusCompleted || t.DueDate == nil {
			continue
		}

		due := Midnight(t.DueDate.In(now.Location()))
		if due.Before(today) || !due.Before(dayAfterTomorrow) {
			continue
		}

		// Compare calendar dates, not instants, so a DST shift or odd
		// zone offset cannot move a task across the day boundary.
		var message string
		switch due.Format(time.DateOnly) {
		case today.Format(time.DateOnly):
			message = fmt.Sprintf(`The task "%s" is due today`, t.Title)
		case tomorrow.Format(time.DateOnly):
			message = fmt.Sprintf(`The task "%s" is due tomorrow`, t.Title)
		default:
			continue
		}

		notifications = append(notifications, model.Notification{
			ID:      t.ID,
			TaskID:  t.ID,
			Message: message,
			DueDate: *t.DueDate,
		})
	}
	return notifications
}
