package model

import "time"

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus validates a raw status string before any mutation happens.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

// ApplyStatus transitions the task to the given status and keeps the
// timestamps consistent with it:
//   - in-progress sets StartedAt once; repeating it does not overwrite
//   - completed sets CompletedAt (overwriting on repeat) and preserves StartedAt
//   - pending is an explicit reset and clears both timestamps
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) {
	t.Status = status

	switch status {
	case StatusInProgress:
		if t.StartedAt == nil {
			ts := now
			t.StartedAt = &ts
		}
	case StatusCompleted:
		ts := now
		t.CompletedAt = &ts
	case StatusPending:
		t.StartedAt = nil
		t.CompletedAt = nil
	}
}
