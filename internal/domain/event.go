package domain

type TaskEventType string

const (
	TaskCreated TaskEventType = "task.created"
	TaskUpdated TaskEventType = "task.updated"
	TaskDeleted TaskEventType = "task.deleted"
)

// TaskEvent describes a committed change to one task.
type TaskEvent struct {
	Type    TaskEventType `json:"type"`
	OwnerID int64         `json:"-"`
	Task    Task          `json:"task"`
}

// AuditAction maps the event to the audit log action name.
func (e TaskEvent) AuditAction() string {
	switch e.Type {
	case TaskCreated:
		return AuditActionTaskCreate
	case TaskDeleted:
		return AuditActionTaskDelete
	default:
		return AuditActionTaskUpdate
	}
}
