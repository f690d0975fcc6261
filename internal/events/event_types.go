package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated           EventType = "complaint_created"
	EventComplaintStatusChanged     EventType = "complaint_status_changed"
	EventComplaintDepartmentChanged EventType = "complaint_department_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Category           domain.ComplaintCategory `json:"category"`
	Priority           domain.ComplaintPriority `json:"priority"`
	AssignedDepartment string                   `json:"assigned_department"`
	Title              string                   `json:"title"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintDepartmentChangedPayload payload.
type ComplaintDepartmentChangedPayload struct {
	OldDepartment string `json:"old_department"`
	NewDepartment string `json:"new_department"`
}
