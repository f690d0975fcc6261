package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload. Image fields are optional: ImageKey is the
// opaque storage reference kept on the record, ImageData/ImageMimeType carry
// the inline payload forwarded to the classifier.
type CreateComplaintRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ImageKey      *string `json:"image_key"`
	ImageMimeType string  `json:"image_mime_type"`
	ImageData     string  `json:"image_data"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

// UpdateDepartmentRequest payload.
type UpdateDepartmentRequest struct {
	Department string `json:"department"`
}

// ComplaintResponse is the full record representation.
type ComplaintResponse struct {
	ID                 string                   `json:"id"`
	ExternalKey        string                   `json:"external_key"`
	SubmitterID        string                   `json:"submitter_id"`
	SubmitterName      string                   `json:"submitter_name"`
	Title              string                   `json:"title"`
	Description        string                   `json:"description"`
	Category           domain.ComplaintCategory `json:"category"`
	Priority           domain.ComplaintPriority `json:"priority"`
	Status             domain.ComplaintStatus   `json:"status"`
	AssignedDepartment string                   `json:"assigned_department"`
	Reasoning          string                   `json:"reasoning"`
	ImageRef           *string                  `json:"image_ref,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
	ClosedAt           *time.Time               `json:"closed_at,omitempty"`
}

// StatsResponse aggregates record counts for the dashboard.
type StatsResponse struct {
	Total      int                              `json:"total"`
	ByCategory map[domain.ComplaintCategory]int `json:"by_category"`
	ByStatus   map[domain.ComplaintStatus]int   `json:"by_status"`
	ByPriority map[domain.ComplaintPriority]int `json:"by_priority"`
}
