package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusRejected   ComplaintStatus = "Rejected"
)

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s ComplaintStatus) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// ComplaintCategory enumerates the closed classification categories.
type ComplaintCategory string

const (
	CategoryHardware       ComplaintCategory = "Hardware"
	CategorySoftware       ComplaintCategory = "Software"
	CategoryNetwork        ComplaintCategory = "Network"
	CategoryFacilities     ComplaintCategory = "Facilities"
	CategoryHumanResources ComplaintCategory = "Human Resources"
	CategoryFinance        ComplaintCategory = "Finance"
	CategoryOthers         ComplaintCategory = "Others"
)

// Categories lists the closed category set in display order.
func Categories() []ComplaintCategory {
	return []ComplaintCategory{
		CategoryHardware,
		CategorySoftware,
		CategoryNetwork,
		CategoryFacilities,
		CategoryHumanResources,
		CategoryFinance,
		CategoryOthers,
	}
}

// ValidCategory reports whether c is a member of the category enumeration.
func ValidCategory(c ComplaintCategory) bool {
	for _, candidate := range Categories() {
		if c == candidate {
			return true
		}
	}
	return false
}

// ComplaintPriority enumerates SLA urgency, ordered from low to critical.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "Low"
	PriorityMedium   ComplaintPriority = "Medium"
	PriorityHigh     ComplaintPriority = "High"
	PriorityCritical ComplaintPriority = "Critical"
)

// ValidPriority reports whether p is a member of the priority enumeration.
func ValidPriority(p ComplaintPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Rank returns the sort order of a priority; higher means more urgent.
// Unknown values rank below Low.
func (p ComplaintPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// Complaint is the aggregate for intake submissions. Content fields are
// immutable after creation; only Status and AssignedDepartment may change.
type Complaint struct {
	ID                 string
	ExternalKey        string
	SubmitterID        string
	SubmitterName      string
	Title              string
	Description        string
	Category           ComplaintCategory
	Priority           ComplaintPriority
	Status             ComplaintStatus
	AssignedDepartment string
	Reasoning          string
	ImageRef           *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ClosedAt           *time.Time
}

// ComplaintStats aggregates record counts for the dashboard.
type ComplaintStats struct {
	Total      int
	ByCategory map[ComplaintCategory]int
	ByStatus   map[ComplaintStatus]int
	ByPriority map[ComplaintPriority]int
}
