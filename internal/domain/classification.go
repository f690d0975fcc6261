package domain

// Classification is the raw result returned by a classifier backend.
// Fields are unvalidated strings; the policy layer normalizes them into
// the closed enumerations before they reach a Complaint.
type Classification struct {
	Category           string `json:"category"`
	Priority           string `json:"priority"`
	AssignedDepartment string `json:"assignedDepartment"`
	Reasoning          string `json:"reasoning"`
}
