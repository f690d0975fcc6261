package classifier

import (
	"context"
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Stub is a deterministic keyword-based classifier used when no API key is
// configured and in tests. Output depends only on the input text.
type Stub struct{}

// NewStub constructs the stub backend.
func NewStub() *Stub {
	return &Stub{}
}

type keywordRule struct {
	keywords   []string
	category   domain.ComplaintCategory
	department string
}

var stubRules = []keywordRule{
	{[]string{"printer", "laptop", "monitor", "keyboard", "mouse", "hardware"}, domain.CategoryHardware, "IT Hardware"},
	{[]string{"crash", "bug", "software", "application", "install", "license"}, domain.CategorySoftware, "IT Software"},
	{[]string{"wifi", "network", "internet", "vpn", "connection"}, domain.CategoryNetwork, "Network Operations"},
	{[]string{"leak", "light", "elevator", "door", "air conditioning", "facility", "building"}, domain.CategoryFacilities, "Facilities Management"},
	{[]string{"manager", "harassment", "leave", "payroll dispute", "colleague"}, domain.CategoryHumanResources, "Human Resources"},
	{[]string{"invoice", "reimbursement", "expense", "payment", "salary"}, domain.CategoryFinance, "Finance"},
}

var stubUrgencyWords = []string{"urgent", "critical", "immediately", "outage", "down", "blocked"}

// Classify matches the text against keyword rules.
func (s *Stub) Classify(_ context.Context, input Input) (*domain.Classification, error) {
	text := strings.ToLower(input.Text)

	priority := domain.PriorityMedium
	for _, word := range stubUrgencyWords {
		if strings.Contains(text, word) {
			priority = domain.PriorityHigh
			break
		}
	}

	for _, rule := range stubRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return &domain.Classification{
					Category:           string(rule.category),
					Priority:           string(priority),
					AssignedDepartment: rule.department,
					Reasoning:          "Matched keyword: " + keyword,
				}, nil
			}
		}
	}

	return &domain.Classification{
		Category:           string(domain.CategoryOthers),
		Priority:           string(priority),
		AssignedDepartment: "General Support",
		Reasoning:          "No category keyword matched.",
	}, nil
}
