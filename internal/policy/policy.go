// Package policy normalizes raw classifier output into the closed
// enumerations. It is the single choke point guaranteeing that category,
// priority and department values on a record are always valid; no other
// component may bypass it.
package policy

import (
	"strings"

	"github.com/spec-kit/complaint-service/internal/classifier"
	"github.com/spec-kit/complaint-service/internal/domain"
)

const (
	// DefaultDepartment is assigned when the backend suggests none.
	DefaultDepartment = "General Support"
	// DefaultReasoning is recorded when the backend supplies none.
	DefaultReasoning = "Default classification."
)

// Result is a guaranteed-valid classification triple plus reasoning.
type Result struct {
	Category           domain.ComplaintCategory
	Priority           domain.ComplaintPriority
	AssignedDepartment string
	Reasoning          string
}

// Defaults returns the fallback tuple applied when the classifier is
// unavailable or returns malformed data.
func Defaults() Result {
	return Result{
		Category:           domain.CategoryOthers,
		Priority:           domain.PriorityMedium,
		AssignedDepartment: DefaultDepartment,
		Reasoning:          DefaultReasoning,
	}
}

// Normalize validates each field of a raw classification independently,
// replacing out-of-set or blank values with the documented defaults.
func Normalize(raw *domain.Classification) Result {
	if raw == nil {
		return Defaults()
	}

	result := Result{
		Category:           domain.ComplaintCategory(strings.TrimSpace(raw.Category)),
		Priority:           domain.ComplaintPriority(strings.TrimSpace(raw.Priority)),
		AssignedDepartment: strings.TrimSpace(raw.AssignedDepartment),
		Reasoning:          strings.TrimSpace(raw.Reasoning),
	}
	if !domain.ValidCategory(result.Category) {
		result.Category = domain.CategoryOthers
	}
	if !domain.ValidPriority(result.Priority) {
		result.Priority = domain.PriorityMedium
	}
	if result.AssignedDepartment == "" {
		result.AssignedDepartment = DefaultDepartment
	}
	if result.Reasoning == "" {
		result.Reasoning = DefaultReasoning
	}
	return result
}

// Resolve converts a classifier outcome into a usable result. Transient and
// malformed failures are absorbed into the default tuple so that a flaky
// backend degrades intake quality, not availability. Auth failures propagate:
// they indicate a configuration problem, not a per-request one.
func Resolve(raw *domain.Classification, err error) (Result, error) {
	if err == nil {
		return Normalize(raw), nil
	}
	if classifier.IsAuthFailure(err) {
		return Result{}, err
	}
	return Defaults(), nil
}
