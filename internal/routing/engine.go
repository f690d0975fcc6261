// Package routing enforces the complaint status state machine and the
// role-based permission to drive it.
package routing

import (
	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// allowedTransitions encodes the status state machine. Pending is the sole
// initial state; Resolved and Rejected are terminal.
var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.StatusPending:    {domain.StatusInProgress, domain.StatusResolved, domain.StatusRejected},
	domain.StatusInProgress: {domain.StatusResolved, domain.StatusRejected},
	domain.StatusResolved:   {},
	domain.StatusRejected:   {},
}

// transitionRoles is the permission table for status transitions.
var transitionRoles = map[domain.Role]struct{}{
	domain.RoleSupport: {},
	domain.RoleAdmin:   {},
}

// overrideRoles is the permission table for department overrides.
var overrideRoles = map[domain.Role]struct{}{
	domain.RoleSupport: {},
	domain.RoleAdmin:   {},
}

// Engine decides which actors may request which status transitions.
// It is stateless and safe for concurrent use. Departmental ownership is
// deliberately not checked: any Support actor may act on any record.
type Engine struct{}

// NewEngine constructs the engine.
func NewEngine() *Engine {
	return &Engine{}
}

// CanTransition reports whether the state machine permits from -> to.
// Same-state requests are not permitted.
func (e *Engine) CanTransition(from, to domain.ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// AuthorizeTransition checks both the actor's permission and the legality of
// the requested transition. Permission is checked first so a Citizen always
// receives Forbidden regardless of the target status.
func (e *Engine) AuthorizeTransition(actor *domain.User, from, to domain.ComplaintStatus) error {
	if actor == nil {
		return apperrors.NewUnauthorized("actor required")
	}
	if _, ok := transitionRoles[actor.Role]; !ok {
		return apperrors.NewForbidden("role not permitted to change complaint status")
	}
	if !e.CanTransition(from, to) {
		return apperrors.NewIllegalTransition(string(from), string(to))
	}
	return nil
}

// AuthorizeDepartmentOverride checks permission to reassign a complaint's
// department.
func (e *Engine) AuthorizeDepartmentOverride(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("actor required")
	}
	if _, ok := overrideRoles[actor.Role]; !ok {
		return apperrors.NewForbidden("role not permitted to reassign department")
	}
	return nil
}
