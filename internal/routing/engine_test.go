package routing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/routing"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func supportActor() *domain.User {
	return &domain.User{ID: "s1", Name: "Sam", Role: domain.RoleSupport}
}

func TestCanTransition_LegalMoves(t *testing.T) {
	engine := routing.NewEngine()
	legal := []struct {
		from, to domain.ComplaintStatus
	}{
		{domain.StatusPending, domain.StatusInProgress},
		{domain.StatusPending, domain.StatusResolved},
		{domain.StatusPending, domain.StatusRejected},
		{domain.StatusInProgress, domain.StatusResolved},
		{domain.StatusInProgress, domain.StatusRejected},
	}
	for _, tc := range legal {
		require.True(t, engine.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransition_IllegalMoves(t *testing.T) {
	engine := routing.NewEngine()
	illegal := []struct {
		from, to domain.ComplaintStatus
	}{
		{domain.StatusInProgress, domain.StatusPending},
		{domain.StatusResolved, domain.StatusPending},
		{domain.StatusResolved, domain.StatusInProgress},
		{domain.StatusRejected, domain.StatusResolved},
		{domain.StatusPending, domain.StatusPending},
		{domain.StatusResolved, domain.StatusResolved},
	}
	for _, tc := range illegal {
		require.False(t, engine.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAuthorizeTransition_CitizenForbidden(t *testing.T) {
	engine := routing.NewEngine()
	citizen := &domain.User{ID: "u1", Role: domain.RoleCitizen}

	err := engine.AuthorizeTransition(citizen, domain.StatusPending, domain.StatusInProgress)
	require.Error(t, err)
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestAuthorizeTransition_SupportAndAdminAllowed(t *testing.T) {
	engine := routing.NewEngine()
	for _, role := range []domain.Role{domain.RoleSupport, domain.RoleAdmin} {
		actor := &domain.User{ID: "a1", Role: role}
		require.NoError(t, engine.AuthorizeTransition(actor, domain.StatusPending, domain.StatusInProgress))
	}
}

func TestAuthorizeTransition_IllegalTransitionForAuthorizedActor(t *testing.T) {
	engine := routing.NewEngine()
	err := engine.AuthorizeTransition(supportActor(), domain.StatusResolved, domain.StatusInProgress)
	require.Error(t, err)
	require.Equal(t, "ILLEGAL_TRANSITION", apperrors.ToDomainError(err).Code)
}

func TestAuthorizeTransition_PermissionCheckedBeforeLegality(t *testing.T) {
	engine := routing.NewEngine()
	citizen := &domain.User{ID: "u1", Role: domain.RoleCitizen}

	// An illegal transition requested by a citizen is still Forbidden.
	err := engine.AuthorizeTransition(citizen, domain.StatusResolved, domain.StatusPending)
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestAuthorizeTransition_NilActor(t *testing.T) {
	engine := routing.NewEngine()
	err := engine.AuthorizeTransition(nil, domain.StatusPending, domain.StatusInProgress)
	require.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestAuthorizeDepartmentOverride(t *testing.T) {
	engine := routing.NewEngine()
	require.NoError(t, engine.AuthorizeDepartmentOverride(&domain.User{ID: "a", Role: domain.RoleAdmin}))
	require.NoError(t, engine.AuthorizeDepartmentOverride(supportActor()))

	err := engine.AuthorizeDepartmentOverride(&domain.User{ID: "u", Role: domain.RoleCitizen})
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}
