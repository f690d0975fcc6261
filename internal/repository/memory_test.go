package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

func newComplaint(submitterID string, status domain.ComplaintStatus, createdAt time.Time) *domain.Complaint {
	return &domain.Complaint{
		ID:                 uuid.NewString(),
		ExternalKey:        "CMP-" + uuid.NewString()[:8],
		SubmitterID:        submitterID,
		SubmitterName:      "Test User",
		Title:              "title",
		Description:        "description",
		Category:           domain.CategoryHardware,
		Priority:           domain.PriorityMedium,
		Status:             status,
		AssignedDepartment: "IT Hardware",
		Reasoning:          "r",
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
}

func TestMemoryComplaintRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryComplaintRepository()

	complaint := newComplaint("u1", domain.StatusPending, time.Now())
	require.NoError(t, repo.Create(ctx, complaint))

	fetched, err := repo.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, complaint.ID, fetched.ID)
	require.Equal(t, domain.StatusPending, fetched.Status)

	// The store owns its copy; mutating the returned record must not leak.
	fetched.Status = domain.StatusResolved
	again, err := repo.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, again.Status)
}

func TestMemoryComplaintRepository_GetMissing(t *testing.T) {
	repo := repository.NewMemoryComplaintRepository()
	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryComplaintRepository_ListIsOrderedAndIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryComplaintRepository()

	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newComplaint("u1", domain.StatusPending, base.Add(time.Duration(i)*time.Second))))
	}

	first, err := repo.List(ctx, repository.ComplaintFilter{})
	require.NoError(t, err)
	require.Len(t, first, 5)
	for i := 1; i < len(first); i++ {
		require.False(t, first[i].CreatedAt.After(first[i-1].CreatedAt), "newest first")
	}

	second, err := repo.List(ctx, repository.ComplaintFilter{})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestMemoryComplaintRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryComplaintRepository()

	mine := newComplaint("u1", domain.StatusPending, time.Now())
	other := newComplaint("u2", domain.StatusInProgress, time.Now())
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, other))

	submitter := "u1"
	listed, err := repo.List(ctx, repository.ComplaintFilter{SubmitterID: &submitter})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, mine.ID, listed[0].ID)

	listed, err = repo.List(ctx, repository.ComplaintFilter{Statuses: []domain.ComplaintStatus{domain.StatusInProgress}})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, other.ID, listed[0].ID)
}

func TestMemoryComplaintRepository_UpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryComplaintRepository()

	complaint := newComplaint("u1", domain.StatusPending, time.Now())
	require.NoError(t, repo.Create(ctx, complaint))

	updated, err := repo.UpdateStatus(ctx, complaint.ID, domain.StatusPending, domain.StatusInProgress, nil)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, updated.Status)

	// Second update against the stale expected status loses the race.
	_, err = repo.UpdateStatus(ctx, complaint.ID, domain.StatusPending, domain.StatusResolved, nil)
	require.ErrorIs(t, err, repository.ErrStaleStatus)
}

func TestMemoryComplaintRepository_ConcurrentStatusUpdates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryComplaintRepository()

	complaint := newComplaint("u1", domain.StatusPending, time.Now())
	require.NoError(t, repo.Create(ctx, complaint))

	targets := []domain.ComplaintStatus{domain.StatusInProgress, domain.StatusResolved}
	results := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.ComplaintStatus) {
			defer wg.Done()
			_, results[i] = repo.UpdateStatus(ctx, complaint.ID, domain.StatusPending, target, nil)
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, repository.ErrStaleStatus)
		}
	}
	require.Equal(t, 1, succeeded, "exactly one racing transition may win")
}

func TestMemoryComplaintRepository_Stats(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryComplaintRepository()

	a := newComplaint("u1", domain.StatusPending, time.Now())
	b := newComplaint("u1", domain.StatusResolved, time.Now())
	b.Category = domain.CategoryNetwork
	b.Priority = domain.PriorityHigh
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, 1, stats.ByCategory[domain.CategoryHardware])
	require.Equal(t, 1, stats.ByCategory[domain.CategoryNetwork])
	require.Equal(t, 1, stats.ByStatus[domain.StatusPending])
	require.Equal(t, 1, stats.ByPriority[domain.PriorityHigh])
}

func TestMemoryUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository()

	user := &domain.User{ID: uuid.NewString(), Name: "A", Email: "a@example.com", Role: domain.RoleCitizen}
	require.NoError(t, repo.Create(ctx, user))

	dupe := &domain.User{ID: uuid.NewString(), Name: "B", Email: "A@Example.com", Role: domain.RoleCitizen}
	require.ErrorIs(t, repo.Create(ctx, dupe), repository.ErrDuplicateEmail)

	byEmail, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)
}
