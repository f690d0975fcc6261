package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// memoryComplaintRepository is a thread-safe in-memory store. It is the
// default when no Postgres DSN is configured and the fixture for tests.
// The write lock serializes status updates, giving compare-and-set
// semantics per record id.
type memoryComplaintRepository struct {
	mu         sync.RWMutex
	complaints map[string]*domain.Complaint
}

// NewMemoryComplaintRepository initializes an empty store.
func NewMemoryComplaintRepository() ComplaintRepository {
	return &memoryComplaintRepository{
		complaints: make(map[string]*domain.Complaint),
	}
}

func (r *memoryComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *complaint
	r.complaints[complaint.ID] = &stored
	return nil
}

func (r *memoryComplaintRepository) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryComplaintRepository) List(_ context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.RLock()
	complaints := make([]domain.Complaint, 0, len(r.complaints))
	for _, stored := range r.complaints {
		if !matchesFilter(stored, filter) {
			continue
		}
		complaints = append(complaints, *stored)
	}
	r.mu.RUnlock()

	sort.Slice(complaints, func(i, j int) bool {
		if complaints[i].CreatedAt.Equal(complaints[j].CreatedAt) {
			return complaints[i].ID < complaints[j].ID
		}
		return complaints[i].CreatedAt.After(complaints[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(complaints) {
			return []domain.Complaint{}, nil
		}
		complaints = complaints[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(complaints) {
		complaints = complaints[:filter.Limit]
	}
	return complaints, nil
}

func (r *memoryComplaintRepository) UpdateStatus(_ context.Context, id string, from, to domain.ComplaintStatus, closedAt *time.Time) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	if stored.Status != from {
		return nil, ErrStaleStatus
	}
	stored.Status = to
	stored.ClosedAt = closedAt
	stored.UpdatedAt = time.Now()
	copied := *stored
	return &copied, nil
}

func (r *memoryComplaintRepository) UpdateDepartment(_ context.Context, id, department string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	stored.AssignedDepartment = department
	stored.UpdatedAt = time.Now()
	copied := *stored
	return &copied, nil
}

func (r *memoryComplaintRepository) Stats(_ context.Context) (*domain.ComplaintStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &domain.ComplaintStats{
		ByCategory: map[domain.ComplaintCategory]int{},
		ByStatus:   map[domain.ComplaintStatus]int{},
		ByPriority: map[domain.ComplaintPriority]int{},
	}
	for _, stored := range r.complaints {
		stats.ByCategory[stored.Category]++
		stats.ByStatus[stored.Status]++
		stats.ByPriority[stored.Priority]++
		stats.Total++
	}
	return stats, nil
}

func matchesFilter(complaint *domain.Complaint, filter ComplaintFilter) bool {
	if filter.SubmitterID != nil && complaint.SubmitterID != *filter.SubmitterID {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, complaint.Status) {
		return false
	}
	if len(filter.Categories) > 0 && !containsCategory(filter.Categories, complaint.Category) {
		return false
	}
	return true
}

func containsStatus(statuses []domain.ComplaintStatus, status domain.ComplaintStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsCategory(categories []domain.ComplaintCategory, category domain.ComplaintCategory) bool {
	for _, candidate := range categories {
		if candidate == category {
			return true
		}
	}
	return false
}

// memoryUserRepository is a thread-safe in-memory actor store.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMemoryUserRepository initializes an empty store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.users {
		if strings.EqualFold(stored.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, stored := range r.users {
		if strings.EqualFold(stored.Email, email) {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}
