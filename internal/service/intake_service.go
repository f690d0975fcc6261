package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/classifier"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/policy"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/routing"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// IntakeService is the composition root of the complaint pipeline: it
// accepts raw submissions, runs them through the classifier and policy
// layers, and owns all record mutations via the routing engine.
type IntakeService struct {
	complaints repository.ComplaintRepository
	backend    classifier.Classifier
	router     *routing.Engine
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Classifier    classifier.Classifier
	Router        *routing.Engine
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// SubmitInput describes a raw complaint submission. ImageKey is the opaque
// reference persisted on the record; Image carries the inline payload
// forwarded to the classifier when present.
type SubmitInput struct {
	Title       string
	Description string
	ImageKey    *string
	Image       *classifier.Image
}

// ListFilter describes listing parameters for callers.
type ListFilter struct {
	Statuses   []domain.ComplaintStatus
	Categories []domain.ComplaintCategory
	Limit      int
	Offset     int
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		complaints: deps.ComplaintRepo,
		backend:    deps.Classifier,
		router:     deps.Router,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Submit validates, classifies and stores a new complaint. Classifier
// outages never fail the submission; only a backend auth/config failure
// aborts, surfaced as CLASSIFICATION_UNAVAILABLE.
func (s *IntakeService) Submit(ctx context.Context, actor *domain.User, input SubmitInput) (*domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	raw, err := s.backend.Classify(ctx, classifier.Input{
		Text:  title + "\n\n" + description,
		Image: input.Image,
	})
	result, err := policy.Resolve(raw, err)
	if err != nil {
		s.logger.Error("classifier auth failure", zap.Error(err))
		return nil, apperrors.NewClassificationUnavailable(err)
	}

	now := time.Now()
	complaint := &domain.Complaint{
		ID:                 uuid.NewString(),
		ExternalKey:        generateComplaintKey(),
		SubmitterID:        actor.ID,
		SubmitterName:      actor.Name,
		Title:              title,
		Description:        description,
		Category:           result.Category,
		Priority:           result.Priority,
		Status:             domain.StatusPending,
		AssignedDepartment: result.AssignedDepartment,
		Reasoning:          result.Reasoning,
		ImageRef:           input.ImageKey,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       eventActor(actor),
		Payload: events.ComplaintCreatedPayload{
			Category:           complaint.Category,
			Priority:           complaint.Priority,
			AssignedDepartment: complaint.AssignedDepartment,
			Title:              complaint.Title,
		},
	})
	return complaint, nil
}

// UpdateStatus transitions a complaint through the routing engine. The store
// applies the transition as a compare-and-set on the observed status, so two
// racing requests cannot both succeed.
func (s *IntakeService) UpdateStatus(ctx context.Context, actor *domain.User, id string, newStatus domain.ComplaintStatus) (*domain.Complaint, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(newStatus)})
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.router.AuthorizeTransition(actor, complaint.Status, newStatus); err != nil {
		return nil, err
	}

	var closedAt *time.Time
	if newStatus.Terminal() {
		now := time.Now()
		closedAt = &now
	}

	updated, err := s.complaints.UpdateStatus(ctx, id, complaint.Status, newStatus, closedAt)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.NewConflict("complaint status changed concurrently", map[string]any{"complaint_id": id})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: updated.ID,
		Actor:       eventActor(actor),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: complaint.Status,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// OverrideDepartment reassigns a complaint's department by an authorized actor.
func (s *IntakeService) OverrideDepartment(ctx context.Context, actor *domain.User, id, department string) (*domain.Complaint, error) {
	if err := s.router.AuthorizeDepartmentOverride(actor); err != nil {
		return nil, err
	}
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, apperrors.NewValidationError("department required", nil)
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.complaints.UpdateDepartment(ctx, id, department)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDepartmentChanged,
		ComplaintID: updated.ID,
		Actor:       eventActor(actor),
		Payload: events.ComplaintDepartmentChangedPayload{
			OldDepartment: complaint.AssignedDepartment,
			NewDepartment: department,
		},
	})
	return updated, nil
}

// List returns complaints visible to the actor: citizens see their own
// submissions, support and admin see everything.
func (s *IntakeService) List(ctx context.Context, actor *domain.User, filter ListFilter) ([]domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	repoFilter := repository.ComplaintFilter{
		Statuses:   filter.Statuses,
		Categories: filter.Categories,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if actor.Role == domain.RoleCitizen {
		repoFilter.SubmitterID = &actor.ID
	}
	complaints, err := s.complaints.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// Get fetches a single complaint, enforcing submitter ownership for citizens.
func (s *IntakeService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if actor.Role == domain.RoleCitizen && complaint.SubmitterID != actor.ID {
		return nil, apperrors.NewForbidden("complaint belongs to another submitter")
	}
	return complaint, nil
}

// Stats aggregates record counts for the dashboard.
func (s *IntakeService) Stats(ctx context.Context) (*domain.ComplaintStats, error) {
	stats, err := s.complaints.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

func (s *IntakeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor *domain.User) events.Actor {
	if actor == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: actor.ID, Role: actor.Role}
}

func generateComplaintKey() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
