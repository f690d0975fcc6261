package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/classifier"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/routing"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

type classifyFunc func(context.Context, classifier.Input) (*domain.Classification, error)

func (f classifyFunc) Classify(ctx context.Context, input classifier.Input) (*domain.Classification, error) {
	return f(ctx, input)
}

func newIntake(backend classifier.Classifier) (*service.IntakeService, repository.ComplaintRepository) {
	repo := repository.NewMemoryComplaintRepository()
	svc := service.NewIntakeService(service.IntakeDependencies{
		ComplaintRepo: repo,
		Classifier:    backend,
		Router:        routing.NewEngine(),
		Dispatcher:    events.NewInMemoryDispatcher(),
		Logger:        zap.NewNop(),
	})
	return svc, repo
}

func citizen() *domain.User {
	return &domain.User{ID: "u1", Name: "Casey Citizen", Role: domain.RoleCitizen}
}

func support() *domain.User {
	return &domain.User{ID: "s1", Name: "Sam Support", Role: domain.RoleSupport}
}

func TestSubmit_StoresClassifiedComplaint(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(_ context.Context, input classifier.Input) (*domain.Classification, error) {
		require.Contains(t, input.Text, "Printer jam")
		require.Contains(t, input.Text, "Printer on 3rd floor jams every print")
		return &domain.Classification{
			Category:           "Hardware",
			Priority:           "High",
			AssignedDepartment: "IT Hardware",
			Reasoning:          "printer fault",
		}, nil
	}))

	complaint, err := svc.Submit(ctx, citizen(), service.SubmitInput{
		Title:       "Printer jam",
		Description: "Printer on 3rd floor jams every print",
	})
	require.NoError(t, err)
	require.NotEmpty(t, complaint.ID)
	require.NotEmpty(t, complaint.ExternalKey)
	require.Equal(t, "u1", complaint.SubmitterID)
	require.Equal(t, "Casey Citizen", complaint.SubmitterName)
	require.Equal(t, domain.CategoryHardware, complaint.Category)
	require.Equal(t, domain.PriorityHigh, complaint.Priority)
	require.Equal(t, "IT Hardware", complaint.AssignedDepartment)
	require.Equal(t, "printer fault", complaint.Reasoning)
	require.Equal(t, domain.StatusPending, complaint.Status)
	require.False(t, complaint.CreatedAt.IsZero())
}

func TestSubmit_MalformedClassifierFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return nil, &classifier.Error{Kind: classifier.KindMalformed, Message: "missing fields"}
	}))

	complaint, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "Broken", Description: "Something broke"})
	require.NoError(t, err)
	require.Equal(t, domain.CategoryOthers, complaint.Category)
	require.Equal(t, domain.PriorityMedium, complaint.Priority)
	require.Equal(t, "General Support", complaint.AssignedDepartment)
	require.Equal(t, "Default classification.", complaint.Reasoning)
	require.Equal(t, domain.StatusPending, complaint.Status)
}

func TestSubmit_TransientClassifierDoesNotBlockIntake(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return nil, &classifier.Error{Kind: classifier.KindTransient, Message: "timeout"}
	}))

	complaint, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "Slow wifi", Description: "Wifi drops hourly"})
	require.NoError(t, err)
	require.Equal(t, domain.CategoryOthers, complaint.Category)
}

func TestSubmit_AuthFailureAbortsSubmission(t *testing.T) {
	ctx := context.Background()
	svc, repo := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return nil, &classifier.Error{Kind: classifier.KindAuth, Message: "bad key"}
	}))

	_, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "T", Description: "D"})
	require.Error(t, err)
	require.Equal(t, "CLASSIFICATION_UNAVAILABLE", apperrors.ToDomainError(err).Code)

	listed, err := repo.List(ctx, repository.ComplaintFilter{})
	require.NoError(t, err)
	require.Empty(t, listed, "no partial record may be stored")
}

func TestSubmit_ValidatesTitleAndDescription(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		t.Fatal("classifier must not be called for invalid input")
		return nil, nil
	}))

	for _, input := range []service.SubmitInput{
		{Title: "", Description: "desc"},
		{Title: "title", Description: ""},
		{Title: "   ", Description: "desc"},
	} {
		_, err := svc.Submit(ctx, citizen(), input)
		require.Error(t, err)
		require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	}
}

func TestUpdateStatus_CitizenForbiddenAndStatusUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return &domain.Classification{Category: "Hardware", Priority: "Low", AssignedDepartment: "IT", Reasoning: "r"}, nil
	}))

	complaint, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, citizen(), complaint.ID, domain.StatusInProgress)
	require.Error(t, err)
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	fetched, err := svc.Get(ctx, citizen(), complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, fetched.Status)
}

func TestUpdateStatus_SupportTransitionsThenIllegal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return &domain.Classification{Category: "Software", Priority: "Medium", AssignedDepartment: "IT", Reasoning: "r"}, nil
	}))

	complaint, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, support(), complaint.ID, domain.StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, updated.Status)

	_, err = svc.UpdateStatus(ctx, support(), complaint.ID, domain.StatusPending)
	require.Error(t, err)
	require.Equal(t, "ILLEGAL_TRANSITION", apperrors.ToDomainError(err).Code)
}

func TestUpdateStatus_TerminalStateSetsClosedAt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return &domain.Classification{Category: "Software", Priority: "Medium", AssignedDepartment: "IT", Reasoning: "r"}, nil
	}))

	complaint, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, support(), complaint.ID, domain.StatusResolved)
	require.NoError(t, err)
	require.Equal(t, domain.StatusResolved, updated.Status)
	require.NotNil(t, updated.ClosedAt)
}

func TestUpdateStatus_UnknownStatusAndMissingRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return &domain.Classification{Category: "Software", Priority: "Medium", AssignedDepartment: "IT", Reasoning: "r"}, nil
	}))

	_, err := svc.UpdateStatus(ctx, support(), "any", domain.ComplaintStatus("Archived"))
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.UpdateStatus(ctx, support(), "missing", domain.StatusInProgress)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestList_CitizenScopedToOwnSubmissions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return &domain.Classification{Category: "Others", Priority: "Low", AssignedDepartment: "GS", Reasoning: "r"}, nil
	}))

	first := citizen()
	second := &domain.User{ID: "u2", Name: "Other", Role: domain.RoleCitizen}
	_, err := svc.Submit(ctx, first, service.SubmitInput{Title: "Mine", Description: "D"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, second, service.SubmitInput{Title: "Theirs", Description: "D"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, first, service.ListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Mine", mine[0].Title)

	all, err := svc.List(ctx, support(), service.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	again, err := svc.List(ctx, support(), service.ListFilter{})
	require.NoError(t, err)
	require.Equal(t, all, again)
}

func TestGet_CitizenCannotReadOthersComplaint(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return &domain.Classification{Category: "Others", Priority: "Low", AssignedDepartment: "GS", Reasoning: "r"}, nil
	}))

	complaint, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	stranger := &domain.User{ID: "u9", Name: "Stranger", Role: domain.RoleCitizen}
	_, err = svc.Get(ctx, stranger, complaint.ID)
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	fetched, err := svc.Get(ctx, support(), complaint.ID)
	require.NoError(t, err)
	require.Equal(t, complaint.ID, fetched.ID)
}

func TestOverrideDepartment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return &domain.Classification{Category: "Network", Priority: "High", AssignedDepartment: "Network Operations", Reasoning: "r"}, nil
	}))

	complaint, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	updated, err := svc.OverrideDepartment(ctx, support(), complaint.ID, "Field Ops")
	require.NoError(t, err)
	require.Equal(t, "Field Ops", updated.AssignedDepartment)

	_, err = svc.OverrideDepartment(ctx, citizen(), complaint.ID, "Anywhere")
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	_, err = svc.OverrideDepartment(ctx, support(), complaint.ID, "   ")
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestStats_CountsByDimension(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntake(classifyFunc(func(context.Context, classifier.Input) (*domain.Classification, error) {
		return &domain.Classification{Category: "Finance", Priority: "Low", AssignedDepartment: "Finance", Reasoning: "r"}, nil
	}))

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(ctx, citizen(), service.SubmitInput{Title: "T", Description: "D"})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 3, stats.ByCategory[domain.CategoryFinance])
	require.Equal(t, 3, stats.ByStatus[domain.StatusPending])
}
