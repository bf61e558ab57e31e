package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/usecase"
	"recruiter-platform/pkg/apperror"
	"recruiter-platform/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validJobPostInput() domain.JobPostInput {
	return domain.JobPostInput{
		Name:                             "backend-engineer",
		MaxAmountOfCandidatesRestriction: 5,
		MinimumRequirements:              []string{"Go"},
		ExperienceLevel:                  "Senior",
		JobTitle:                         "Backend Engineer",
		JobType:                          "FullTime",
		JobDescription:                   "Build services",
		CountryExposureCountryCodes:      []string{"FR", "DE", "FR"},
	}
}

func newJobPostUsecase(repo *MockJobPostRepo, assignments *MockAssignmentRepo, n *recordingNotifier) domain.JobPostUsecase {
	return usecase.NewJobPostUsecase(repo, assignments, stubCountries{}, n, validation.New())
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestJobPostCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an existing name", func(t *testing.T) {
		repo := new(MockJobPostRepo)
		repo.On("ExistsByName", ctx, "backend-engineer").Return(true, nil)
		uc := newJobPostUsecase(repo, new(MockAssignmentRepo), &recordingNotifier{})

		input := validJobPostInput()
		_, err := uc.Create(ctx, "user-1", nil, &input)
		assert.Equal(t, http.StatusConflict, appCode(t, err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates a draft at version 1 with an exposure set", func(t *testing.T) {
		repo := new(MockJobPostRepo)
		repo.On("ExistsByName", ctx, "backend-engineer").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.JobPost")).Return(nil)
		n := &recordingNotifier{}
		uc := newJobPostUsecase(repo, new(MockAssignmentRepo), n)

		input := validJobPostInput()
		post, err := uc.Create(ctx, "user-1", nil, &input)
		require.NoError(t, err)
		assert.Equal(t, 1, post.Version)
		assert.Equal(t, domain.JobPostStatusDraft, post.Status)
		assert.Equal(t, []string{"DE", "FR"}, post.CountryExposureCountryCodes)
		require.NotNil(t, post.CountryExposureSetID)
		assert.Equal(t, domain.NewCountryExposureSet([]string{"DE", "FR"}).ID, *post.CountryExposureSetID)
		require.NotNil(t, post.CreatedBy)
		assert.Equal(t, "user-1", *post.CreatedBy)

		require.Len(t, n.sent, 1)
		assert.Equal(t, notification{domain.EntityJobPost, post.ID.String(), domain.TableJobPosts, false}, n.sent[0])
	})

	t.Run("validation errors carry the validation reason", func(t *testing.T) {
		uc := newJobPostUsecase(new(MockJobPostRepo), new(MockAssignmentRepo), &recordingNotifier{})
		input := validJobPostInput()
		input.MinimumRequirements = nil
		input.MaxAmountOfCandidatesRestriction = 0

		_, err := uc.Create(ctx, "user-1", nil, &input)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.ReasonValidation, appErr.Reason)
	})
}

func TestJobPostUpdate(t *testing.T) {
	ctx := context.Background()
	existing := func() *domain.JobPost {
		return &domain.JobPost{ID: uuid.New(), Name: "backend-engineer", Version: 2, Status: domain.JobPostStatusPublished}
	}

	t.Run("in-place update is blocked by applications", func(t *testing.T) {
		repo := new(MockJobPostRepo)
		repo.On("Get", ctx, "backend-engineer", 2).Return(existing(), nil)
		repo.On("CountApplications", ctx, "backend-engineer", 2).Return(int64(3), nil)
		uc := newJobPostUsecase(repo, new(MockAssignmentRepo), &recordingNotifier{})

		input := &domain.UpdateJobPostInput{JobPostInput: validJobPostInput()}
		_, err := uc.Update(ctx, "user-1", "backend-engineer", 2, input)
		assert.ErrorIs(t, err, domain.ErrJobPostHasApplications)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("new version goes after the highest version", func(t *testing.T) {
		current := existing()
		repo := new(MockJobPostRepo)
		repo.On("Get", ctx, "backend-engineer", 2).Return(current, nil)
		repo.On("MaxVersion", ctx, "backend-engineer").Return(5, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.JobPost")).Return(nil)
		uc := newJobPostUsecase(repo, new(MockAssignmentRepo), &recordingNotifier{})

		input := &domain.UpdateJobPostInput{JobPostInput: validJobPostInput(), ShouldUpdateVersion: true}
		post, err := uc.Update(ctx, "user-1", "backend-engineer", 2, input)
		require.NoError(t, err)
		assert.Equal(t, 6, post.Version)
		assert.Equal(t, domain.JobPostStatusDraft, post.Status)
		assert.NotEqual(t, current.ID, post.ID)
		repo.AssertNotCalled(t, "CountApplications", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestJobPostDelete(t *testing.T) {
	ctx := context.Background()
	post := &domain.JobPost{ID: uuid.New(), Name: "ops", Version: 1}

	t.Run("soft delete when applications exist", func(t *testing.T) {
		repo := new(MockJobPostRepo)
		repo.On("Get", ctx, "ops", 1).Return(post, nil)
		repo.On("CountApplications", ctx, "ops", 1).Return(int64(1), nil)
		repo.On("SoftDelete", ctx, "ops", 1, "user-1").Return(nil)
		n := &recordingNotifier{}
		uc := newJobPostUsecase(repo, new(MockAssignmentRepo), n)

		require.NoError(t, uc.Delete(ctx, "user-1", "ops", 1))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		require.Len(t, n.sent, 1)
		assert.False(t, n.sent[0].Deleted)
	})

	t.Run("hard delete otherwise", func(t *testing.T) {
		repo := new(MockJobPostRepo)
		repo.On("Get", ctx, "ops", 1).Return(post, nil)
		repo.On("CountApplications", ctx, "ops", 1).Return(int64(0), nil)
		repo.On("Delete", ctx, "ops", 1).Return(nil)
		n := &recordingNotifier{}
		uc := newJobPostUsecase(repo, new(MockAssignmentRepo), n)

		require.NoError(t, uc.Delete(ctx, "user-1", "ops", 1))
		require.Len(t, n.sent, 1)
		assert.True(t, n.sent[0].Deleted)
	})
}

func TestJobPostGetPublished(t *testing.T) {
	ctx := context.Background()

	t.Run("draft is not available", func(t *testing.T) {
		repo := new(MockJobPostRepo)
		repo.On("Get", ctx, "ops", 1).Return(&domain.JobPost{Name: "ops", Version: 1, Status: domain.JobPostStatusDraft}, nil)
		uc := newJobPostUsecase(repo, new(MockAssignmentRepo), &recordingNotifier{})

		_, err := uc.GetPublished(ctx, "ops", 1)
		assert.ErrorIs(t, err, domain.ErrJobPostNotAvailable)
	})

	t.Run("missing post is 404", func(t *testing.T) {
		repo := new(MockJobPostRepo)
		repo.On("Get", ctx, "ops", 9).Return(nil, domain.ErrNotFound)
		uc := newJobPostUsecase(repo, new(MockAssignmentRepo), &recordingNotifier{})

		_, err := uc.GetPublished(ctx, "ops", 9)
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})
}

func TestJobPostDuplicate(t *testing.T) {
	ctx := context.Background()
	source := &domain.JobPost{ID: uuid.New(), Name: "ops", Version: 3, Status: domain.JobPostStatusPublished, JobTitle: "SRE"}
	latest := 2

	repo := new(MockJobPostRepo)
	repo.On("Get", ctx, "ops", 3).Return(source, nil)
	repo.On("ExistsByName", ctx, "ops-emea").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.JobPost")).Return(nil)

	assignments := new(MockAssignmentRepo)
	assignments.On("ListByJobPost", ctx, "ops", 3).Return([]domain.JobPostStepAssignment{
		{StepNumber: 1, StepName: "screening"},
		{StepNumber: 2, StepName: "interview", StepVersion: &latest},
	}, nil)
	assignments.On("ReplaceAll", ctx, "ops-emea", 1, mock.MatchedBy(func(items []domain.JobPostStepAssignment) bool {
		return len(items) == 2 && items[1].StepName == "interview" && items[1].Status == domain.StepStatusPending
	})).Return(nil)

	uc := newJobPostUsecase(repo, assignments, &recordingNotifier{})
	post, err := uc.Duplicate(ctx, "user-1", "ops", 3, &domain.DuplicateJobPostInput{NewName: "ops-emea", NewJobTitle: "SRE EMEA"})
	require.NoError(t, err)
	assert.Equal(t, "ops-emea", post.Name)
	assert.Equal(t, "SRE EMEA", post.JobTitle)
	assert.Equal(t, 1, post.Version)
	assert.Equal(t, domain.JobPostStatusDraft, post.Status)
	assignments.AssertExpectations(t)
}
