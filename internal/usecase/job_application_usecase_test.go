package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/usecase"
	"recruiter-platform/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memApplications checks the candidate cap and uniqueness atomically, the
// way the postgres transaction does.
type memApplications struct {
	domain.JobApplicationRepository
	mu   sync.Mutex
	apps []*domain.JobApplication
}

func (m *memApplications) Exists(_ context.Context, userID, name string, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.UserID == userID && a.JobPostName == name && a.JobPostVersion == version {
			return true, nil
		}
	}
	return false, nil
}

func (m *memApplications) Create(_ context.Context, app *domain.JobApplication, maxCandidates int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int
	for _, a := range m.apps {
		if a.JobPostName != app.JobPostName || a.JobPostVersion != app.JobPostVersion {
			continue
		}
		if a.UserID == app.UserID {
			return domain.ErrDuplicate
		}
		count++
	}
	if maxCandidates > 0 && count >= maxCandidates {
		return domain.ErrCandidateLimitReached
	}
	m.apps = append(m.apps, app)
	return nil
}

func publishedPost(maxCandidates int) *domain.JobPost {
	setID := uuid.New()
	post := &domain.JobPost{
		Name:                             "backend",
		Version:                          1,
		Status:                           domain.JobPostStatusPublished,
		MaxAmountOfCandidatesRestriction: maxCandidates,
	}
	post.CountryExposureSetID = &setID
	return post
}

type applyFixture struct {
	repo     *memApplications
	notifier *recordingNotifier
	uc       domain.JobApplicationUsecase
}

func newApplyFixture(post *domain.JobPost, assignments []domain.JobPostStepAssignment) *applyFixture {
	postRepo := new(MockJobPostRepo)
	postRepo.On("Get", mock.Anything, post.Name, post.Version).Return(post, nil)
	assignmentRepo := new(MockAssignmentRepo)
	assignmentRepo.On("ListByJobPost", mock.Anything, post.Name, post.Version).Return(assignments, nil)

	f := &applyFixture{repo: &memApplications{}, notifier: &recordingNotifier{}}
	jobPosts := usecase.NewJobPostUsecase(postRepo, assignmentRepo, stubCountries{}, f.notifier, validation.New())
	f.uc = usecase.NewJobApplicationUsecase(f.repo, jobPosts, assignmentRepo, f.notifier, validation.New())
	return f
}

func applyInput() *domain.ApplyInput {
	return &domain.ApplyInput{JobPostName: "backend", JobPostVersion: 1}
}

func TestJobApplicationApply(t *testing.T) {
	ctx := context.Background()

	t.Run("unpublished post is not available", func(t *testing.T) {
		post := publishedPost(0)
		post.Status = domain.JobPostStatusDraft
		f := newApplyFixture(post, nil)

		_, err := f.uc.Apply(ctx, "user-1", nil, applyInput())
		assert.True(t, errors.Is(err, domain.ErrJobPostNotAvailable))
		assert.Empty(t, f.repo.apps)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("creates one pending step per assignment", func(t *testing.T) {
		post := publishedPost(0)
		f := newApplyFixture(post, []domain.JobPostStepAssignment{
			{StepNumber: 1, StepName: "screening"},
			{StepNumber: 2, StepName: "interview"},
		})

		app, err := f.uc.Apply(ctx, "user-1", nil, applyInput())
		require.NoError(t, err)
		require.Len(t, app.Steps, 2)
		for i, s := range app.Steps {
			assert.Equal(t, domain.StepStatusPending, s.Status)
			assert.Equal(t, app.ID, s.JobApplicationID)
			assert.Equal(t, i+1, s.StepNumber)
		}
		assert.Equal(t, 1, app.CurrentStep)
		assert.Equal(t, domain.ApplicationStatusApplied, app.Status)
		assert.Equal(t, post.CountryExposureSetID, app.CountryExposureSetID)

		assert.Equal(t, 1, f.notifier.batches)
		require.Len(t, f.notifier.sent, 3)
		assert.Equal(t, domain.EntityJobApplication, f.notifier.sent[0].EntityType)
		assert.Equal(t, domain.EntityJobApplicationStep, f.notifier.sent[1].EntityType)
		assert.Equal(t, app.Steps[1].ID.String(), f.notifier.sent[2].EntityID)
	})

	t.Run("one application per user", func(t *testing.T) {
		f := newApplyFixture(publishedPost(0), nil)

		_, err := f.uc.Apply(ctx, "user-1", nil, applyInput())
		require.NoError(t, err)
		_, err = f.uc.Apply(ctx, "user-1", nil, applyInput())
		assert.Equal(t, http.StatusConflict, appCode(t, err))
		assert.Len(t, f.repo.apps, 1)
	})

	t.Run("rejects applicants past the cap", func(t *testing.T) {
		f := newApplyFixture(publishedPost(1), nil)

		_, err := f.uc.Apply(ctx, "user-1", nil, applyInput())
		require.NoError(t, err)
		_, err = f.uc.Apply(ctx, "user-2", nil, applyInput())
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
		assert.Len(t, f.repo.apps, 1)
	})

	t.Run("concurrent applicants never exceed the cap", func(t *testing.T) {
		f := newApplyFixture(publishedPost(3), nil)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := f.uc.Apply(ctx, fmt.Sprintf("user-%d", i), nil, applyInput()); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 3, succeeded)
		assert.Len(t, f.repo.apps, 3)
	})

	t.Run("validates the input", func(t *testing.T) {
		f := newApplyFixture(publishedPost(0), nil)
		_, err := f.uc.Apply(ctx, "user-1", nil, &domain.ApplyInput{})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})
}
