package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type jobPostStepUsecase struct {
	repo        domain.JobPostStepRepository
	assignments domain.StepAssignmentRepository
	jobPosts    domain.JobPostRepository
	sync        domain.SyncNotifier
	validate    *validator.Validate
}

func NewJobPostStepUsecase(
	repo domain.JobPostStepRepository,
	assignments domain.StepAssignmentRepository,
	jobPosts domain.JobPostRepository,
	sync domain.SyncNotifier,
	validate *validator.Validate,
) domain.JobPostStepUsecase {
	return &jobPostStepUsecase{
		repo:        repo,
		assignments: assignments,
		jobPosts:    jobPosts,
		sync:        sync,
		validate:    validate,
	}
}

func applyStepInput(step *domain.JobPostStep, in *domain.JobPostStepInput) {
	step.Participant = in.Participant
	step.StepType = in.StepType
	step.ShowStepForCandidate = in.ShowStepForCandidate
	step.ShowSpinner = in.ShowSpinner
	step.DisplayTitle = in.DisplayTitle
	step.DisplayContent = in.DisplayContent
	step.InterviewConfigurationName = normalizeOptional(in.InterviewConfigurationName)
	step.InterviewConfigurationVersion = in.InterviewConfigurationVersion
	step.PromptName = normalizeOptional(in.PromptName)
	step.PromptVersion = in.PromptVersion
	step.ApplyParticipantRules()
}

func (u *jobPostStepUsecase) Create(ctx context.Context, userID string, tenantID *string, input *domain.JobPostStepInput) (*domain.JobPostStep, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	exists, err := u.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("A step with this name already exists")
	}

	now := time.Now()
	step := &domain.JobPostStep{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(input.Name),
		Version:        1,
		TenantID:       tenantID,
		GdprSyncFields: domain.NonPersonalGdprFields(),
		AuditFields: domain.AuditFields{
			CreatedAt: now, UpdatedAt: now,
			CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
		},
	}
	applyStepInput(step, input)

	if err := u.repo.Create(ctx, step); err != nil {
		return nil, err
	}
	u.notify(ctx, step, false)
	return step, nil
}

func (u *jobPostStepUsecase) Get(ctx context.Context, name string, version int) (*domain.JobPostStep, error) {
	step, err := u.repo.Get(ctx, name, version)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Step not found")
	}
	return step, err
}

func (u *jobPostStepUsecase) GetLatest(ctx context.Context, name string) (*domain.JobPostStep, error) {
	step, err := u.repo.GetLatest(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Step not found")
	}
	return step, err
}

func (u *jobPostStepUsecase) ListVersions(ctx context.Context, name string) ([]domain.JobPostStep, error) {
	return u.repo.ListVersions(ctx, name)
}

func (u *jobPostStepUsecase) List(ctx context.Context, filter domain.JobPostStepFilter) (*domain.PaginatedResult[domain.JobPostStep], error) {
	filter.PageParams = filter.PageParams.Normalize()
	steps, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(steps, total, filter.PageParams), nil
}

func (u *jobPostStepUsecase) Update(ctx context.Context, userID string, name string, version int, input *domain.UpdateJobPostStepInput) (*domain.JobPostStep, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	current, err := u.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	if input.ShouldUpdateVersion {
		maxVersion, err := u.repo.MaxVersion(ctx, name)
		if err != nil {
			return nil, err
		}
		next := *current
		next.ID = uuid.New()
		next.Version = maxVersion + 1
		next.IsDeleted = false
		next.GdprSyncFields = domain.NonPersonalGdprFields()
		next.AuditFields = domain.AuditFields{
			CreatedAt: now, UpdatedAt: now,
			CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
		}
		applyStepInput(&next, &input.JobPostStepInput)
		if err := u.repo.Create(ctx, &next); err != nil {
			return nil, err
		}
		u.notify(ctx, &next, false)
		return &next, nil
	}

	applyStepInput(current, &input.JobPostStepInput)
	current.UpdatedAt = now
	current.UpdatedBy = userPtr(userID)
	if err := u.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	u.notify(ctx, current, false)
	return current, nil
}

// Delete soft-deletes steps still assigned to a job post.
func (u *jobPostStepUsecase) Delete(ctx context.Context, userID string, name string, version int) error {
	step, err := u.Get(ctx, name, version)
	if err != nil {
		return err
	}
	count, err := u.repo.CountAssignments(ctx, name, version)
	if err != nil {
		return err
	}
	if count > 0 {
		if err := u.repo.SoftDelete(ctx, name, version, userID); err != nil {
			return err
		}
		u.notify(ctx, step, false)
		return nil
	}
	if err := u.repo.Delete(ctx, name, version); err != nil {
		return err
	}
	u.notify(ctx, step, true)
	return nil
}

func (u *jobPostStepUsecase) ListAssignments(ctx context.Context, jobPostName string, jobPostVersion int) ([]domain.JobPostStepAssignment, error) {
	if _, err := u.jobPosts.Get(ctx, jobPostName, jobPostVersion); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job post not found")
		}
		return nil, err
	}
	return u.assignments.ListByJobPost(ctx, jobPostName, jobPostVersion)
}

func (u *jobPostStepUsecase) ReplaceAssignments(ctx context.Context, userID string, jobPostName string, jobPostVersion int, items []domain.StepAssignmentInput) ([]domain.JobPostStepAssignment, error) {
	if _, err := u.jobPosts.Get(ctx, jobPostName, jobPostVersion); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job post not found")
		}
		return nil, err
	}

	seen := map[int]struct{}{}
	out := make([]domain.JobPostStepAssignment, 0, len(items))
	now := time.Now()
	for i := range items {
		item := &items[i]
		if err := validateInput(u.validate, item); err != nil {
			return nil, err
		}
		if _, dup := seen[item.StepNumber]; dup {
			return nil, apperror.BadRequest("Step numbers must be unique")
		}
		seen[item.StepNumber] = struct{}{}

		if item.StepVersion != nil {
			_, err := u.repo.Get(ctx, item.StepName, *item.StepVersion)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.BadRequest("Unknown step " + item.StepName)
			}
			if err != nil {
				return nil, err
			}
		} else {
			_, err := u.repo.GetLatest(ctx, item.StepName)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.BadRequest("Unknown step " + item.StepName)
			}
			if err != nil {
				return nil, err
			}
		}

		out = append(out, domain.JobPostStepAssignment{
			ID:             uuid.New(),
			JobPostName:    jobPostName,
			JobPostVersion: jobPostVersion,
			StepNumber:     item.StepNumber,
			StepName:       item.StepName,
			StepVersion:    item.StepVersion,
			Status:         domain.StepStatusPending,
			GdprSyncFields: domain.NonPersonalGdprFields(),
			AuditFields: domain.AuditFields{
				CreatedAt: now, UpdatedAt: now,
				CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
			},
		})
	}

	if err := u.assignments.ReplaceAll(ctx, jobPostName, jobPostVersion, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *jobPostStepUsecase) RemoveAssignment(ctx context.Context, jobPostName string, jobPostVersion int, stepNumber int) error {
	_, err := u.assignments.Remove(ctx, jobPostName, jobPostVersion, stepNumber)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("Step assignment not found")
	}
	return err
}

func (u *jobPostStepUsecase) notify(ctx context.Context, step *domain.JobPostStep, deleted bool) {
	notify(ctx, u.sync, domain.EntityJobPostStep, step.ID.String(), domain.TableJobPostSteps, deleted)
}
