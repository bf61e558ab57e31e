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

type jobPostUsecase struct {
	repo        domain.JobPostRepository
	assignments domain.StepAssignmentRepository
	countries   domain.CountryUsecase
	sync        domain.SyncNotifier
	validate    *validator.Validate
}

func NewJobPostUsecase(
	repo domain.JobPostRepository,
	assignments domain.StepAssignmentRepository,
	countries domain.CountryUsecase,
	sync domain.SyncNotifier,
	validate *validator.Validate,
) domain.JobPostUsecase {
	return &jobPostUsecase{
		repo:        repo,
		assignments: assignments,
		countries:   countries,
		sync:        sync,
		validate:    validate,
	}
}

func (u *jobPostUsecase) Create(ctx context.Context, userID string, tenantID *string, input *domain.JobPostInput) (*domain.JobPost, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	exists, err := u.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("A job post with this name already exists")
	}

	post := &domain.JobPost{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(input.Name),
		Version:        1,
		Status:         domain.JobPostStatusDraft,
		TenantID:       tenantID,
		GdprSyncFields: domain.NonPersonalGdprFields(),
	}
	if err := u.apply(ctx, post, input); err != nil {
		return nil, err
	}
	if input.Status != "" {
		post.Status = domain.JobPostStatus(input.Status)
	}
	now := time.Now()
	post.CreatedAt, post.UpdatedAt = now, now
	post.CreatedBy, post.UpdatedBy = userPtr(userID), userPtr(userID)

	if err := u.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	u.notify(ctx, post, false)
	return post, nil
}

// apply copies the editable fields and derives the country exposure set.
func (u *jobPostUsecase) apply(ctx context.Context, post *domain.JobPost, input *domain.JobPostInput) error {
	post.MaxAmountOfCandidatesRestriction = input.MaxAmountOfCandidatesRestriction
	post.MinimumRequirements = input.MinimumRequirements
	post.ExperienceLevel = input.ExperienceLevel
	post.JobTitle = input.JobTitle
	post.JobType = input.JobType
	post.JobDescription = input.JobDescription
	post.Industry = input.Industry
	post.IntroText = input.IntroText
	post.Requirements = input.Requirements
	post.WhatWeOffer = input.WhatWeOffer
	post.CompanyInfo = input.CompanyInfo
	post.PoliceReportRequired = input.PoliceReportRequired
	post.OriginCountryCode = normalizeOptional(input.OriginCountryCode)

	set, err := u.countries.GetOrCreateExposureSet(ctx, input.CountryExposureCountryCodes)
	if err != nil {
		return err
	}
	post.CountryExposureSetID = set.IDPtr()
	post.CountryExposureCountryCodes = nil
	if set != nil {
		post.CountryExposureCountryCodes = set.CountryCodes
	}
	return nil
}

func (u *jobPostUsecase) Get(ctx context.Context, name string, version int) (*domain.JobPost, error) {
	post, err := u.repo.Get(ctx, name, version)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job post not found")
		}
		return nil, err
	}
	return post, nil
}

func (u *jobPostUsecase) GetLatest(ctx context.Context, name string) (*domain.JobPost, error) {
	post, err := u.repo.GetLatest(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job post not found")
		}
		return nil, err
	}
	return post, nil
}

// GetPublished is what candidates see; anything but a published post is unavailable.
func (u *jobPostUsecase) GetPublished(ctx context.Context, name string, version int) (*domain.JobPost, error) {
	post, err := u.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted || post.Status != domain.JobPostStatusPublished {
		return nil, domain.ErrJobPostNotAvailable
	}
	return post, nil
}

func (u *jobPostUsecase) ListVersions(ctx context.Context, name string) ([]domain.JobPost, error) {
	return u.repo.ListVersions(ctx, name)
}

func (u *jobPostUsecase) List(ctx context.Context, filter domain.JobPostFilter) (*domain.PaginatedResult[domain.JobPost], error) {
	filter.PageParams = filter.PageParams.Normalize()
	posts, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(posts, total, filter.PageParams), nil
}

func (u *jobPostUsecase) Update(ctx context.Context, userID string, name string, version int, input *domain.UpdateJobPostInput) (*domain.JobPost, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	current, err := u.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}

	if input.ShouldUpdateVersion {
		maxVersion, err := u.repo.MaxVersion(ctx, name)
		if err != nil {
			return nil, err
		}
		next := *current
		next.ID = uuid.New()
		next.Version = maxVersion + 1
		next.Status = domain.JobPostStatusDraft
		next.IsDeleted = false
		next.GdprSyncFields = domain.NonPersonalGdprFields()
		if err := u.apply(ctx, &next, &input.JobPostInput); err != nil {
			return nil, err
		}
		now := time.Now()
		next.CreatedAt, next.UpdatedAt = now, now
		next.CreatedBy, next.UpdatedBy = userPtr(userID), userPtr(userID)
		if err := u.repo.Create(ctx, &next); err != nil {
			return nil, err
		}
		u.notify(ctx, &next, false)
		return &next, nil
	}

	count, err := u.repo.CountApplications(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrJobPostHasApplications
	}

	if err := u.apply(ctx, current, &input.JobPostInput); err != nil {
		return nil, err
	}
	if input.Status != "" {
		current.Status = domain.JobPostStatus(input.Status)
	}
	current.UpdatedAt = time.Now()
	current.UpdatedBy = userPtr(userID)
	if err := u.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	u.notify(ctx, current, false)
	return current, nil
}

func (u *jobPostUsecase) Duplicate(ctx context.Context, userID string, name string, version int, input *domain.DuplicateJobPostInput) (*domain.JobPost, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	source, err := u.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}
	exists, err := u.repo.ExistsByName(ctx, input.NewName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("A job post with this name already exists")
	}

	copyPost := *source
	copyPost.ID = uuid.New()
	copyPost.Name = strings.TrimSpace(input.NewName)
	copyPost.JobTitle = input.NewJobTitle
	copyPost.Version = 1
	copyPost.Status = domain.JobPostStatusDraft
	copyPost.IsDeleted = false
	copyPost.GdprSyncFields = domain.NonPersonalGdprFields()
	copyPost.CountryExposureSetID = source.CountryExposureSetID
	now := time.Now()
	copyPost.CreatedAt, copyPost.UpdatedAt = now, now
	copyPost.CreatedBy, copyPost.UpdatedBy = userPtr(userID), userPtr(userID)

	if err := u.repo.Create(ctx, &copyPost); err != nil {
		return nil, err
	}

	steps, err := u.assignments.ListByJobPost(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if len(steps) > 0 {
		copied := make([]domain.JobPostStepAssignment, 0, len(steps))
		for _, s := range steps {
			copied = append(copied, domain.JobPostStepAssignment{
				ID:             uuid.New(),
				JobPostName:    copyPost.Name,
				JobPostVersion: copyPost.Version,
				StepNumber:     s.StepNumber,
				StepName:       s.StepName,
				StepVersion:    s.StepVersion,
				Status:         domain.StepStatusPending,
				GdprSyncFields: domain.DefaultGdprFields(),
			})
		}
		if err := u.assignments.ReplaceAll(ctx, copyPost.Name, copyPost.Version, copied); err != nil {
			return nil, err
		}
	}

	u.notify(ctx, &copyPost, false)
	return &copyPost, nil
}

// Delete hides posts that already have applications and removes the rest.
func (u *jobPostUsecase) Delete(ctx context.Context, userID string, name string, version int) error {
	post, err := u.Get(ctx, name, version)
	if err != nil {
		return err
	}
	count, err := u.repo.CountApplications(ctx, name, version)
	if err != nil {
		return err
	}
	if count > 0 {
		if err := u.repo.SoftDelete(ctx, name, version, userID); err != nil {
			return err
		}
		u.notify(ctx, post, false)
		return nil
	}
	if err := u.repo.Delete(ctx, name, version); err != nil {
		return err
	}
	u.notify(ctx, post, true)
	return nil
}

func (u *jobPostUsecase) Publish(ctx context.Context, userID string, name string, version int) (*domain.JobPost, error) {
	return u.setStatus(ctx, userID, name, version, domain.JobPostStatusPublished)
}

func (u *jobPostUsecase) Archive(ctx context.Context, userID string, name string, version int) (*domain.JobPost, error) {
	return u.setStatus(ctx, userID, name, version, domain.JobPostStatusArchived)
}

func (u *jobPostUsecase) setStatus(ctx context.Context, userID string, name string, version int, status domain.JobPostStatus) (*domain.JobPost, error) {
	post, err := u.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if err := u.repo.UpdateStatus(ctx, name, version, status, userID); err != nil {
		return nil, err
	}
	post.Status = status
	post.UpdatedAt = time.Now()
	post.UpdatedBy = userPtr(userID)
	u.notify(ctx, post, false)
	return post, nil
}

func (u *jobPostUsecase) notify(ctx context.Context, post *domain.JobPost, deleted bool) {
	notify(ctx, u.sync, domain.EntityJobPost, post.ID.String(), domain.TableJobPosts, deleted)
}
