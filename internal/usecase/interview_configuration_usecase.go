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

type interviewConfigurationUsecase struct {
	repo     domain.InterviewConfigurationRepository
	sync     domain.SyncNotifier
	validate *validator.Validate
}

func NewInterviewConfigurationUsecase(repo domain.InterviewConfigurationRepository, sync domain.SyncNotifier, validate *validator.Validate) domain.InterviewConfigurationUsecase {
	return &interviewConfigurationUsecase{repo: repo, sync: sync, validate: validate}
}

func applyConfigurationInput(cfg *domain.InterviewConfiguration, in *domain.InterviewConfigurationInput) {
	cfg.Modality = in.Modality
	cfg.Tone = normalizeOptional(in.Tone)
	cfg.ProbingDepth = normalizeOptional(in.ProbingDepth)
	cfg.FocusArea = normalizeOptional(in.FocusArea)
	cfg.Language = normalizeOptional(in.Language)
	cfg.Duration = in.Duration
	cfg.InstructionPromptName = in.InstructionPromptName
	cfg.InstructionPromptVersion = in.InstructionPromptVersion
	cfg.PersonalityPromptName = in.PersonalityPromptName
	cfg.PersonalityPromptVersion = in.PersonalityPromptVersion
	cfg.QuestionsPromptName = in.QuestionsPromptName
	cfg.QuestionsPromptVersion = in.QuestionsPromptVersion
	if in.IsActive != nil {
		cfg.IsActive = *in.IsActive
	}
}

func (u *interviewConfigurationUsecase) Create(ctx context.Context, userID string, tenantID *string, input *domain.InterviewConfigurationInput) (*domain.InterviewConfiguration, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	exists, err := u.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("An interview configuration with this name already exists")
	}

	now := time.Now()
	cfg := &domain.InterviewConfiguration{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(input.Name),
		Version:        1,
		IsActive:       true,
		TenantID:       tenantID,
		GdprSyncFields: domain.NonPersonalGdprFields(),
		AuditFields: domain.AuditFields{
			CreatedAt: now, UpdatedAt: now,
			CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
		},
	}
	applyConfigurationInput(cfg, input)

	if err := u.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	u.notify(ctx, cfg, false)
	return cfg, nil
}

func (u *interviewConfigurationUsecase) Get(ctx context.Context, name string, version int) (*domain.InterviewConfiguration, error) {
	cfg, err := u.repo.Get(ctx, name, version)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Interview configuration not found")
	}
	return cfg, err
}

func (u *interviewConfigurationUsecase) GetLatest(ctx context.Context, name string) (*domain.InterviewConfiguration, error) {
	cfg, err := u.repo.GetLatest(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Interview configuration not found")
	}
	return cfg, err
}

func (u *interviewConfigurationUsecase) List(ctx context.Context, filter domain.InterviewConfigurationFilter) (*domain.PaginatedResult[domain.InterviewConfiguration], error) {
	filter.PageParams = filter.PageParams.Normalize()
	items, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(items, total, filter.PageParams), nil
}

func (u *interviewConfigurationUsecase) Update(ctx context.Context, userID string, name string, version int, input *domain.UpdateInterviewConfigurationInput) (*domain.InterviewConfiguration, error) {
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
		applyConfigurationInput(&next, &input.InterviewConfigurationInput)
		if err := u.repo.Create(ctx, &next); err != nil {
			return nil, err
		}
		u.notify(ctx, &next, false)
		return &next, nil
	}

	applyConfigurationInput(current, &input.InterviewConfigurationInput)
	current.UpdatedAt = now
	current.UpdatedBy = userPtr(userID)
	if err := u.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	u.notify(ctx, current, false)
	return current, nil
}

func (u *interviewConfigurationUsecase) Delete(ctx context.Context, userID string, name string, version int) error {
	cfg, err := u.Get(ctx, name, version)
	if err != nil {
		return err
	}
	count, err := u.repo.CountInterviews(ctx, name, version)
	if err != nil {
		return err
	}
	if count > 0 {
		if err := u.repo.SoftDelete(ctx, name, version, userID); err != nil {
			return err
		}
		u.notify(ctx, cfg, false)
		return nil
	}
	if err := u.repo.Delete(ctx, name, version); err != nil {
		return err
	}
	u.notify(ctx, cfg, true)
	return nil
}

func (u *interviewConfigurationUsecase) notify(ctx context.Context, cfg *domain.InterviewConfiguration, deleted bool) {
	notify(ctx, u.sync, domain.EntityInterviewConfiguration, cfg.ID.String(), domain.TableInterviewConfigurations, deleted)
}
