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

type promptUsecase struct {
	repo     domain.PromptRepository
	validate *validator.Validate
}

func NewPromptUsecase(repo domain.PromptRepository, validate *validator.Validate) domain.PromptUsecase {
	return &promptUsecase{repo: repo, validate: validate}
}

func (u *promptUsecase) Create(ctx context.Context, userID string, tenantID *string, input *domain.PromptInput) (*domain.Prompt, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	exists, err := u.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("A prompt with this name already exists")
	}

	now := time.Now()
	p := &domain.Prompt{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(input.Name),
		Version:  1,
		Category: input.Category,
		Content:  input.Content,
		Locale:   normalizeOptional(input.Locale),
		Tags:     nonNilStrings(input.Tags),
		TenantID: tenantID,
		AuditFields: domain.AuditFields{
			CreatedAt: now, UpdatedAt: now,
			CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
		},
	}
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *promptUsecase) Get(ctx context.Context, name string, version int) (*domain.Prompt, error) {
	p, err := u.repo.Get(ctx, name, version)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Prompt not found")
	}
	return p, err
}

func (u *promptUsecase) GetLatest(ctx context.Context, name string) (*domain.Prompt, error) {
	p, err := u.repo.GetLatest(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Prompt not found")
	}
	return p, err
}

func (u *promptUsecase) Resolve(ctx context.Context, name string, version *int) (*domain.Prompt, error) {
	if version == nil {
		return u.GetLatest(ctx, name)
	}
	return u.Get(ctx, name, *version)
}

func (u *promptUsecase) ListVersions(ctx context.Context, name string) ([]domain.Prompt, error) {
	return u.repo.ListVersions(ctx, name)
}

func (u *promptUsecase) List(ctx context.Context, filter domain.PromptFilter) (*domain.PaginatedResult[domain.Prompt], error) {
	filter.PageParams = filter.PageParams.Normalize()
	prompts, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(prompts, total, filter.PageParams), nil
}

func (u *promptUsecase) Categories(ctx context.Context) ([]string, error) {
	return u.repo.Categories(ctx)
}

func (u *promptUsecase) Update(ctx context.Context, userID string, name string, version int, input *domain.UpdatePromptInput) (*domain.Prompt, error) {
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
		next := &domain.Prompt{
			ID:       uuid.New(),
			Name:     current.Name,
			Version:  maxVersion + 1,
			Category: input.Category,
			Content:  input.Content,
			Locale:   normalizeOptional(input.Locale),
			Tags:     nonNilStrings(input.Tags),
			TenantID: current.TenantID,
			AuditFields: domain.AuditFields{
				CreatedAt: now, UpdatedAt: now,
				CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
			},
		}
		if err := u.repo.Create(ctx, next); err != nil {
			return nil, err
		}
		return next, nil
	}

	current.Category = input.Category
	current.Content = input.Content
	current.Locale = normalizeOptional(input.Locale)
	current.Tags = nonNilStrings(input.Tags)
	current.UpdatedAt = now
	current.UpdatedBy = userPtr(userID)
	if err := u.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (u *promptUsecase) Duplicate(ctx context.Context, userID string, name string, version int, input *domain.DuplicatePromptInput) (*domain.Prompt, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	if _, protected := domain.ProtectedPromptNames[name]; protected {
		return nil, apperror.BadRequest("This system prompt cannot be duplicated")
	}
	source, err := u.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}
	return u.Create(ctx, userID, source.TenantID, &domain.PromptInput{
		Name:     input.NewName,
		Category: source.Category,
		Content:  source.Content,
		Locale:   source.Locale,
		Tags:     source.Tags,
	})
}

// Delete soft-deletes a version that is still in use: pinned explicitly by a
// configuration or interview, or the latest version of a name referenced
// without a version.
func (u *promptUsecase) Delete(ctx context.Context, userID string, name string, version int) error {
	if _, err := u.Get(ctx, name, version); err != nil {
		return err
	}

	inUse, err := u.inUse(ctx, name, version)
	if err != nil {
		return err
	}
	if inUse {
		return u.repo.SetDeleted(ctx, name, version, true, userID)
	}
	return u.repo.Delete(ctx, name, version)
}

func (u *promptUsecase) inUse(ctx context.Context, name string, version int) (bool, error) {
	explicit, err := u.repo.CountExplicitReferences(ctx, name, version)
	if err != nil {
		return false, err
	}
	if explicit > 0 {
		return true, nil
	}

	dynamic, err := u.repo.CountDynamicReferences(ctx, name)
	if err != nil {
		return false, err
	}
	if dynamic == 0 {
		return false, nil
	}
	latest, err := u.repo.GetLatest(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return latest.Version == version, nil
}

func (u *promptUsecase) Restore(ctx context.Context, userID string, name string, version int) (*domain.Prompt, error) {
	p, err := u.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if !p.IsDeleted {
		return p, nil
	}
	if err := u.repo.SetDeleted(ctx, name, version, false, userID); err != nil {
		return nil, err
	}
	p.IsDeleted = false
	p.UpdatedAt = time.Now()
	p.UpdatedBy = userPtr(userID)
	return p, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
