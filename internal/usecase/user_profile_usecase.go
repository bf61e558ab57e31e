package usecase

import (
	"context"
	"errors"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type userProfileUsecase struct {
	repo     domain.UserProfileRepository
	sync     domain.SyncNotifier
	validate *validator.Validate
}

func NewUserProfileUsecase(repo domain.UserProfileRepository, sync domain.SyncNotifier, validate *validator.Validate) domain.UserProfileUsecase {
	return &userProfileUsecase{repo: repo, sync: sync, validate: validate}
}

// contextUser enforces that callers only touch their own profile.
func contextUser(ctx context.Context, userID string) error {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only access your own profile")
	}
	return nil
}

func (u *userProfileUsecase) GetMine(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if err := contextUser(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := u.repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Profile not found")
	}
	return profile, err
}

func (u *userProfileUsecase) UpsertMine(ctx context.Context, userID string, tenantID *string, input *domain.UpsertUserProfileInput) (*domain.UserProfile, error) {
	if err := contextUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	now := time.Now()
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if profile == nil {
		profile = &domain.UserProfile{
			ID:             uuid.New(),
			UserID:         userID,
			TenantID:       tenantID,
			GdprSyncFields: domain.DefaultGdprFields(),
			AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: userPtr(userID)},
		}
	}

	profile.Name = input.Name
	profile.Email = input.Email
	profile.PhoneNumber = normalizeOptional(input.PhoneNumber)
	profile.Nationality = normalizeOptional(input.Nationality)
	profile.ProfilePictureURL = normalizeOptional(input.ProfilePictureURL)
	profile.ResumeURL = normalizeOptional(input.ResumeURL)
	profile.JobTypePreferences = nonNilStrings(input.JobTypePreferences)
	profile.RemotePreferences = nonNilStrings(input.RemotePreferences)
	profile.Roles = nonNilStrings(input.Roles)
	profile.Age = input.Age
	profile.Bio = normalizeOptional(input.Bio)
	profile.OpenToRelocation = input.OpenToRelocation
	profile.UpdatedAt = now
	profile.UpdatedBy = userPtr(userID)
	// Edited PII is no longer sanitized.
	if profile.IsSanitized != nil && *profile.IsSanitized {
		f := false
		profile.IsSanitized = &f
		profile.SanitizedAt = nil
	}

	if err := u.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	u.notify(ctx, profile)
	return profile, nil
}

func (u *userProfileUsecase) List(ctx context.Context, filter domain.UserProfileFilter) (*domain.PaginatedResult[domain.UserProfile], error) {
	filter.PageParams = filter.PageParams.Normalize()
	items, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(items, total, filter.PageParams), nil
}

func (u *userProfileUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	profile, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Profile not found")
	}
	return profile, err
}

// RecordOverrideConsent lets an unsanitized profile leave the EU.
func (u *userProfileUsecase) RecordOverrideConsent(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if err := contextUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.repo.RecordOverrideConsent(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, err
	}
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.notify(ctx, profile)
	return profile, nil
}

func (u *userProfileUsecase) Sanitize(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	if err := u.repo.Sanitize(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, err
	}
	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.notify(ctx, profile)
	return profile, nil
}

func (u *userProfileUsecase) notify(ctx context.Context, p *domain.UserProfile) {
	notify(ctx, u.sync, domain.EntityUserProfile, p.ID.String(), domain.TableUserProfiles, false)
}
