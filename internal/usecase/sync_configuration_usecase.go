package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// TargetPlanner is satisfied by *datasync.Service.
type TargetPlanner interface {
	DetermineTargetRegions(ctx context.Context, msg *domain.SyncMessage) []string
}

type syncConfigurationUsecase struct {
	repo     domain.EntitySyncConfigurationRepository
	planner  TargetPlanner
	validate *validator.Validate
}

func NewSyncConfigurationUsecase(repo domain.EntitySyncConfigurationRepository, planner TargetPlanner, validate *validator.Validate) domain.SyncConfigurationUsecase {
	return &syncConfigurationUsecase{repo: repo, planner: planner, validate: validate}
}

func (u *syncConfigurationUsecase) List(ctx context.Context) ([]domain.EntitySyncConfiguration, error) {
	return u.repo.List(ctx)
}

func (u *syncConfigurationUsecase) Get(ctx context.Context, entityType string) (*domain.EntitySyncConfiguration, error) {
	cfg, err := u.repo.GetByEntityType(ctx, entityType)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Sync configuration not found")
	}
	return cfg, err
}

func (u *syncConfigurationUsecase) Update(ctx context.Context, entityType string, input *domain.UpdateSyncConfigurationInput) (*domain.EntitySyncConfiguration, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	cfg, err := u.Get(ctx, entityType)
	if err != nil {
		return nil, err
	}

	if input.SyncScope != nil {
		cfg.SyncScope = *input.SyncScope
	}
	if input.RequiresSanitizationForGlobalSync != nil {
		cfg.RequiresSanitizationForGlobalSync = *input.RequiresSanitizationForGlobalSync
	}
	if input.AllowSanitizationOverrideConsent != nil {
		cfg.AllowSanitizationOverrideConsent = *input.AllowSanitizationOverrideConsent
	}
	if input.IsEnabled != nil {
		cfg.IsEnabled = *input.IsEnabled
	}
	if input.Notes != nil {
		cfg.Notes = normalizeOptional(input.Notes)
	}
	if cfg.DataClassification == domain.ClassificationSensitive && cfg.SyncScope == domain.SyncScopeGlobalSanitized && !cfg.RequiresSanitizationForGlobalSync {
		return nil, apperror.BadRequest("Sensitive entities must be sanitized before global sync")
	}
	cfg.UpdatedAt = time.Now()

	if err := u.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (u *syncConfigurationUsecase) DetermineTargets(ctx context.Context, msg *domain.SyncMessage) ([]string, error) {
	if msg.EntityType == "" || msg.EntityID == "" || msg.SourceRegion == "" {
		return nil, apperror.BadRequest("EntityType, EntityId and SourceRegion are required")
	}
	if u.planner == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Sync planner is not configured", nil)
	}
	return u.planner.DetermineTargetRegions(ctx, msg), nil
}
