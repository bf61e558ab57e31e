package usecase

import (
	"context"
	"strings"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

func validateInput(v *validator.Validate, input any) error {
	if err := v.Struct(input); err != nil {
		return apperror.Validation("Validation failed", err)
	}
	return nil
}

func notify(ctx context.Context, n domain.SyncNotifier, entityType, id, table string, deleted bool) {
	if n == nil {
		return
	}
	n.NotifyChanged(ctx, entityType, id, table, deleted)
}

func notifyBatch(ctx context.Context, n domain.SyncNotifier, changes []domain.SyncChange) {
	if n == nil || len(changes) == 0 {
		return
	}
	n.NotifyChangedBatch(ctx, changes)
}

// normalizeOptional turns blank strings into nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func userPtr(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}
