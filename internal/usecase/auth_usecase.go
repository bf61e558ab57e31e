package usecase

import (
	"context"
	"errors"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"
)

var assignableRoles = map[string]struct{}{
	domain.RoleAdmin:     {},
	domain.RoleRecruiter: {},
	domain.RoleCandidate: {},
}

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// EnsureUserExists creates the local user row for a token subject on first
// sight. Roles are never taken from the caller; new users are candidates.
func (u *authUsecase) EnsureUserExists(ctx context.Context, user *domain.User) error {
	existing, err := u.userRepo.GetByID(ctx, user.ID)
	if err == nil {
		changed := false
		if user.Email != "" && existing.Email != user.Email {
			existing.Email = user.Email
			changed = true
		}
		if user.TenantID != nil && (existing.TenantID == nil || *existing.TenantID != *user.TenantID) {
			existing.TenantID = user.TenantID
			changed = true
		}
		if !changed {
			*user = *existing
			return nil
		}
		existing.UpdatedAt = time.Now()
		if err := u.userRepo.Update(ctx, existing); err != nil {
			return err
		}
		*user = *existing
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	now := time.Now()
	user.Role = domain.RoleCandidate
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return apperror.Conflict("A user with this email already exists")
		}
		return err
	}
	return nil
}

func (u *authUsecase) AssignRole(ctx context.Context, userID string, role string) error {
	ctxRole, ok := ctx.Value(domain.KeyUserRole).(string)
	if !ok || ctxRole != domain.RoleAdmin {
		return apperror.Forbidden("Only admins can assign roles")
	}
	if _, ok := assignableRoles[role]; !ok {
		return apperror.BadRequest("Unknown role: " + role)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("User not found")
	}
	if err != nil {
		return err
	}

	user.Role = role
	user.UpdatedAt = time.Now()
	return u.userRepo.Update(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	return user, err
}
