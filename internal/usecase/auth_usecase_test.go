package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserExists(t *testing.T) {
	ctx := context.Background()

	t.Run("new users are candidates regardless of the requested role", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", ctx, "sub-1").Return(nil, domain.ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.RoleCandidate && u.Email == "a@example.com"
		})).Return(nil)
		uc := usecase.NewAuthUsecase(repo)

		user := &domain.User{ID: "sub-1", Email: "a@example.com", Role: domain.RoleAdmin}
		require.NoError(t, uc.EnsureUserExists(ctx, user))
		assert.Equal(t, domain.RoleCandidate, user.Role)
		repo.AssertExpectations(t)
	})

	t.Run("existing user keeps the stored role", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", ctx, "sub-1").Return(&domain.User{ID: "sub-1", Email: "a@example.com", Role: domain.RoleRecruiter}, nil)
		uc := usecase.NewAuthUsecase(repo)

		user := &domain.User{ID: "sub-1", Email: "a@example.com"}
		require.NoError(t, uc.EnsureUserExists(ctx, user))
		assert.Equal(t, domain.RoleRecruiter, user.Role)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestAssignRole(t *testing.T) {
	adminCtx := context.WithValue(context.Background(), domain.KeyUserRole, domain.RoleAdmin)

	t.Run("only admins may assign roles", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), domain.KeyUserRole, domain.RoleRecruiter)
		uc := usecase.NewAuthUsecase(new(MockUserRepo))
		err := uc.AssignRole(ctx, "sub-2", domain.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
	})

	t.Run("unknown roles are rejected", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(new(MockUserRepo))
		err := uc.AssignRole(adminCtx, "sub-2", "superuser")
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("updates the stored role", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", adminCtx, "sub-2").Return(&domain.User{ID: "sub-2", Role: domain.RoleCandidate}, nil)
		repo.On("Update", adminCtx, mock.MatchedBy(func(u *domain.User) bool { return u.Role == domain.RoleRecruiter })).Return(nil)
		uc := usecase.NewAuthUsecase(repo)

		require.NoError(t, uc.AssignRole(adminCtx, "sub-2", domain.RoleRecruiter))
		repo.AssertExpectations(t)
	})

	t.Run("missing user is 404", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", adminCtx, "ghost").Return(nil, domain.ErrNotFound)
		uc := usecase.NewAuthUsecase(repo)

		err := uc.AssignRole(adminCtx, "ghost", domain.RoleRecruiter)
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})
}
