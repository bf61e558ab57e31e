package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/usecase"
	"recruiter-platform/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserProfileIDOR(t *testing.T) {
	repo := new(MockUserProfileRepo)
	uc := usecase.NewUserProfileUsecase(repo, &recordingNotifier{}, validation.New())

	t.Run("fails when the context user differs", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), domain.KeyUserID, "user1")
		_, err := uc.GetMine(ctx, "user2")
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
		assert.Contains(t, err.Error(), "only access your own profile")
	})

	t.Run("fails safely without a context user", func(t *testing.T) {
		_, err := uc.GetMine(context.Background(), "user1")
		assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
	})

	repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestUserProfileUpsertMine(t *testing.T) {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, "user1")

	t.Run("creates a profile with GDPR defaults", func(t *testing.T) {
		repo := new(MockUserProfileRepo)
		repo.On("GetByUserID", ctx, "user1").Return(nil, domain.ErrNotFound)
		repo.On("Upsert", ctx, mock.AnythingOfType("*domain.UserProfile")).Return(nil)
		n := &recordingNotifier{}
		uc := usecase.NewUserProfileUsecase(repo, n, validation.New())

		phone := "+4915112345678"
		profile, err := uc.UpsertMine(ctx, "user1", nil, &domain.UpsertUserProfileInput{
			Name:        "Jane Doe",
			Email:       "jane@example.com",
			PhoneNumber: &phone,
		})
		require.NoError(t, err)
		assert.Equal(t, "user1", profile.UserID)
		assert.Equal(t, domain.DataResidencyEU, profile.DataResidency)
		assert.Equal(t, []string{}, profile.Roles)
		require.Len(t, n.sent, 1)
		assert.Equal(t, domain.EntityUserProfile, n.sent[0].EntityType)
		assert.Equal(t, profile.ID.String(), n.sent[0].EntityID)
	})

	t.Run("editing a sanitized profile clears the flag", func(t *testing.T) {
		sanitized := true
		existing := &domain.UserProfile{ID: uuid.New(), UserID: "user1"}
		existing.IsSanitized = &sanitized

		repo := new(MockUserProfileRepo)
		repo.On("GetByUserID", ctx, "user1").Return(existing, nil)
		repo.On("Upsert", ctx, existing).Return(nil)
		uc := usecase.NewUserProfileUsecase(repo, &recordingNotifier{}, validation.New())

		profile, err := uc.UpsertMine(ctx, "user1", nil, &domain.UpsertUserProfileInput{Name: "Jane Doe", Email: "jane@example.com"})
		require.NoError(t, err)
		require.NotNil(t, profile.IsSanitized)
		assert.False(t, *profile.IsSanitized)
		assert.Nil(t, profile.SanitizedAt)
	})
}

func TestUserProfileSanitize(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockUserProfileRepo)
	repo.On("Sanitize", ctx, id).Return(domain.ErrNotFound).Once()
	uc := usecase.NewUserProfileUsecase(repo, &recordingNotifier{}, validation.New())

	_, err := uc.Sanitize(ctx, id)
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}
