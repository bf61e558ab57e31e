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

func TestCommentCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("second top-level comment updates the existing root", func(t *testing.T) {
		root := &domain.Comment{ID: uuid.New(), EntityType: "JobPost", EntityID: "ops:1", Content: "old"}
		repo := new(MockCommentRepo)
		repo.On("GetRoot", ctx, "JobPost", "ops:1").Return(root, nil)
		repo.On("UpdateContent", ctx, root.ID, "new", "user-1").Return(nil)
		n := &recordingNotifier{}
		uc := usecase.NewCommentUsecase(repo, n, validation.New())

		c, err := uc.Create(ctx, "user-1", nil, &domain.CreateCommentInput{EntityType: "JobPost", EntityID: "ops:1", Content: "new"})
		require.NoError(t, err)
		assert.Equal(t, root.ID, c.ID)
		assert.Equal(t, "new", c.Content)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		require.Len(t, n.sent, 1)
		assert.Equal(t, domain.TableComments, n.sent[0].Table)
	})

	t.Run("first top-level comment is created", func(t *testing.T) {
		repo := new(MockCommentRepo)
		repo.On("GetRoot", ctx, "JobPost", "ops:1").Return(nil, domain.ErrNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Comment")).Return(nil)
		uc := usecase.NewCommentUsecase(repo, &recordingNotifier{}, validation.New())

		c, err := uc.Create(ctx, "user-1", nil, &domain.CreateCommentInput{EntityType: "JobPost", EntityID: "ops:1", Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", c.AuthorUserID)
		assert.Nil(t, c.ParentCommentID)
	})

	t.Run("reply needs an existing parent", func(t *testing.T) {
		parentID := uuid.New()
		repo := new(MockCommentRepo)
		repo.On("GetByID", ctx, parentID).Return(nil, domain.ErrNotFound)
		uc := usecase.NewCommentUsecase(repo, &recordingNotifier{}, validation.New())

		_, err := uc.Create(ctx, "user-1", nil, &domain.CreateCommentInput{EntityType: "JobPost", EntityID: "ops:1", ParentCommentID: &parentID, Content: "re"})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("reply parent must belong to the same entity", func(t *testing.T) {
		parent := &domain.Comment{ID: uuid.New(), EntityType: "JobPost", EntityID: "other:1"}
		repo := new(MockCommentRepo)
		repo.On("GetByID", ctx, parent.ID).Return(parent, nil)
		uc := usecase.NewCommentUsecase(repo, &recordingNotifier{}, validation.New())

		_, err := uc.Create(ctx, "user-1", nil, &domain.CreateCommentInput{EntityType: "JobPost", EntityID: "ops:1", ParentCommentID: &parent.ID, Content: "re"})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})
}

func TestCommentThread(t *testing.T) {
	ctx := context.Background()
	root := &domain.Comment{ID: uuid.New(), EntityType: "JobPost", EntityID: "ops:1"}

	repo := new(MockCommentRepo)
	repo.On("GetRoot", ctx, "JobPost", "ops:1").Return(root, nil)
	repo.On("ListReplies", ctx, root.ID).Return([]domain.Comment(nil), nil)
	uc := usecase.NewCommentUsecase(repo, &recordingNotifier{}, validation.New())

	thread, err := uc.Thread(ctx, "JobPost", "ops:1")
	require.NoError(t, err)
	assert.Equal(t, root.ID, thread.Root.ID)
	assert.NotNil(t, thread.Replies)
	assert.Empty(t, thread.Replies)
}

func TestCommentDeleteNotifiesRemoval(t *testing.T) {
	ctx := context.Background()
	c := &domain.Comment{ID: uuid.New()}

	repo := new(MockCommentRepo)
	repo.On("GetByID", ctx, c.ID).Return(c, nil)
	repo.On("Delete", ctx, c.ID).Return(nil)
	n := &recordingNotifier{}
	uc := usecase.NewCommentUsecase(repo, n, validation.New())

	require.NoError(t, uc.Delete(ctx, c.ID))
	require.Len(t, n.sent, 1)
	assert.True(t, n.sent[0].Deleted)
	assert.Equal(t, c.ID.String(), n.sent[0].EntityID)
}
