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

type commentUsecase struct {
	repo     domain.CommentRepository
	sync     domain.SyncNotifier
	validate *validator.Validate
}

func NewCommentUsecase(repo domain.CommentRepository, sync domain.SyncNotifier, validate *validator.Validate) domain.CommentUsecase {
	return &commentUsecase{repo: repo, sync: sync, validate: validate}
}

// Create adds a reply, or the single top-level comment of an entity. A second
// top-level comment overwrites the content of the existing one.
func (u *commentUsecase) Create(ctx context.Context, userID string, tenantID *string, input *domain.CreateCommentInput) (*domain.Comment, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	now := time.Now()

	if input.ParentCommentID == nil {
		existing, err := u.repo.GetRoot(ctx, input.EntityType, input.EntityID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			if err := u.repo.UpdateContent(ctx, existing.ID, input.Content, userID); err != nil {
				return nil, err
			}
			existing.Content = input.Content
			existing.UpdatedAt = now
			existing.UpdatedBy = userPtr(userID)
			u.notify(ctx, existing.ID, false)
			return existing, nil
		}
	} else {
		parent, err := u.repo.GetByID(ctx, *input.ParentCommentID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.BadRequest("Parent comment does not exist")
		}
		if err != nil {
			return nil, err
		}
		if parent.EntityType != input.EntityType || parent.EntityID != input.EntityID {
			return nil, apperror.BadRequest("Parent comment belongs to another entity")
		}
	}

	c := &domain.Comment{
		ID:              uuid.New(),
		EntityType:      input.EntityType,
		EntityID:        input.EntityID,
		ParentCommentID: input.ParentCommentID,
		Content:         input.Content,
		AuthorUserID:    userID,
		TenantID:        tenantID,
		GdprSyncFields:  domain.DefaultGdprFields(),
		AuditFields: domain.AuditFields{
			CreatedAt: now, UpdatedAt: now,
			CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
		},
	}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	u.notify(ctx, c.ID, false)
	return c, nil
}

func (u *commentUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	c, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Comment not found")
	}
	return c, err
}

func (u *commentUsecase) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.Comment, error) {
	return u.repo.ListByEntity(ctx, entityType, entityID)
}

func (u *commentUsecase) Thread(ctx context.Context, entityType, entityID string) (*domain.CommentThread, error) {
	root, err := u.repo.GetRoot(ctx, entityType, entityID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Comment thread not found")
	}
	if err != nil {
		return nil, err
	}
	replies, err := u.repo.ListReplies(ctx, root.ID)
	if err != nil {
		return nil, err
	}
	if replies == nil {
		replies = []domain.Comment{}
	}
	return &domain.CommentThread{Root: *root, Replies: replies}, nil
}

// Update changes the content only; author and entity stay fixed.
func (u *commentUsecase) Update(ctx context.Context, userID string, id uuid.UUID, input *domain.UpdateCommentInput) (*domain.Comment, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	c, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.repo.UpdateContent(ctx, id, input.Content, userID); err != nil {
		return nil, err
	}
	c.Content = input.Content
	c.UpdatedAt = time.Now()
	c.UpdatedBy = userPtr(userID)
	u.notify(ctx, c.ID, false)
	return c, nil
}

func (u *commentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := u.Get(ctx, id); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	u.notify(ctx, id, true)
	return nil
}

func (u *commentUsecase) notify(ctx context.Context, id uuid.UUID, deleted bool) {
	notify(ctx, u.sync, domain.EntityComment, id.String(), domain.TableComments, deleted)
}
