package domain

import (
	"context"

	"github.com/google/uuid"
)

type Comment struct {
	ID              uuid.UUID  `json:"id"`
	EntityType      string     `json:"entity_type"`
	EntityID        string     `json:"entity_id"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	Content         string     `json:"content"`
	AuthorUserID    string     `json:"author_user_id"`
	TenantID        *string    `json:"tenant_id,omitempty"`
	GdprSyncFields
	AuditFields
}

type CreateCommentInput struct {
	EntityType      string     `json:"entity_type" validate:"required,max=100"`
	EntityID        string     `json:"entity_id" validate:"required,max=255"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
	Content         string     `json:"content" validate:"required,max=5000"`
}

type UpdateCommentInput struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CommentThread is a top-level comment with its direct replies, oldest first.
type CommentThread struct {
	Root    Comment   `json:"root"`
	Replies []Comment `json:"replies"`
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	GetRoot(ctx context.Context, entityType, entityID string) (*Comment, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]Comment, error)
	ListReplies(ctx context.Context, parentID uuid.UUID) ([]Comment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string, userID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentUsecase interface {
	Create(ctx context.Context, userID string, tenantID *string, input *CreateCommentInput) (*Comment, error)
	Get(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]Comment, error)
	Thread(ctx context.Context, entityType, entityID string) (*CommentThread, error)
	Update(ctx context.Context, userID string, id uuid.UUID, input *UpdateCommentInput) (*Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
