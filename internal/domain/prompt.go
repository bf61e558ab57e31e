package domain

import (
	"context"

	"github.com/google/uuid"
)

const TranscriptScoringPromptName = "Transcript Scoring Prompt"

// ProtectedPromptNames cannot be duplicated under a new name.
var ProtectedPromptNames = map[string]struct{}{
	"CVExtractionSystemInstructions":  {},
	"CVExtractionScoringInstructions": {},
}

type Prompt struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Locale    *string   `json:"locale,omitempty"`
	Tags      []string  `json:"tags"`
	TenantID  *string   `json:"tenant_id,omitempty"`
	IsDeleted bool      `json:"is_deleted"`
	AuditFields
}

type PromptInput struct {
	Name     string   `json:"name" validate:"required,max=255"`
	Category string   `json:"category" validate:"required,max=100"`
	Content  string   `json:"content" validate:"required"`
	Locale   *string  `json:"locale" validate:"omitempty,max=10"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=50"`
}

type UpdatePromptInput struct {
	PromptInput
	ShouldUpdateVersion bool `json:"should_update_version"`
}

type DuplicatePromptInput struct {
	NewName string `json:"new_name" validate:"required,max=255"`
}

type PromptFilter struct {
	Category       string
	Locale         string
	Search         string
	IncludeDeleted bool
	PageParams
}

type PromptRepository interface {
	Create(ctx context.Context, prompt *Prompt) error
	Get(ctx context.Context, name string, version int) (*Prompt, error)
	GetLatest(ctx context.Context, name string) (*Prompt, error)
	ListVersions(ctx context.Context, name string) ([]Prompt, error)
	List(ctx context.Context, filter PromptFilter) ([]Prompt, int64, error)
	Categories(ctx context.Context) ([]string, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	MaxVersion(ctx context.Context, name string) (int, error)
	Update(ctx context.Context, prompt *Prompt) error
	SetDeleted(ctx context.Context, name string, version int, deleted bool, userID string) error
	Delete(ctx context.Context, name string, version int) error
	// CountExplicitReferences counts configurations and interviews pinned to this exact version.
	CountExplicitReferences(ctx context.Context, name string, version int) (int64, error)
	// CountDynamicReferences counts configurations referencing the name without a version.
	CountDynamicReferences(ctx context.Context, name string) (int64, error)
}

type PromptUsecase interface {
	Create(ctx context.Context, userID string, tenantID *string, input *PromptInput) (*Prompt, error)
	Get(ctx context.Context, name string, version int) (*Prompt, error)
	GetLatest(ctx context.Context, name string) (*Prompt, error)
	ListVersions(ctx context.Context, name string) ([]Prompt, error)
	List(ctx context.Context, filter PromptFilter) (*PaginatedResult[Prompt], error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, userID string, name string, version int, input *UpdatePromptInput) (*Prompt, error)
	Duplicate(ctx context.Context, userID string, name string, version int, input *DuplicatePromptInput) (*Prompt, error)
	Delete(ctx context.Context, userID string, name string, version int) error
	Restore(ctx context.Context, userID string, name string, version int) (*Prompt, error)
	// Resolve returns the given version, or the latest one when version is nil.
	Resolve(ctx context.Context, name string, version *int) (*Prompt, error)
}
