package domain

import (
	"context"

	"github.com/google/uuid"
)

type InterviewConfiguration struct {
	ID                       uuid.UUID `json:"id"`
	Name                     string    `json:"name"`
	Version                  int       `json:"version"`
	Modality                 string    `json:"modality"`
	Tone                     *string   `json:"tone,omitempty"`
	ProbingDepth             *string   `json:"probing_depth,omitempty"`
	FocusArea                *string   `json:"focus_area,omitempty"`
	Language                 *string   `json:"language,omitempty"`
	Duration                 *int      `json:"duration,omitempty"`
	InstructionPromptName    string    `json:"instruction_prompt_name"`
	InstructionPromptVersion *int      `json:"instruction_prompt_version,omitempty"`
	PersonalityPromptName    string    `json:"personality_prompt_name"`
	PersonalityPromptVersion *int      `json:"personality_prompt_version,omitempty"`
	QuestionsPromptName      string    `json:"questions_prompt_name"`
	QuestionsPromptVersion   *int      `json:"questions_prompt_version,omitempty"`
	IsActive                 bool      `json:"is_active"`
	TenantID                 *string   `json:"tenant_id,omitempty"`
	IsDeleted                bool      `json:"is_deleted"`
	GdprSyncFields
	AuditFields
}

type InterviewConfigurationInput struct {
	Name                     string  `json:"name" validate:"required,max=255"`
	Modality                 string  `json:"modality" validate:"required,max=100"`
	Tone                     *string `json:"tone" validate:"omitempty,max=100"`
	ProbingDepth             *string `json:"probing_depth" validate:"omitempty,max=100"`
	FocusArea                *string `json:"focus_area" validate:"omitempty,max=255"`
	Language                 *string `json:"language" validate:"omitempty,max=50"`
	Duration                 *int    `json:"duration" validate:"omitempty,gt=0"`
	InstructionPromptName    string  `json:"instruction_prompt_name" validate:"required,max=255"`
	InstructionPromptVersion *int    `json:"instruction_prompt_version" validate:"omitempty,gt=0"`
	PersonalityPromptName    string  `json:"personality_prompt_name" validate:"required,max=255"`
	PersonalityPromptVersion *int    `json:"personality_prompt_version" validate:"omitempty,gt=0"`
	QuestionsPromptName      string  `json:"questions_prompt_name" validate:"required,max=255"`
	QuestionsPromptVersion   *int    `json:"questions_prompt_version" validate:"omitempty,gt=0"`
	IsActive                 *bool   `json:"is_active"`
}

type UpdateInterviewConfigurationInput struct {
	InterviewConfigurationInput
	ShouldUpdateVersion bool `json:"should_update_version"`
}

type InterviewConfigurationFilter struct {
	Search     string
	ActiveOnly bool
	TenantID   *string
	PageParams
}

type InterviewConfigurationRepository interface {
	Create(ctx context.Context, cfg *InterviewConfiguration) error
	Get(ctx context.Context, name string, version int) (*InterviewConfiguration, error)
	GetLatest(ctx context.Context, name string) (*InterviewConfiguration, error)
	List(ctx context.Context, filter InterviewConfigurationFilter) ([]InterviewConfiguration, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	MaxVersion(ctx context.Context, name string) (int, error)
	Update(ctx context.Context, cfg *InterviewConfiguration) error
	SoftDelete(ctx context.Context, name string, version int, userID string) error
	Delete(ctx context.Context, name string, version int) error
	CountInterviews(ctx context.Context, name string, version int) (int64, error)
}

type InterviewConfigurationUsecase interface {
	Create(ctx context.Context, userID string, tenantID *string, input *InterviewConfigurationInput) (*InterviewConfiguration, error)
	Get(ctx context.Context, name string, version int) (*InterviewConfiguration, error)
	GetLatest(ctx context.Context, name string) (*InterviewConfiguration, error)
	List(ctx context.Context, filter InterviewConfigurationFilter) (*PaginatedResult[InterviewConfiguration], error)
	Update(ctx context.Context, userID string, name string, version int, input *UpdateInterviewConfigurationInput) (*InterviewConfiguration, error)
	Delete(ctx context.Context, userID string, name string, version int) error
}
