package domain

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	TemplateTypeQuiz        = "Quiz"
	TemplateTypePersonality = "Personality"
	TemplateTypeForm        = "Form"
)

const (
	QuestionTypeText         = "Text"
	QuestionTypeTextarea     = "Textarea"
	QuestionTypeRadio        = "Radio"
	QuestionTypeCheckbox     = "Checkbox"
	QuestionTypeDropdown     = "Dropdown"
	QuestionTypeSingleChoice = "SingleChoice"
	QuestionTypeMultiChoice  = "MultiChoice"
	QuestionTypeLikert       = "Likert"
)

var allowedQuestionTypes = map[string]map[string]struct{}{
	TemplateTypeQuiz: {
		QuestionTypeSingleChoice: {}, QuestionTypeMultiChoice: {},
	},
	TemplateTypePersonality: {
		QuestionTypeLikert: {},
	},
	TemplateTypeForm: {
		QuestionTypeText: {}, QuestionTypeTextarea: {}, QuestionTypeRadio: {}, QuestionTypeCheckbox: {},
		QuestionTypeDropdown: {}, QuestionTypeSingleChoice: {}, QuestionTypeMultiChoice: {}, QuestionTypeLikert: {},
	},
}

// IsQuestionTypeAllowed reports whether a template of templateType may hold questionType.
func IsQuestionTypeAllowed(templateType, questionType string) bool {
	allowed, ok := allowedQuestionTypes[templateType]
	if !ok {
		return false
	}
	_, ok = allowed[questionType]
	return ok
}

type QuestionnaireTemplate struct {
	ID           uuid.UUID              `json:"id"`
	Name         string                 `json:"name"`
	Version      int                    `json:"version"`
	TemplateType string                 `json:"template_type"`
	Title        string                 `json:"title"`
	Description  *string                `json:"description,omitempty"`
	Sections     []QuestionnaireSection `json:"sections"`
	TenantID     *string                `json:"tenant_id,omitempty"`
	IsDeleted    bool                   `json:"is_deleted"`
	AuditFields
}

type QuestionnaireSection struct {
	Title     string                  `json:"title" validate:"required,max=255"`
	Order     int                     `json:"order"`
	Questions []QuestionnaireQuestion `json:"questions" validate:"dive"`
}

type QuestionnaireQuestion struct {
	Name         string                `json:"name" validate:"required,max=255"`
	Text         string                `json:"text" validate:"required"`
	QuestionType string                `json:"question_type" validate:"required"`
	IsRequired   bool                  `json:"is_required"`
	Order        int                   `json:"order"`
	Options      []QuestionnaireOption `json:"options" validate:"dive"`
}

type QuestionnaireOption struct {
	Label     string   `json:"label" validate:"required,max=255"`
	Name      string   `json:"name" validate:"max=255"`
	IsCorrect bool     `json:"is_correct"`
	Score     *float64 `json:"score,omitempty"`
	Order     int      `json:"order"`
}

type QuestionnaireTemplateInput struct {
	Name         string                 `json:"name" validate:"required,max=255"`
	TemplateType string                 `json:"template_type" validate:"required,oneof=Quiz Personality Form"`
	Title        string                 `json:"title" validate:"required,max=255"`
	Description  *string                `json:"description" validate:"omitempty,max=2000"`
	Sections     []QuestionnaireSection `json:"sections" validate:"dive"`
}

// ImportRowError ties an import failure to its 1-based worksheet row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

type ImportResult struct {
	Templates []QuestionnaireTemplate `json:"templates"`
	Errors    []ImportRowError        `json:"errors,omitempty"`
}

type QuestionnaireFilter struct {
	TemplateType string
	Search       string
	PageParams
}

type QuestionnaireRepository interface {
	Create(ctx context.Context, tpl *QuestionnaireTemplate) error
	Get(ctx context.Context, id uuid.UUID) (*QuestionnaireTemplate, error)
	GetLatestByName(ctx context.Context, name string) (*QuestionnaireTemplate, error)
	List(ctx context.Context, filter QuestionnaireFilter) ([]QuestionnaireTemplate, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// ApplyImport persists every created and updated template atomically.
	ApplyImport(ctx context.Context, created, updated []*QuestionnaireTemplate) error
	SoftDelete(ctx context.Context, id uuid.UUID, userID string) error
}

type QuestionnaireUsecase interface {
	Create(ctx context.Context, userID string, tenantID *string, input *QuestionnaireTemplateInput) (*QuestionnaireTemplate, error)
	Get(ctx context.Context, id uuid.UUID) (*QuestionnaireTemplate, error)
	List(ctx context.Context, filter QuestionnaireFilter) (*PaginatedResult[QuestionnaireTemplate], error)
	Import(ctx context.Context, userID string, tenantID *string, workbook []byte) (*ImportResult, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}
