package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Interview snapshots the configuration and prompt versions it ran with.
type Interview struct {
	ID                            uuid.UUID  `json:"id"`
	JobApplicationStepID          uuid.UUID  `json:"job_application_step_id"`
	InterviewConfigurationName    string     `json:"interview_configuration_name"`
	InterviewConfigurationVersion int        `json:"interview_configuration_version"`
	InstructionPromptName         *string    `json:"instruction_prompt_name,omitempty"`
	InstructionPromptVersion      *int       `json:"instruction_prompt_version,omitempty"`
	PersonalityPromptName         *string    `json:"personality_prompt_name,omitempty"`
	PersonalityPromptVersion      *int       `json:"personality_prompt_version,omitempty"`
	QuestionsPromptName           *string    `json:"questions_prompt_name,omitempty"`
	QuestionsPromptVersion        *int       `json:"questions_prompt_version,omitempty"`
	ConversationID                *string    `json:"conversation_id,omitempty"`
	StartedAt                     *time.Time `json:"started_at,omitempty"`
	CompletedAt                   *time.Time `json:"completed_at,omitempty"`
	Duration                      *int       `json:"duration,omitempty"` // seconds
	TenantID                      *string    `json:"tenant_id,omitempty"`
	GdprSyncFields
	AuditFields
}

type CreateInterviewInput struct {
	JobApplicationStepID          uuid.UUID `json:"job_application_step_id" validate:"required"`
	InterviewConfigurationName    string    `json:"interview_configuration_name" validate:"required,max=255"`
	InterviewConfigurationVersion int       `json:"interview_configuration_version" validate:"gt=0"`
	ConversationID                *string   `json:"conversation_id" validate:"omitempty,max=255"`
}

// Scoring holds the LLM scores of one interview, one row per interview.
type Scoring struct {
	ID             uuid.UUID `json:"id"`
	InterviewID    uuid.UUID `json:"interview_id"`
	Technical      float64   `json:"technical"`
	Communication  float64   `json:"communication"`
	ProblemSolving float64   `json:"problem_solving"`
	English        float64   `json:"english"`
	Average        float64   `json:"average"`
	Details        *string   `json:"details,omitempty"`
	GdprSyncFields
	AuditFields
}

// TranscriptEntry is one utterance of an interview conversation.
type TranscriptEntry struct {
	Role           string `json:"role" validate:"required"`
	Message        string `json:"message"`
	TimeInCallSecs int    `json:"time_in_call_secs"`
}

type ScoreTranscriptInput struct {
	ConversationID string            `json:"conversation_id" validate:"required"`
	Transcript     []TranscriptEntry `json:"transcript" validate:"required,min=1,dive"`
}

type InterviewRepository interface {
	Create(ctx context.Context, interview *Interview) error
	GetByID(ctx context.Context, id uuid.UUID) (*Interview, error)
	GetByConversationID(ctx context.Context, conversationID string) (*Interview, error)
	ListByApplicationStep(ctx context.Context, stepID uuid.UUID) ([]Interview, error)
	Complete(ctx context.Context, id uuid.UUID, completedAt time.Time, duration int) error
}

type ScoringRepository interface {
	Upsert(ctx context.Context, scoring *Scoring) error
	GetByInterviewID(ctx context.Context, interviewID uuid.UUID) (*Scoring, error)
}

type InterviewUsecase interface {
	Create(ctx context.Context, userID string, tenantID *string, input *CreateInterviewInput) (*Interview, error)
	Get(ctx context.Context, id uuid.UUID) (*Interview, error)
	ListByApplicationStep(ctx context.Context, stepID uuid.UUID) ([]Interview, error)
	Complete(ctx context.Context, id uuid.UUID) (*Interview, error)
	ScoreTranscript(ctx context.Context, input *ScoreTranscriptInput) (*Scoring, error)
	GetScore(ctx context.Context, interviewID uuid.UUID) (*Scoring, error)
}
