package domain

import (
	"context"

	"github.com/google/uuid"
)

const (
	ParticipantCandidate = "Candidate"
	StepTypeInterview    = "Interview"
	StepStatusPending    = "pending"
	StepStatusCompleted  = "completed"
)

type JobPostStep struct {
	ID                            uuid.UUID `json:"id"`
	Name                          string    `json:"name"`
	Version                       int       `json:"version"`
	Participant                   string    `json:"participant"`
	StepType                      string    `json:"step_type"`
	ShowStepForCandidate          bool      `json:"show_step_for_candidate"`
	ShowSpinner                   bool      `json:"show_spinner"`
	DisplayTitle                  *string   `json:"display_title,omitempty"`
	DisplayContent                *string   `json:"display_content,omitempty"`
	InterviewConfigurationName    *string   `json:"interview_configuration_name,omitempty"`
	InterviewConfigurationVersion *int      `json:"interview_configuration_version,omitempty"`
	PromptName                    *string   `json:"prompt_name,omitempty"`
	PromptVersion                 *int      `json:"prompt_version,omitempty"`
	TenantID                      *string   `json:"tenant_id,omitempty"`
	IsDeleted                     bool      `json:"is_deleted"`
	GdprSyncFields
	AuditFields
}

// IsInterview reports whether the candidate takes part in an interview at this step.
func (s *JobPostStep) IsInterview() bool {
	return s.Participant == ParticipantCandidate && s.StepType == StepTypeInterview
}

// ApplyParticipantRules forces visibility flags for candidate-facing steps.
func (s *JobPostStep) ApplyParticipantRules() {
	if s.Participant == ParticipantCandidate {
		s.ShowStepForCandidate = true
		s.ShowSpinner = false
	}
}

type JobPostStepInput struct {
	Name                          string  `json:"name" validate:"required,max=255"`
	Participant                   string  `json:"participant" validate:"required,max=100"`
	StepType                      string  `json:"step_type" validate:"required,max=100"`
	ShowStepForCandidate          bool    `json:"show_step_for_candidate"`
	ShowSpinner                   bool    `json:"show_spinner"`
	DisplayTitle                  *string `json:"display_title" validate:"omitempty,max=255"`
	DisplayContent                *string `json:"display_content"`
	InterviewConfigurationName    *string `json:"interview_configuration_name" validate:"omitempty,max=255"`
	InterviewConfigurationVersion *int    `json:"interview_configuration_version" validate:"omitempty,gt=0"`
	PromptName                    *string `json:"prompt_name" validate:"omitempty,max=255"`
	PromptVersion                 *int    `json:"prompt_version" validate:"omitempty,gt=0"`
}

type UpdateJobPostStepInput struct {
	JobPostStepInput
	ShouldUpdateVersion bool `json:"should_update_version"`
}

// JobPostStepAssignment places a step (optionally pinned to a version) on a job post.
type JobPostStepAssignment struct {
	ID             uuid.UUID `json:"id"`
	JobPostName    string    `json:"job_post_name"`
	JobPostVersion int       `json:"job_post_version"`
	StepNumber     int       `json:"step_number"`
	StepName       string    `json:"step_name"`
	StepVersion    *int      `json:"step_version,omitempty"`
	Status         string    `json:"status"`
	GdprSyncFields
	AuditFields
}

type StepAssignmentInput struct {
	StepNumber  int    `json:"step_number" validate:"min=1"`
	StepName    string `json:"step_name" validate:"required,max=255"`
	StepVersion *int   `json:"step_version" validate:"omitempty,gt=0"`
}

type JobPostStepFilter struct {
	Search   string
	TenantID *string
	PageParams
}

type JobPostStepRepository interface {
	Create(ctx context.Context, step *JobPostStep) error
	Get(ctx context.Context, name string, version int) (*JobPostStep, error)
	GetLatest(ctx context.Context, name string) (*JobPostStep, error)
	ListVersions(ctx context.Context, name string) ([]JobPostStep, error)
	List(ctx context.Context, filter JobPostStepFilter) ([]JobPostStep, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	MaxVersion(ctx context.Context, name string) (int, error)
	Update(ctx context.Context, step *JobPostStep) error
	SoftDelete(ctx context.Context, name string, version int, userID string) error
	Delete(ctx context.Context, name string, version int) error
	CountAssignments(ctx context.Context, name string, version int) (int64, error)
}

type StepAssignmentRepository interface {
	ListByJobPost(ctx context.Context, jobPostName string, jobPostVersion int) ([]JobPostStepAssignment, error)
	// ReplaceAll swaps the full assignment list of a post in one transaction.
	ReplaceAll(ctx context.Context, jobPostName string, jobPostVersion int, items []JobPostStepAssignment) error
	Remove(ctx context.Context, jobPostName string, jobPostVersion int, stepNumber int) (*JobPostStepAssignment, error)
}

type JobPostStepUsecase interface {
	Create(ctx context.Context, userID string, tenantID *string, input *JobPostStepInput) (*JobPostStep, error)
	Get(ctx context.Context, name string, version int) (*JobPostStep, error)
	GetLatest(ctx context.Context, name string) (*JobPostStep, error)
	ListVersions(ctx context.Context, name string) ([]JobPostStep, error)
	List(ctx context.Context, filter JobPostStepFilter) (*PaginatedResult[JobPostStep], error)
	Update(ctx context.Context, userID string, name string, version int, input *UpdateJobPostStepInput) (*JobPostStep, error)
	Delete(ctx context.Context, userID string, name string, version int) error

	ListAssignments(ctx context.Context, jobPostName string, jobPostVersion int) ([]JobPostStepAssignment, error)
	ReplaceAssignments(ctx context.Context, userID string, jobPostName string, jobPostVersion int, items []StepAssignmentInput) ([]JobPostStepAssignment, error)
	RemoveAssignment(ctx context.Context, jobPostName string, jobPostVersion int, stepNumber int) error
}
