package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationStatusApplied    = "applied"
	ApplicationStatusInProgress = "in_progress"
	ApplicationStatusHired      = "hired"
	ApplicationStatusRejected   = "rejected"
	ApplicationStatusWithdrawn  = "withdrawn"
)

type JobApplication struct {
	ID             uuid.UUID            `json:"id"`
	UserID         string               `json:"user_id"`
	JobPostName    string               `json:"job_post_name"`
	JobPostVersion int                  `json:"job_post_version"`
	Status         string               `json:"status"`
	CurrentStep    int                  `json:"current_step"`
	TenantID       *string              `json:"tenant_id,omitempty"`
	Steps          []JobApplicationStep `json:"steps,omitempty"`
	Candidate      *UserProfile         `json:"candidate,omitempty"`
	GdprSyncFields
	AuditFields
}

type JobApplicationStep struct {
	ID               uuid.UUID  `json:"id"`
	JobApplicationID uuid.UUID  `json:"job_application_id"`
	StepNumber       int        `json:"step_number"`
	StepName         string     `json:"step_name"`
	StepVersion      *int       `json:"step_version,omitempty"`
	Status           string     `json:"status"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	GdprSyncFields
	AuditFields
}

type ApplyInput struct {
	JobPostName    string `json:"job_post_name" validate:"required,max=255"`
	JobPostVersion int    `json:"job_post_version" validate:"gt=0"`
}

type UpdateApplicationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=applied in_progress hired rejected withdrawn"`
}

type JobApplicationRepository interface {
	// Create inserts the application and its steps in one transaction. With
	// maxCandidates > 0 the job post row is locked and ErrCandidateLimitReached
	// is returned once that many active applications exist.
	Create(ctx context.Context, app *JobApplication, maxCandidates int) error
	GetByID(ctx context.Context, id uuid.UUID) (*JobApplication, error)
	Exists(ctx context.Context, userID, jobPostName string, jobPostVersion int) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]JobApplication, error)
	ListByJobPost(ctx context.Context, jobPostName string, jobPostVersion int) ([]JobApplication, error)
	ListSteps(ctx context.Context, applicationID uuid.UUID) ([]JobApplicationStep, error)
	GetStep(ctx context.Context, stepID uuid.UUID) (*JobApplicationStep, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, userID string) error
	CompleteStep(ctx context.Context, applicationID uuid.UUID, stepNumber int, userID string) (*JobApplicationStep, error)
}

type JobApplicationUsecase interface {
	Apply(ctx context.Context, userID string, tenantID *string, input *ApplyInput) (*JobApplication, error)
	ListMine(ctx context.Context, userID string) ([]JobApplication, error)
	ListByJobPost(ctx context.Context, jobPostName string, jobPostVersion int) ([]JobApplication, error)
	Get(ctx context.Context, id uuid.UUID) (*JobApplication, error)
	UpdateStatus(ctx context.Context, userID string, id uuid.UUID, input *UpdateApplicationStatusInput) (*JobApplication, error)
	AdvanceStep(ctx context.Context, userID string, id uuid.UUID) (*JobApplication, error)
	ExportByJobPost(ctx context.Context, jobPostName string, jobPostVersion int) ([]byte, error)
}
