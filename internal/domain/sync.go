package domain

import (
	"context"
	"time"
)

// SyncMessage announces that one row changed in SourceRegion.
type SyncMessage struct {
	SyncEventID     string    `json:"SyncEventId"`
	EntityType      string    `json:"EntityType"`
	EntityID        string    `json:"EntityId"`
	SourceRegion    string    `json:"SourceRegion"`
	ChangeTimestamp time.Time `json:"ChangeTimestamp"`
	TableName       *string   `json:"TableName,omitempty"`
	IsDeleted       bool      `json:"IsDeleted"`
}

type SyncScope string

const (
	SyncScopeGlobalSanitized  SyncScope = "GlobalSanitized"
	SyncScopeEUOnly           SyncScope = "EUOnly"
	SyncScopeScopedByExposure SyncScope = "ScopedByExposure"
)

type DataClassification string

const (
	ClassificationNonPersonal DataClassification = "NonPersonal"
	ClassificationPersonal    DataClassification = "Personal"
	ClassificationSensitive   DataClassification = "Sensitive"
)

type LegalBasis string

const (
	LegalBasisNone               LegalBasis = "None"
	LegalBasisConsent            LegalBasis = "Consent"
	LegalBasisContract           LegalBasis = "Contract"
	LegalBasisLegalObligation    LegalBasis = "LegalObligation"
	LegalBasisLegitimateInterest LegalBasis = "LegitimateInterest"
)

// EntitySyncConfiguration describes how one entity type replicates across regions.
type EntitySyncConfiguration struct {
	EntityTypeName                    string             `json:"entity_type_name"`
	TableName                         *string            `json:"table_name,omitempty"`
	DataClassification                DataClassification `json:"data_classification"`
	SyncScope                         SyncScope          `json:"sync_scope"`
	LegalBasis                        LegalBasis         `json:"legal_basis"`
	LegalBasisRef                     *string            `json:"legal_basis_ref,omitempty"`
	ProcessingPurpose                 string             `json:"processing_purpose"`
	RequiresSanitizationForGlobalSync bool               `json:"requires_sanitization_for_global_sync"`
	AllowSanitizationOverrideConsent  bool               `json:"allow_sanitization_override_consent"`
	DependsOnEntities                 *string            `json:"depends_on_entities,omitempty"`
	IsEnabled                         bool               `json:"is_enabled"`
	Notes                             *string            `json:"notes,omitempty"`
	CreatedAt                         time.Time          `json:"created_at"`
	UpdatedAt                         time.Time          `json:"updated_at"`
}

type UpdateSyncConfigurationInput struct {
	SyncScope                         *SyncScope `json:"sync_scope" validate:"omitempty,sync_scope"`
	RequiresSanitizationForGlobalSync *bool      `json:"requires_sanitization_for_global_sync"`
	AllowSanitizationOverrideConsent  *bool      `json:"allow_sanitization_override_consent"`
	IsEnabled                         *bool      `json:"is_enabled"`
	Notes                             *string    `json:"notes" validate:"omitempty,max=2000"`
}

// SyncRowMetadata is the GDPR slice of a synced row the policy needs.
type SyncRowMetadata struct {
	DataResidency                 DataResidency
	DataOriginRegion              DataRegion
	CountryExposureSetID          *string
	IsSanitized                   bool
	SanitizationOverrideConsentAt *time.Time
}

type EntitySyncConfigurationRepository interface {
	List(ctx context.Context) ([]EntitySyncConfiguration, error)
	GetByEntityType(ctx context.Context, entityType string) (*EntitySyncConfiguration, error)
	Update(ctx context.Context, cfg *EntitySyncConfiguration) error
}

type SyncConfigurationUsecase interface {
	List(ctx context.Context) ([]EntitySyncConfiguration, error)
	Get(ctx context.Context, entityType string) (*EntitySyncConfiguration, error)
	Update(ctx context.Context, entityType string, input *UpdateSyncConfigurationInput) (*EntitySyncConfiguration, error)
	DetermineTargets(ctx context.Context, msg *SyncMessage) ([]string, error)
}

// SyncNotifier is called after every committed mutation of a synced entity.
type SyncNotifier interface {
	NotifyChanged(ctx context.Context, entityType, entityID, table string, deleted bool)
	// NotifyChangedBatch announces the changes of one commit together.
	NotifyChangedBatch(ctx context.Context, changes []SyncChange)
}

// SyncChange is one committed mutation of a synced row.
type SyncChange struct {
	EntityType string
	EntityID   string
	Table      string
	Deleted    bool
}

// NoopSyncNotifier drops notifications; used when no broker is configured.
type NoopSyncNotifier struct{}

func (NoopSyncNotifier) NotifyChanged(context.Context, string, string, string, bool) {}
func (NoopSyncNotifier) NotifyChangedBatch(context.Context, []SyncChange) {}

// Entity types published on the sync bus and the tables backing them.
const (
	EntityCountry                = "Country"
	EntityJobPost                = "JobPost"
	EntityCandidate              = "Candidate"
	EntityJobApplication         = "JobApplication"
	EntityInterview              = "Interview"
	EntityUserProfile            = "UserProfile"
	EntityFile                   = "File"
	EntityComment                = "Comment"
	EntityFeedback               = "Feedback"
	EntityInterviewConfiguration = "InterviewConfiguration"
	EntityJobPostStep            = "JobPostStep"
	EntityJobApplicationStep     = "JobApplicationStep"

	TableCountries               = "countries"
	TableJobPosts                = "job_posts"
	TableJobApplications         = "job_applications"
	TableInterviews              = "interviews"
	TableUserProfiles            = "user_profiles"
	TableFiles                   = "files"
	TableComments                = "comments"
	TableScorings                = "scorings"
	TableInterviewConfigurations = "interview_configurations"
	TableJobPostSteps            = "job_post_steps"
	TableJobApplicationSteps     = "job_application_steps"
)
