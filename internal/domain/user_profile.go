package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserProfile is the candidate-facing profile, one per user.
type UserProfile struct {
	ID                 uuid.UUID `json:"id"`
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PhoneNumber        *string   `json:"phone_number,omitempty"`
	Nationality        *string   `json:"nationality,omitempty"`
	ProfilePictureURL  *string   `json:"profile_picture_url,omitempty"`
	ResumeURL          *string   `json:"resume_url,omitempty"`
	JobTypePreferences []string  `json:"job_type_preferences"`
	RemotePreferences  []string  `json:"remote_preferences"`
	Roles              []string  `json:"roles"`
	Age                *int      `json:"age,omitempty"`
	Bio                *string   `json:"bio,omitempty"`
	OpenToRelocation   *bool     `json:"open_to_relocation,omitempty"`
	TenantID           *string   `json:"tenant_id,omitempty"`
	GdprSyncFields
	AuditFields
}

type UpsertUserProfileInput struct {
	Name               string   `json:"name" validate:"required,max=255,valid_name"`
	Email              string   `json:"email" validate:"required,email"`
	PhoneNumber        *string  `json:"phone_number" validate:"omitempty,valid_phone"`
	Nationality        *string  `json:"nationality" validate:"omitempty,country_code"`
	ProfilePictureURL  *string  `json:"profile_picture_url" validate:"omitempty,max=2048"`
	ResumeURL          *string  `json:"resume_url" validate:"omitempty,max=2048"`
	JobTypePreferences []string `json:"job_type_preferences" validate:"omitempty,dive,job_type"`
	RemotePreferences  []string `json:"remote_preferences" validate:"omitempty,dive,oneof=Onsite Hybrid Remote"`
	Roles              []string `json:"roles" validate:"omitempty,dive,max=100"`
	Age                *int     `json:"age" validate:"omitempty,min=16,max=100"`
	Bio                *string  `json:"bio" validate:"omitempty,max=2000,no_emoji"`
	OpenToRelocation   *bool    `json:"open_to_relocation"`
}

type UserProfileFilter struct {
	Search   string
	TenantID *string
	PageParams
}

type UserProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	List(ctx context.Context, filter UserProfileFilter) ([]UserProfile, int64, error)
	Upsert(ctx context.Context, profile *UserProfile) error
	RecordOverrideConsent(ctx context.Context, userID string) error
	// Sanitize anonymises the PII columns and flags the row as sanitized.
	Sanitize(ctx context.Context, id uuid.UUID) error
}

type UserProfileUsecase interface {
	GetMine(ctx context.Context, userID string) (*UserProfile, error)
	UpsertMine(ctx context.Context, userID string, tenantID *string, input *UpsertUserProfileInput) (*UserProfile, error)
	List(ctx context.Context, filter UserProfileFilter) (*PaginatedResult[UserProfile], error)
	Get(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	RecordOverrideConsent(ctx context.Context, userID string) (*UserProfile, error)
	Sanitize(ctx context.Context, id uuid.UUID) (*UserProfile, error)
}
