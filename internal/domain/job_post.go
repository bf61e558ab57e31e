package domain

import (
	"context"

	"github.com/google/uuid"
)

type JobPostStatus string

const (
	JobPostStatusDraft     JobPostStatus = "Draft"
	JobPostStatusPublished JobPostStatus = "Published"
	JobPostStatusArchived  JobPostStatus = "Archived"
)

// JobPost is versioned by (Name, Version).
type JobPost struct {
	ID                               uuid.UUID     `json:"id"`
	Name                             string        `json:"name"`
	Version                          int           `json:"version"`
	MaxAmountOfCandidatesRestriction int           `json:"max_amount_of_candidates_restriction"`
	MinimumRequirements              []string      `json:"minimum_requirements"`
	ExperienceLevel                  string        `json:"experience_level"`
	JobTitle                         string        `json:"job_title"`
	JobType                          string        `json:"job_type"`
	JobDescription                   string        `json:"job_description"`
	Industry                         *string       `json:"industry,omitempty"`
	IntroText                        *string       `json:"intro_text,omitempty"`
	Requirements                     *string       `json:"requirements,omitempty"`
	WhatWeOffer                      *string       `json:"what_we_offer,omitempty"`
	CompanyInfo                      *string       `json:"company_info,omitempty"`
	PoliceReportRequired             *bool         `json:"police_report_required,omitempty"`
	TenantID                         *string       `json:"tenant_id,omitempty"`
	Status                           JobPostStatus `json:"status"`
	OriginCountryCode                *string       `json:"origin_country_code,omitempty"`
	IsDeleted                        bool          `json:"is_deleted"`
	CountryExposureCountryCodes      []string      `json:"country_exposure_country_codes,omitempty"`
	GdprSyncFields
	AuditFields
}

type JobPostInput struct {
	Name                             string   `json:"name" validate:"required,max=255"`
	MaxAmountOfCandidatesRestriction int      `json:"max_amount_of_candidates_restriction" validate:"min=1,max=1000"`
	MinimumRequirements              []string `json:"minimum_requirements" validate:"required,min=1,dive,required"`
	ExperienceLevel                  string   `json:"experience_level" validate:"required,experience_level"`
	JobTitle                         string   `json:"job_title" validate:"required,max=200"`
	JobType                          string   `json:"job_type" validate:"required,job_type"`
	JobDescription                   string   `json:"job_description" validate:"required,max=2000"`
	Industry                         *string  `json:"industry"`
	IntroText                        *string  `json:"intro_text"`
	Requirements                     *string  `json:"requirements"`
	WhatWeOffer                      *string  `json:"what_we_offer"`
	CompanyInfo                      *string  `json:"company_info"`
	PoliceReportRequired             *bool    `json:"police_report_required"`
	OriginCountryCode                *string  `json:"origin_country_code" validate:"omitempty,country_code"`
	CountryExposureCountryCodes      []string `json:"country_exposure_country_codes" validate:"omitempty,dive,country_code"`
	Status                           string   `json:"status" validate:"omitempty,oneof=Draft Published Archived"`
}

type UpdateJobPostInput struct {
	JobPostInput
	ShouldUpdateVersion bool `json:"should_update_version"`
}

type DuplicateJobPostInput struct {
	NewName     string `json:"new_name" validate:"required,max=255"`
	NewJobTitle string `json:"new_job_title" validate:"required,max=200"`
}

type JobPostFilter struct {
	Status   string
	Search   string
	TenantID *string
	PageParams
}

type JobPostRepository interface {
	Create(ctx context.Context, post *JobPost) error
	Get(ctx context.Context, name string, version int) (*JobPost, error)
	GetLatest(ctx context.Context, name string) (*JobPost, error)
	ListVersions(ctx context.Context, name string) ([]JobPost, error)
	List(ctx context.Context, filter JobPostFilter) ([]JobPost, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	MaxVersion(ctx context.Context, name string) (int, error)
	Update(ctx context.Context, post *JobPost) error
	UpdateStatus(ctx context.Context, name string, version int, status JobPostStatus, userID string) error
	SoftDelete(ctx context.Context, name string, version int, userID string) error
	Delete(ctx context.Context, name string, version int) error
	CountApplications(ctx context.Context, name string, version int) (int64, error)
}

type JobPostUsecase interface {
	Create(ctx context.Context, userID string, tenantID *string, input *JobPostInput) (*JobPost, error)
	Get(ctx context.Context, name string, version int) (*JobPost, error)
	GetLatest(ctx context.Context, name string) (*JobPost, error)
	GetPublished(ctx context.Context, name string, version int) (*JobPost, error)
	ListVersions(ctx context.Context, name string) ([]JobPost, error)
	List(ctx context.Context, filter JobPostFilter) (*PaginatedResult[JobPost], error)
	Update(ctx context.Context, userID string, name string, version int, input *UpdateJobPostInput) (*JobPost, error)
	Duplicate(ctx context.Context, userID string, name string, version int, input *DuplicateJobPostInput) (*JobPost, error)
	Delete(ctx context.Context, userID string, name string, version int) error
	Publish(ctx context.Context, userID string, name string, version int) (*JobPost, error)
	Archive(ctx context.Context, userID string, name string, version int) (*JobPost, error)
}
