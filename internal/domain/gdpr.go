package domain

import (
	"time"

	"github.com/google/uuid"
)

type DataResidency string

const (
	DataResidencyEU    DataResidency = "EU"
	DataResidencyNonEU DataResidency = "NonEU"
)

type DataRegion string

const (
	DataRegionEU DataRegion = "EU"
	DataRegionUS DataRegion = "US"
	DataRegionIN DataRegion = "IN"
)

// GdprSyncFields are carried by every row that takes part in cross-region sync.
type GdprSyncFields struct {
	DataResidency                 DataResidency `json:"data_residency"`
	DataOriginRegion              DataRegion    `json:"data_origin_region"`
	CountryExposureSetID          *uuid.UUID    `json:"country_exposure_set_id,omitempty"`
	LastSyncedAt                  *time.Time    `json:"last_synced_at,omitempty"`
	LastSyncEventID               *string       `json:"last_sync_event_id,omitempty"`
	IsSanitized                   *bool         `json:"is_sanitized,omitempty"`
	SanitizedAt                   *time.Time    `json:"sanitized_at,omitempty"`
	SanitizationOverrideConsentAt *time.Time    `json:"sanitization_override_consent_at,omitempty"`
}

// DefaultGdprFields returns EU residency and origin, the platform default.
func DefaultGdprFields() GdprSyncFields {
	return GdprSyncFields{DataResidency: DataResidencyEU, DataOriginRegion: DataRegionEU}
}

// NonPersonalGdprFields marks rows without personal data as sanitized so the
// residency policy lets them leave the EU.
func NonPersonalGdprFields() GdprSyncFields {
	sanitized := true
	f := DefaultGdprFields()
	f.IsSanitized = &sanitized
	return f
}

// AuditFields are maintained by the repositories on insert and update.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at"`
	CreatedBy *string   `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
}
