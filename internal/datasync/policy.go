package datasync

import "recruiter-platform/internal/domain"

// Policy holds the GDPR rules deciding whether a row may leave the EU.
type Policy struct{}

// CanSyncToRegion allows any row into an EU region. EU-resident rows only
// leave the EU once sanitized or with recorded override consent.
func (Policy) CanSyncToRegion(row domain.SyncRowMetadata, target domain.DataResidency) bool {
	if target == domain.DataResidencyEU {
		return true
	}
	if row.DataResidency == domain.DataResidencyEU {
		return row.IsSanitized || row.SanitizationOverrideConsentAt != nil
	}
	return true
}

func (Policy) IsEligibleForGlobalSync(row domain.SyncRowMetadata, requiresSanitization, allowOverrideConsent bool) bool {
	if !requiresSanitization {
		return true
	}
	if row.IsSanitized {
		return true
	}
	return allowOverrideConsent && row.SanitizationOverrideConsentAt != nil
}
