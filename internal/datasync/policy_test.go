package datasync_test

import (
	"testing"
	"time"

	"recruiter-platform/internal/datasync"
	"recruiter-platform/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_CanSyncToRegion(t *testing.T) {
	p := datasync.Policy{}
	now := time.Now()

	euRow := domain.SyncRowMetadata{DataResidency: domain.DataResidencyEU}
	assert.True(t, p.CanSyncToRegion(euRow, domain.DataResidencyEU))
	assert.False(t, p.CanSyncToRegion(euRow, domain.DataResidencyNonEU))

	sanitized := euRow
	sanitized.IsSanitized = true
	assert.True(t, p.CanSyncToRegion(sanitized, domain.DataResidencyNonEU))

	consented := euRow
	consented.SanitizationOverrideConsentAt = &now
	assert.True(t, p.CanSyncToRegion(consented, domain.DataResidencyNonEU))

	nonEU := domain.SyncRowMetadata{DataResidency: domain.DataResidencyNonEU}
	assert.True(t, p.CanSyncToRegion(nonEU, domain.DataResidencyNonEU))
}

func TestPolicy_IsEligibleForGlobalSync(t *testing.T) {
	p := datasync.Policy{}
	now := time.Now()
	row := domain.SyncRowMetadata{DataResidency: domain.DataResidencyEU}

	t.Run("no sanitization required", func(t *testing.T) {
		assert.True(t, p.IsEligibleForGlobalSync(row, false, false))
	})

	t.Run("unsanitized row", func(t *testing.T) {
		assert.False(t, p.IsEligibleForGlobalSync(row, true, true))
	})

	t.Run("sanitized row", func(t *testing.T) {
		r := row
		r.IsSanitized = true
		assert.True(t, p.IsEligibleForGlobalSync(r, true, false))
	})

	t.Run("consent only counts when override allowed", func(t *testing.T) {
		r := row
		r.SanitizationOverrideConsentAt = &now
		assert.True(t, p.IsEligibleForGlobalSync(r, true, true))
		assert.False(t, p.IsEligibleForGlobalSync(r, true, false))
	})
}
