package datasync_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"recruiter-platform/internal/datasync"
	"recruiter-platform/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upsertCall struct {
	region, table, eventID string
	row                    map[string]any
}

type fakeStore struct {
	mu        sync.Mutex
	configs   map[string]*domain.EntitySyncConfiguration
	meta      map[string]*domain.SyncRowMetadata
	exposure  map[string][]string
	rows      map[string]map[string]any
	markers   map[string]string
	upsertErr error

	upserts []upsertCall
	deletes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		configs:  map[string]*domain.EntitySyncConfiguration{},
		meta:     map[string]*domain.SyncRowMetadata{},
		exposure: map[string][]string{},
		rows:     map[string]map[string]any{},
		markers:  map[string]string{},
	}
}

func key(parts ...string) string { return fmt.Sprint(parts) }

func (f *fakeStore) SyncConfiguration(_ context.Context, _ string, entityType string) (*domain.EntitySyncConfiguration, error) {
	return f.configs[entityType], nil
}

func (f *fakeStore) RowMetadata(_ context.Context, _ string, table, id string) (*domain.SyncRowMetadata, error) {
	return f.meta[key(table, id)], nil
}

func (f *fakeStore) ExposureCountries(_ context.Context, _ string, setID string) ([]string, error) {
	return f.exposure[setID], nil
}

func (f *fakeStore) FetchRow(_ context.Context, _ string, table, id string) (map[string]any, error) {
	return f.rows[key(table, id)], nil
}

func (f *fakeStore) LastSyncEventID(_ context.Context, region, table, id string) (string, error) {
	return f.markers[key(region, table, id)], nil
}

func (f *fakeStore) Upsert(_ context.Context, region, table string, row map[string]any, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, upsertCall{region: region, table: table, eventID: eventID, row: row})
	return nil
}

func (f *fakeStore) Delete(_ context.Context, region, table, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key(region, table, id))
	return nil
}

func allRegions() datasync.RegionConfig {
	return datasync.NewRegionConfig(
		map[string]string{"EU": "eu-dsn", "EU-MAIN": "main-dsn", "US": "us-dsn", "IN": "in-dsn"},
		map[string][]string{"US": {"US", "CA"}, "IN": {"IN"}, "EU": {"DE", "FR"}},
	)
}

func strPtr(s string) *string { return &s }

func config(entity string, scope domain.SyncScope, table string) *domain.EntitySyncConfiguration {
	return &domain.EntitySyncConfiguration{
		EntityTypeName: entity,
		TableName:      strPtr(table),
		SyncScope:      scope,
		IsEnabled:      true,
	}
}

func message(entity, id, source string) *domain.SyncMessage {
	return &domain.SyncMessage{SyncEventID: "evt-1", EntityType: entity, EntityID: id, SourceRegion: source}
}

func TestDetermineTargetRegions(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown source region", func(t *testing.T) {
		svc := datasync.NewService(allRegions(), newFakeStore())
		assert.Empty(t, svc.DetermineTargetRegions(ctx, message("Candidate", "c1", "APAC")))
	})

	t.Run("missing configuration", func(t *testing.T) {
		svc := datasync.NewService(allRegions(), newFakeStore())
		assert.Empty(t, svc.DetermineTargetRegions(ctx, message("Candidate", "c1", "EU")))
	})

	t.Run("missing row", func(t *testing.T) {
		store := newFakeStore()
		store.configs["Candidate"] = config("Candidate", domain.SyncScopeEUOnly, "user_profiles")
		svc := datasync.NewService(allRegions(), store)
		assert.Empty(t, svc.DetermineTargetRegions(ctx, message("Candidate", "c1", "EU")))
	})

	t.Run("EU only from US", func(t *testing.T) {
		store := newFakeStore()
		store.configs["Candidate"] = config("Candidate", domain.SyncScopeEUOnly, "user_profiles")
		store.meta[key("user_profiles", "c1")] = &domain.SyncRowMetadata{DataResidency: domain.DataResidencyEU}
		svc := datasync.NewService(allRegions(), store)

		assert.Equal(t, []string{"EU", "EU-MAIN"}, svc.DetermineTargetRegions(ctx, message("Candidate", "c1", "US")))
	})

	t.Run("EU only from EU excludes source", func(t *testing.T) {
		store := newFakeStore()
		store.configs["Candidate"] = config("Candidate", domain.SyncScopeEUOnly, "user_profiles")
		store.meta[key("user_profiles", "c1")] = &domain.SyncRowMetadata{DataResidency: domain.DataResidencyEU}
		svc := datasync.NewService(allRegions(), store)

		assert.Equal(t, []string{"EU-MAIN"}, svc.DetermineTargetRegions(ctx, message("Candidate", "c1", "eu")))
	})

	t.Run("global sanitized requires sanitization", func(t *testing.T) {
		store := newFakeStore()
		cfg := config("Country", domain.SyncScopeGlobalSanitized, "countries")
		cfg.RequiresSanitizationForGlobalSync = true
		store.configs["Country"] = cfg
		store.meta[key("countries", "DE")] = &domain.SyncRowMetadata{DataResidency: domain.DataResidencyEU}
		svc := datasync.NewService(allRegions(), store)

		assert.Empty(t, svc.DetermineTargetRegions(ctx, message("Country", "DE", "EU")))

		store.meta[key("countries", "DE")].IsSanitized = true
		assert.Equal(t, []string{"EU-MAIN", "IN", "US"}, svc.DetermineTargetRegions(ctx, message("Country", "DE", "EU")))
	})

	t.Run("US source always reaches central region", func(t *testing.T) {
		store := newFakeStore()
		cfg := config("Country", domain.SyncScopeGlobalSanitized, "countries")
		cfg.RequiresSanitizationForGlobalSync = true
		store.configs["Country"] = cfg
		store.meta[key("countries", "US")] = &domain.SyncRowMetadata{DataResidency: domain.DataResidencyEU}
		svc := datasync.NewService(allRegions(), store)

		assert.Equal(t, []string{"EU-MAIN"}, svc.DetermineTargetRegions(ctx, message("Country", "US", "US")))
	})

	t.Run("scoped by exposure without a set", func(t *testing.T) {
		store := newFakeStore()
		store.configs["JobPost"] = config("JobPost", domain.SyncScopeScopedByExposure, "job_posts")
		store.meta[key("job_posts", "j1")] = &domain.SyncRowMetadata{DataResidency: domain.DataResidencyEU}
		svc := datasync.NewService(allRegions(), store)

		assert.Equal(t, []string{"EU-MAIN"}, svc.DetermineTargetRegions(ctx, message("JobPost", "j1", "EU")))
	})

	t.Run("scoped by exposure follows countries", func(t *testing.T) {
		store := newFakeStore()
		store.configs["JobPost"] = config("JobPost", domain.SyncScopeScopedByExposure, "job_posts")
		store.meta[key("job_posts", "j1")] = &domain.SyncRowMetadata{
			DataResidency:        domain.DataResidencyNonEU,
			CountryExposureSetID: strPtr("set-1"),
		}
		store.exposure["set-1"] = []string{"IN", "US"}
		svc := datasync.NewService(allRegions(), store)

		assert.Equal(t, []string{"IN", "US", "EU-MAIN"}, svc.DetermineTargetRegions(ctx, message("JobPost", "j1", "EU")))
	})

	t.Run("scoped by exposure keeps EU rows inside the EU", func(t *testing.T) {
		store := newFakeStore()
		store.configs["JobPost"] = config("JobPost", domain.SyncScopeScopedByExposure, "job_posts")
		store.meta[key("job_posts", "j1")] = &domain.SyncRowMetadata{
			DataResidency:        domain.DataResidencyEU,
			CountryExposureSetID: strPtr("set-1"),
		}
		store.exposure["set-1"] = []string{"DE", "US"}
		svc := datasync.NewService(allRegions(), store)

		assert.Equal(t, []string{"EU", "EU-MAIN"}, svc.DetermineTargetRegions(ctx, message("JobPost", "j1", "IN")))
	})
}

func TestResolveTable(t *testing.T) {
	msg := message("JobPost", "j1", "EU")
	assert.Equal(t, "JobPost", datasync.ResolveTable(msg, nil))

	cfg := config("JobPost", domain.SyncScopeEUOnly, "job_posts")
	assert.Equal(t, "job_posts", datasync.ResolveTable(msg, cfg))

	msg.TableName = strPtr("job_posts_v2")
	assert.Equal(t, "job_posts_v2", datasync.ResolveTable(msg, cfg))
}

func candidateStore() *fakeStore {
	store := newFakeStore()
	store.configs["Candidate"] = config("Candidate", domain.SyncScopeEUOnly, "user_profiles")
	store.meta[key("user_profiles", "c1")] = &domain.SyncRowMetadata{DataResidency: domain.DataResidencyEU}
	store.rows[key("user_profiles", "c1")] = map[string]any{"id": "c1", "name": "Ana"}
	return store
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts into every target", func(t *testing.T) {
		store := candidateStore()
		svc := datasync.NewService(allRegions(), store)

		require.NoError(t, svc.Process(ctx, message("Candidate", "c1", "US")))
		require.Len(t, store.upserts, 2)
		assert.Equal(t, "EU", store.upserts[0].region)
		assert.Equal(t, "EU-MAIN", store.upserts[1].region)
		assert.Equal(t, "user_profiles", store.upserts[0].table)
		assert.Equal(t, "evt-1", store.upserts[0].eventID)
		assert.Equal(t, "c1", store.upserts[0].row["id"])
	})

	t.Run("same event is applied once", func(t *testing.T) {
		store := candidateStore()
		store.markers[key("EU", "user_profiles", "c1")] = "evt-1"
		svc := datasync.NewService(allRegions(), store)

		require.NoError(t, svc.Process(ctx, message("Candidate", "c1", "US")))
		require.Len(t, store.upserts, 1)
		assert.Equal(t, "EU-MAIN", store.upserts[0].region)
	})

	t.Run("skips targets without connection string", func(t *testing.T) {
		store := candidateStore()
		regions := datasync.NewRegionConfig(map[string]string{"EU-MAIN": "main", "US": "us"}, nil)
		svc := datasync.NewService(regions, store)

		require.NoError(t, svc.Process(ctx, message("Candidate", "c1", "US")))
		require.Len(t, store.upserts, 1)
		assert.Equal(t, "EU-MAIN", store.upserts[0].region)
	})

	t.Run("missing id column", func(t *testing.T) {
		store := candidateStore()
		store.rows[key("user_profiles", "c1")] = map[string]any{"name": "Ana"}
		svc := datasync.NewService(allRegions(), store)

		err := svc.Process(ctx, message("Candidate", "c1", "US"))
		assert.ErrorIs(t, err, datasync.ErrMissingID)
	})

	t.Run("foreign key errors stay recognisable", func(t *testing.T) {
		store := candidateStore()
		store.upsertErr = fmt.Errorf("%w: parent missing", domain.ErrForeignKeyConstraint)
		svc := datasync.NewService(allRegions(), store)

		err := svc.Process(ctx, message("Candidate", "c1", "US"))
		assert.True(t, errors.Is(err, domain.ErrForeignKeyConstraint))
	})

	t.Run("deletes in every target after a hard delete", func(t *testing.T) {
		store := newFakeStore()
		store.configs["Comment"] = config("Comment", domain.SyncScopeEUOnly, "comments")
		svc := datasync.NewService(allRegions(), store)
		msg := message("Comment", "c1", "US")
		msg.IsDeleted = true

		require.NoError(t, svc.Process(ctx, msg))
		assert.Empty(t, store.upserts)
		assert.Equal(t, []string{key("EU", "comments", "c1"), key("EU-MAIN", "comments", "c1")}, store.deletes)
	})

	t.Run("hard-deleted exposure rows are removed everywhere", func(t *testing.T) {
		store := newFakeStore()
		store.configs["JobPost"] = config("JobPost", domain.SyncScopeScopedByExposure, "job_posts")
		svc := datasync.NewService(allRegions(), store)
		msg := message("JobPost", "j1", "EU")
		msg.IsDeleted = true

		require.NoError(t, svc.Process(ctx, msg))
		assert.Equal(t, []string{
			key("EU-MAIN", "job_posts", "j1"),
			key("IN", "job_posts", "j1"),
			key("US", "job_posts", "j1"),
		}, store.deletes)
	})

	t.Run("deletes follow the row scope while it still exists", func(t *testing.T) {
		store := candidateStore()
		svc := datasync.NewService(allRegions(), store)
		msg := message("Candidate", "c1", "US")
		msg.IsDeleted = true

		require.NoError(t, svc.Process(ctx, msg))
		assert.Empty(t, store.upserts)
		assert.Equal(t, []string{key("EU", "user_profiles", "c1"), key("EU-MAIN", "user_profiles", "c1")}, store.deletes)
	})

	t.Run("no targets is not an error", func(t *testing.T) {
		svc := datasync.NewService(allRegions(), newFakeStore())
		assert.NoError(t, svc.Process(ctx, message("Candidate", "c1", "US")))
	})
}
