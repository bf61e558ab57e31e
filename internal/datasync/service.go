// Package datasync replicates changed rows from the region they were written
// in to every region the GDPR rules allow.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/logger"
)

type Service struct {
	regions RegionConfig
	store   Store
	policy  Policy
	log     *slog.Logger
}

func NewService(regions RegionConfig, store Store) *Service {
	return &Service{
		regions: regions,
		store:   store,
		log:     logger.Log.With("component", "datasync"),
	}
}

// syncPlan is the resolved destination of one message.
type syncPlan struct {
	table   string
	targets []string
}

// ResolveTable picks the message table, then the configured table, then the
// entity type itself.
func ResolveTable(msg *domain.SyncMessage, cfg *domain.EntitySyncConfiguration) string {
	if msg.TableName != nil && strings.TrimSpace(*msg.TableName) != "" {
		return strings.TrimSpace(*msg.TableName)
	}
	if cfg != nil && cfg.TableName != nil && strings.TrimSpace(*cfg.TableName) != "" {
		return strings.TrimSpace(*cfg.TableName)
	}
	return msg.EntityType
}

// DetermineTargetRegions returns the regions msg must be replicated to.
// Errors are logged and yield no targets.
func (s *Service) DetermineTargetRegions(ctx context.Context, msg *domain.SyncMessage) []string {
	plan, err := s.plan(ctx, msg)
	if err != nil {
		s.log.Error("Failed to determine target regions",
			"entity_type", msg.EntityType, "entity_id", msg.EntityID, "error", err)
		return []string{}
	}
	return plan.targets
}

func (s *Service) plan(ctx context.Context, msg *domain.SyncMessage) (syncPlan, error) {
	if _, ok := s.regions.ConnectionString(msg.SourceRegion); !ok {
		s.log.Warn("Source region has no connection string", "region", msg.SourceRegion)
		return syncPlan{targets: []string{}}, nil
	}

	cfg, err := s.store.SyncConfiguration(ctx, msg.SourceRegion, msg.EntityType)
	if err != nil {
		return syncPlan{}, fmt.Errorf("load sync configuration: %w", err)
	}
	table := ResolveTable(msg, cfg)
	if cfg == nil {
		s.log.Warn("No enabled sync configuration", "entity_type", msg.EntityType)
		return syncPlan{table: table, targets: []string{}}, nil
	}

	row, err := s.store.RowMetadata(ctx, msg.SourceRegion, table, msg.EntityID)
	if err != nil {
		return syncPlan{}, fmt.Errorf("load row metadata: %w", err)
	}

	var targets []string
	switch {
	case row != nil:
		targets, err = s.scopeTargets(ctx, msg.SourceRegion, cfg, *row)
		if err != nil {
			return syncPlan{}, err
		}
	case msg.IsDeleted:
		// A hard delete has already removed the source row.
		targets, err = s.deletionTargets(cfg.SyncScope)
		if err != nil {
			return syncPlan{}, err
		}
	default:
		s.log.Warn("Source row not found", "table", table, "entity_id", msg.EntityID)
		return syncPlan{table: table, targets: []string{}}, nil
	}

	if strings.EqualFold(msg.SourceRegion, "US") || strings.EqualFold(msg.SourceRegion, "IN") {
		targets = append(targets, CentralRegion)
	}

	return syncPlan{table: table, targets: dedupeExcluding(targets, msg.SourceRegion)}, nil
}

func (s *Service) scopeTargets(ctx context.Context, source string, cfg *domain.EntitySyncConfiguration, row domain.SyncRowMetadata) ([]string, error) {
	switch cfg.SyncScope {
	case domain.SyncScopeGlobalSanitized:
		if s.policy.IsEligibleForGlobalSync(row, cfg.RequiresSanitizationForGlobalSync, cfg.AllowSanitizationOverrideConsent) {
			return s.regions.AllRegions(), nil
		}
		return nil, nil
	case domain.SyncScopeEUOnly:
		return []string{"EU", CentralRegion}, nil
	case domain.SyncScopeScopedByExposure:
		return s.exposureTargets(ctx, source, row)
	default:
		return nil, fmt.Errorf("unknown sync scope %q", cfg.SyncScope)
	}
}

// deletionTargets covers every region a row of the given scope could have
// reached, since its residency and exposure set are gone with it.
func (s *Service) deletionTargets(scope domain.SyncScope) ([]string, error) {
	switch scope {
	case domain.SyncScopeEUOnly:
		return []string{"EU", CentralRegion}, nil
	case domain.SyncScopeGlobalSanitized, domain.SyncScopeScopedByExposure:
		return s.regions.AllRegions(), nil
	default:
		return nil, fmt.Errorf("unknown sync scope %q", scope)
	}
}

func (s *Service) exposureTargets(ctx context.Context, source string, row domain.SyncRowMetadata) ([]string, error) {
	if row.CountryExposureSetID == nil {
		return []string{CentralRegion}, nil
	}
	countries, err := s.store.ExposureCountries(ctx, source, *row.CountryExposureSetID)
	if err != nil {
		return nil, fmt.Errorf("load exposure set: %w", err)
	}

	var candidates []string
	for _, code := range countries {
		candidates = append(candidates, s.regions.RegionsForCountry(code)...)
	}
	candidates = append(candidates, CentralRegion)

	out := make([]string, 0, len(candidates))
	for _, region := range candidates {
		if s.policy.CanSyncToRegion(row, ResidencyForRegion(region)) {
			out = append(out, region)
		}
	}
	return out, nil
}

func dedupeExcluding(regions []string, source string) []string {
	seen := make(map[string]struct{}, len(regions))
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if strings.EqualFold(r, source) {
			continue
		}
		key := strings.ToUpper(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Process applies msg to every target region. A foreign key violation in any
// target is returned wrapping domain.ErrForeignKeyConstraint so the caller
// can retry once the parent row has arrived.
func (s *Service) Process(ctx context.Context, msg *domain.SyncMessage) error {
	plan, err := s.plan(ctx, msg)
	if err != nil {
		return err
	}
	log := s.log.With("sync_event_id", msg.SyncEventID, "entity_type", msg.EntityType, "entity_id", msg.EntityID)

	if len(plan.targets) == 0 {
		log.Info("No target regions for message")
		return nil
	}

	if msg.IsDeleted {
		return s.applyDelete(ctx, log, plan, msg)
	}

	row, err := s.store.FetchRow(ctx, msg.SourceRegion, plan.table, msg.EntityID)
	if err != nil {
		return fmt.Errorf("fetch source row: %w", err)
	}
	if row == nil {
		log.Warn("Source row disappeared before sync", "table", plan.table)
		return nil
	}
	if _, ok := row["id"]; !ok {
		return ErrMissingID
	}

	for _, region := range plan.targets {
		if _, ok := s.regions.ConnectionString(region); !ok {
			log.Warn("Skipping target region without connection string", "region", region)
			continue
		}

		last, err := s.store.LastSyncEventID(ctx, region, plan.table, msg.EntityID)
		if err != nil {
			return fmt.Errorf("read sync marker in %s: %w", region, err)
		}
		if last == msg.SyncEventID {
			log.Debug("Sync event already applied", "region", region)
			continue
		}

		if err := s.store.Upsert(ctx, region, plan.table, row, msg.SyncEventID); err != nil {
			if errors.Is(err, domain.ErrForeignKeyConstraint) {
				log.Warn("Foreign key not yet satisfied in target", "region", region, "error", err)
			}
			return fmt.Errorf("upsert into %s: %w", region, err)
		}
		log.Info("Row synced", "region", region, "table", plan.table)
	}
	return nil
}

func (s *Service) applyDelete(ctx context.Context, log *slog.Logger, plan syncPlan, msg *domain.SyncMessage) error {
	for _, region := range plan.targets {
		if _, ok := s.regions.ConnectionString(region); !ok {
			log.Warn("Skipping target region without connection string", "region", region)
			continue
		}
		if err := s.store.Delete(ctx, region, plan.table, msg.EntityID); err != nil {
			return fmt.Errorf("delete in %s: %w", region, err)
		}
		log.Info("Row deleted", "region", region, "table", plan.table)
	}
	return nil
}
