package postgres

import (
	"context"

	"recruiter-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type syncConfigurationRepo struct {
	db *pgxpool.Pool
}

func NewSyncConfigurationRepository(db *pgxpool.Pool) domain.EntitySyncConfigurationRepository {
	return &syncConfigurationRepo{db: db}
}

const syncConfigurationSelect = `SELECT entity_type_name, table_name, data_classification, sync_scope,
	legal_basis, legal_basis_ref, processing_purpose, requires_sanitization_for_global_sync,
	allow_sanitization_override_consent, depends_on_entities, is_enabled, notes, created_at, updated_at
	FROM entity_sync_configurations`

func scanSyncConfiguration(row pgx.Row) (*domain.EntitySyncConfiguration, error) {
	var c domain.EntitySyncConfiguration
	err := row.Scan(
		&c.EntityTypeName, &c.TableName, &c.DataClassification, &c.SyncScope,
		&c.LegalBasis, &c.LegalBasisRef, &c.ProcessingPurpose, &c.RequiresSanitizationForGlobalSync,
		&c.AllowSanitizationOverrideConsent, &c.DependsOnEntities, &c.IsEnabled, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *syncConfigurationRepo) List(ctx context.Context) ([]domain.EntitySyncConfiguration, error) {
	rows, err := r.db.Query(ctx, syncConfigurationSelect+` ORDER BY entity_type_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := []domain.EntitySyncConfiguration{}
	for rows.Next() {
		c, err := scanSyncConfiguration(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *c)
	}
	return configs, rows.Err()
}

func (r *syncConfigurationRepo) GetByEntityType(ctx context.Context, entityType string) (*domain.EntitySyncConfiguration, error) {
	c, err := scanSyncConfiguration(r.db.QueryRow(ctx, syncConfigurationSelect+` WHERE entity_type_name = $1`, entityType))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// Update writes the operator-editable policy columns. Classification and
// table mapping come from migrations only.
func (r *syncConfigurationRepo) Update(ctx context.Context, c *domain.EntitySyncConfiguration) error {
	err := r.db.QueryRow(ctx, `UPDATE entity_sync_configurations SET
		sync_scope = $2, requires_sanitization_for_global_sync = $3, allow_sanitization_override_consent = $4,
		is_enabled = $5, notes = $6, legal_basis = $7, legal_basis_ref = $8, processing_purpose = $9,
		updated_at = now()
		WHERE entity_type_name = $1
		RETURNING updated_at`,
		c.EntityTypeName, c.SyncScope, c.RequiresSanitizationForGlobalSync, c.AllowSanitizationOverrideConsent,
		c.IsEnabled, c.Notes, c.LegalBasis, c.LegalBasisRef, c.ProcessingPurpose,
	).Scan(&c.UpdatedAt)
	return mapError(err)
}
