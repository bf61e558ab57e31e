package datasync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"recruiter-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	ErrRegionNotConfigured = errors.New("region has no connection string")
	ErrInvalidIdentifier   = errors.New("invalid SQL identifier")
	ErrMissingID           = errors.New("source row has no id column")
)

const pgForeignKeyViolation = "23503"

// Store is the per-region data access the sync service needs.
// Lookups return nil without error when the row does not exist.
type Store interface {
	SyncConfiguration(ctx context.Context, region, entityType string) (*domain.EntitySyncConfiguration, error)
	RowMetadata(ctx context.Context, region, table, id string) (*domain.SyncRowMetadata, error)
	ExposureCountries(ctx context.Context, region, setID string) ([]string, error)
	FetchRow(ctx context.Context, region, table, id string) (map[string]any, error)
	LastSyncEventID(ctx context.Context, region, table, id string) (string, error)
	Upsert(ctx context.Context, region, table string, row map[string]any, syncEventID string) error
	Delete(ctx context.Context, region, table, id string) error
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QuoteIdentifier validates name and returns it double-quoted.
func QuoteIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

// OpenFunc opens a database handle for a DSN.
type OpenFunc func(dsn string) (*sql.DB, error)

// SQLStore keeps one lazily opened *sql.DB per region.
type SQLStore struct {
	regions RegionConfig
	open    OpenFunc

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

func NewSQLStore(regions RegionConfig, open OpenFunc) *SQLStore {
	return &SQLStore{
		regions: regions,
		open:    open,
		dbs:     map[string]*sql.DB{},
	}
}

func (s *SQLStore) db(region string) (*sql.DB, error) {
	dsn, ok := s.regions.ConnectionString(region)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRegionNotConfigured, region)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if db, ok := s.dbs[dsn]; ok {
		return db, nil
	}
	db, err := s.open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open region %s: %w", region, err)
	}
	s.dbs[dsn] = db
	return db, nil
}

func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for dsn, db := range s.dbs {
		errs = append(errs, db.Close())
		delete(s.dbs, dsn)
	}
	return errors.Join(errs...)
}

func (s *SQLStore) SyncConfiguration(ctx context.Context, region, entityType string) (*domain.EntitySyncConfiguration, error) {
	db, err := s.db(region)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT entity_type_name, table_name, data_classification, sync_scope, legal_basis,
		       legal_basis_ref, processing_purpose, requires_sanitization_for_global_sync,
		       allow_sanitization_override_consent, depends_on_entities, is_enabled, notes,
		       created_at, updated_at
		FROM entity_sync_configurations
		WHERE entity_type_name = $1 AND is_enabled = true`

	var cfg domain.EntitySyncConfiguration
	var tableName, legalRef, depends, notes sql.NullString
	err = db.QueryRowContext(ctx, query, entityType).Scan(
		&cfg.EntityTypeName, &tableName, &cfg.DataClassification, &cfg.SyncScope, &cfg.LegalBasis,
		&legalRef, &cfg.ProcessingPurpose, &cfg.RequiresSanitizationForGlobalSync,
		&cfg.AllowSanitizationOverrideConsent, &depends, &cfg.IsEnabled, &notes,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cfg.TableName = nullString(tableName)
	cfg.LegalBasisRef = nullString(legalRef)
	cfg.DependsOnEntities = nullString(depends)
	cfg.Notes = nullString(notes)
	return &cfg, nil
}

func (s *SQLStore) RowMetadata(ctx context.Context, region, table, id string) (*domain.SyncRowMetadata, error) {
	db, err := s.db(region)
	if err != nil {
		return nil, err
	}
	quoted, err := QuoteIdentifier(table)
	if err != nil {
		return nil, err
	}

	query := `SELECT data_residency, data_origin_region, country_exposure_set_id::text,
		COALESCE(is_sanitized, false), sanitization_override_consent_at
		FROM ` + quoted + ` WHERE id = $1`

	var meta domain.SyncRowMetadata
	var exposure sql.NullString
	var consent sql.NullTime
	err = db.QueryRowContext(ctx, query, id).Scan(
		&meta.DataResidency, &meta.DataOriginRegion, &exposure, &meta.IsSanitized, &consent,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	meta.CountryExposureSetID = nullString(exposure)
	if consent.Valid {
		t := consent.Time
		meta.SanitizationOverrideConsentAt = &t
	}
	return &meta, nil
}

func (s *SQLStore) ExposureCountries(ctx context.Context, region, setID string) ([]string, error) {
	db, err := s.db(region)
	if err != nil {
		return nil, err
	}
	var codes []string
	err = db.QueryRowContext(ctx,
		`SELECT country_codes FROM country_exposure_sets WHERE id = $1`, setID,
	).Scan(pq.Array(&codes))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return codes, err
}

func (s *SQLStore) FetchRow(ctx context.Context, region, table, id string) (map[string]any, error) {
	db, err := s.db(region)
	if err != nil {
		return nil, err
	}
	quoted, err := QuoteIdentifier(table)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT * FROM `+quoted+` WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(cols))
	for i, col := range cols {
		row[col] = values[i]
	}
	return row, rows.Err()
}

func (s *SQLStore) LastSyncEventID(ctx context.Context, region, table, id string) (string, error) {
	db, err := s.db(region)
	if err != nil {
		return "", err
	}
	quoted, err := QuoteIdentifier(table)
	if err != nil {
		return "", err
	}

	var eventID sql.NullString
	err = db.QueryRowContext(ctx, `SELECT last_sync_event_id FROM `+quoted+` WHERE id = $1`, id).Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return eventID.String, nil
}

// Upsert writes row into region under its own id, stamping the sync columns.
// A foreign key violation is reported as domain.ErrForeignKeyConstraint.
func (s *SQLStore) Upsert(ctx context.Context, region, table string, row map[string]any, syncEventID string) error {
	if _, ok := row["id"]; !ok {
		return ErrMissingID
	}
	db, err := s.db(region)
	if err != nil {
		return err
	}
	query, args, err := BuildUpsert(table, row, syncEventID)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return wrapForeignKey(err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, region, table, id string) error {
	db, err := s.db(region)
	if err != nil {
		return err
	}
	quoted, err := QuoteIdentifier(table)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM `+quoted+` WHERE id = $1`, id); err != nil {
		return wrapForeignKey(err)
	}
	return nil
}

// BuildUpsert renders INSERT ... ON CONFLICT (id) DO UPDATE for row. Columns
// are emitted in sorted order; last_synced_at and last_sync_event_id always
// come from the sync itself.
func BuildUpsert(table string, row map[string]any, syncEventID string) (string, []any, error) {
	quotedTable, err := QuoteIdentifier(table)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, 0, len(row))
	for col := range row {
		if col == "last_synced_at" || col == "last_sync_event_id" {
			continue
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var (
		names   []string
		holders []string
		updates []string
		args    []any
	)
	for _, col := range cols {
		q, err := QuoteIdentifier(col)
		if err != nil {
			return "", nil, err
		}
		args = append(args, row[col])
		names = append(names, q)
		holders = append(holders, fmt.Sprintf("$%d", len(args)))
		if col != "id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", q, q))
		}
	}
	args = append(args, syncEventID)
	names = append(names, `"last_synced_at"`, `"last_sync_event_id"`)
	holders = append(holders, "now()", fmt.Sprintf("$%d", len(args)))
	updates = append(updates,
		`"last_synced_at" = EXCLUDED."last_synced_at"`,
		`"last_sync_event_id" = EXCLUDED."last_sync_event_id"`,
	)

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT ("id") DO UPDATE SET %s`,
		quotedTable,
		strings.Join(names, ", "),
		strings.Join(holders, ", "),
		strings.Join(updates, ", "),
	)
	return query, args, nil
}

func wrapForeignKey(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", domain.ErrForeignKeyConstraint, pgErr.Message)
	}
	return err
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
