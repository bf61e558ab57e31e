// Package postgres implements the domain repositories on pgx.
package postgres

import (
	"errors"
	"fmt"
	"strings"

	"recruiter-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Shared column lists. Inserts never write last_synced_at/last_sync_event_id;
// those belong to the sync worker.
const (
	gdprColumns = `data_residency, data_origin_region, country_exposure_set_id, last_synced_at,
		last_sync_event_id, is_sanitized, sanitized_at, sanitization_override_consent_at`
	gdprInsertColumns = `data_residency, data_origin_region, country_exposure_set_id, is_sanitized,
		sanitized_at, sanitization_override_consent_at`
	auditColumns = `created_at, created_by, updated_at, updated_by`
)

// mapError translates driver errors into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrForeignKeyConstraint, pgErr.ConstraintName)
		}
	}
	return err
}

func gdprDest(g *domain.GdprSyncFields) []any {
	return []any{
		&g.DataResidency, &g.DataOriginRegion, &g.CountryExposureSetID, &g.LastSyncedAt,
		&g.LastSyncEventID, &g.IsSanitized, &g.SanitizedAt, &g.SanitizationOverrideConsentAt,
	}
}

func gdprArgs(g domain.GdprSyncFields) []any {
	return []any{
		g.DataResidency, g.DataOriginRegion, g.CountryExposureSetID, g.IsSanitized,
		g.SanitizedAt, g.SanitizationOverrideConsentAt,
	}
}

func auditDest(a *domain.AuditFields) []any {
	return []any{&a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy}
}

func auditArgs(a domain.AuditFields) []any {
	return []any{a.CreatedAt, a.CreatedBy, a.UpdatedAt, a.UpdatedBy}
}

// fields flattens scan destinations or query arguments.
func fields(groups ...[]any) []any {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]any, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// placeholders returns "$from, ..., $(from+n-1)".
func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

// where accumulates AND-ed filter clauses. Each clause refers to its argument
// as $%[1]d.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *where) addRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// next is the placeholder number following the filter arguments.
func (w *where) next() int {
	return len(w.args) + 1
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// affected maps an update that touched no row to ErrNotFound.
func affected(rows int64, err error) error {
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// distinctOnName turns "SELECT <cols> FROM t alias ..." into a
// "SELECT DISTINCT ON (alias.name) ..." query.
func distinctOnName(selectQuery string) string {
	alias := ""
	if i := strings.Index(selectQuery, "FROM "); i >= 0 {
		rest := strings.Fields(selectQuery[i+len("FROM "):])
		if len(rest) > 1 {
			alias = rest[1] + "."
		}
	}
	return "SELECT DISTINCT ON (" + alias + "name) " + strings.TrimPrefix(selectQuery, "SELECT ")
}

// prefixColumns qualifies every column of a comma-separated list with alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
