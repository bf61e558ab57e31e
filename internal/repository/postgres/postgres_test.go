package postgres

import (
	"errors"
	"fmt"
	"testing"

	"recruiter-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), domain.ErrNotFound)

	dup := mapError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "job_posts_name_version_key"})
	assert.ErrorIs(t, dup, domain.ErrDuplicate)
	assert.Contains(t, dup.Error(), "job_posts_name_version_key")

	fk := mapError(&pgconn.PgError{Code: pgForeignKeyViolation})
	assert.ErrorIs(t, fk, domain.ErrForeignKeyConstraint)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
}

func TestAffected(t *testing.T) {
	assert.NoError(t, affected(1, nil))
	assert.ErrorIs(t, affected(0, nil), domain.ErrNotFound)
	assert.ErrorIs(t, affected(0, &pgconn.PgError{Code: pgUniqueViolation}), domain.ErrDuplicate)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$1, $2, $3", placeholders(1, 3))
	assert.Equal(t, "$4", placeholders(4, 1))
}

func TestWhere(t *testing.T) {
	w := &where{}
	assert.Equal(t, "", w.String())
	assert.Equal(t, 1, w.next())

	w.addRaw("NOT p.is_deleted")
	w.add("p.status = $%d", "Published")
	w.add("(p.name ILIKE $%[1]d OR p.job_title ILIKE $%[1]d)", "%go%")

	assert.Equal(t, " WHERE NOT p.is_deleted AND p.status = $1 AND (p.name ILIKE $2 OR p.job_title ILIKE $2)", w.String())
	assert.Equal(t, []any{"Published", "%go%"}, w.args)
	assert.Equal(t, 3, w.next())
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%backend%", likePattern("  backend "))
	assert.Equal(t, `%100\%\_off%`, likePattern("100%_off"))
}

func TestFields(t *testing.T) {
	out := fields([]any{1, 2}, nil, []any{3})
	assert.Equal(t, []any{1, 2, 3}, out)
	assert.Len(t, gdprDest(&domain.GdprSyncFields{}), 8)
	assert.Len(t, gdprArgs(domain.GdprSyncFields{}), 6)
	assert.Len(t, auditArgs(domain.AuditFields{}), 4)
}

func TestDistinctOnName(t *testing.T) {
	assert.Equal(t,
		"SELECT DISTINCT ON (p.name) id, name FROM prompts p",
		distinctOnName("SELECT id, name FROM prompts p"))
	assert.Equal(t,
		"SELECT DISTINCT ON (name) id FROM prompts",
		distinctOnName("SELECT id FROM prompts"))
}

func TestPrefixColumns(t *testing.T) {
	assert.Equal(t, "a.id, a.user_id, a.status", prefixColumns("a", "id, user_id,\n\tstatus"))
}
