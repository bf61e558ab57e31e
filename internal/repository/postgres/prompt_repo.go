package postgres

import (
	"context"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type promptRepo struct {
	db *pgxpool.Pool
}

func NewPromptRepository(db *pgxpool.Pool) domain.PromptRepository {
	return &promptRepo{db: db}
}

const promptColumns = `id, name, version, category, content, locale, tags, tenant_id, is_deleted`

var promptSelect = fmt.Sprintf(`SELECT %s, %s FROM prompts p`, promptColumns, auditColumns)

func scanPrompt(row pgx.Row) (*domain.Prompt, error) {
	var p domain.Prompt
	err := row.Scan(fields(
		[]any{&p.ID, &p.Name, &p.Version, &p.Category, &p.Content, &p.Locale, &p.Tags, &p.TenantID, &p.IsDeleted},
		auditDest(&p.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func (r *promptRepo) Create(ctx context.Context, p *domain.Prompt) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	query := fmt.Sprintf(`INSERT INTO prompts (%s, %s) VALUES (%s)`, promptColumns, auditColumns, placeholders(1, 13))
	_, err := r.db.Exec(ctx, query, fields(
		[]any{p.ID, p.Name, p.Version, p.Category, p.Content, p.Locale, tags, p.TenantID, p.IsDeleted},
		auditArgs(p.AuditFields),
	)...)
	return mapError(err)
}

// Get returns the version even when it is soft-deleted so it can be restored.
func (r *promptRepo) Get(ctx context.Context, name string, version int) (*domain.Prompt, error) {
	p, err := scanPrompt(r.db.QueryRow(ctx, promptSelect+` WHERE p.name = $1 AND p.version = $2`, name, version))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *promptRepo) GetLatest(ctx context.Context, name string) (*domain.Prompt, error) {
	p, err := scanPrompt(r.db.QueryRow(ctx,
		promptSelect+` WHERE p.name = $1 AND NOT p.is_deleted ORDER BY p.version DESC LIMIT 1`, name))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *promptRepo) ListVersions(ctx context.Context, name string) ([]domain.Prompt, error) {
	return r.query(ctx, promptSelect+` WHERE p.name = $1 ORDER BY p.version DESC`, name)
}

func (r *promptRepo) List(ctx context.Context, filter domain.PromptFilter) ([]domain.Prompt, int64, error) {
	w := &where{}
	if !filter.IncludeDeleted {
		w.addRaw("NOT p.is_deleted")
	}
	if filter.Category != "" {
		w.add("p.category = $%d", filter.Category)
	}
	if filter.Locale != "" {
		w.add("p.locale = $%d", filter.Locale)
	}
	if filter.Search != "" {
		w.add("(p.name ILIKE $%[1]d OR p.content ILIKE $%[1]d)", likePattern(filter.Search))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT p.name) FROM prompts p`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	query := fmt.Sprintf(`SELECT * FROM (%s%s ORDER BY p.name, p.version DESC) latest
		ORDER BY latest.name LIMIT $%d OFFSET $%d`,
		distinctOnName(promptSelect), w.String(), n, n+1)
	prompts, err := r.query(ctx, query, append(w.args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return prompts, total, nil
}

func (r *promptRepo) query(ctx context.Context, query string, args ...any) ([]domain.Prompt, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts := []domain.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, *p)
	}
	return prompts, rows.Err()
}

func (r *promptRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM prompts WHERE NOT is_deleted ORDER BY category`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *promptRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM prompts WHERE lower(name) = lower($1))`, name).Scan(&exists)
	return exists, err
}

func (r *promptRepo) MaxVersion(ctx context.Context, name string) (int, error) {
	var v int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM prompts WHERE name = $1`, name).Scan(&v)
	return v, err
}

func (r *promptRepo) Update(ctx context.Context, p *domain.Prompt) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	tag, err := r.db.Exec(ctx, `UPDATE prompts SET category = $3, content = $4, locale = $5, tags = $6,
		updated_at = $7, updated_by = $8 WHERE name = $1 AND version = $2`,
		p.Name, p.Version, p.Category, p.Content, p.Locale, tags, p.UpdatedAt, p.UpdatedBy)
	return affected(tag.RowsAffected(), err)
}

func (r *promptRepo) SetDeleted(ctx context.Context, name string, version int, deleted bool, userID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE prompts SET is_deleted = $3, updated_at = now(), updated_by = $4 WHERE name = $1 AND version = $2`,
		name, version, deleted, userID)
	return affected(tag.RowsAffected(), err)
}

func (r *promptRepo) Delete(ctx context.Context, name string, version int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM prompts WHERE name = $1 AND version = $2`, name, version)
	return affected(tag.RowsAffected(), err)
}

func (r *promptRepo) CountExplicitReferences(ctx context.Context, name string, version int) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM interview_configurations WHERE NOT is_deleted AND (
			(instruction_prompt_name = $1 AND instruction_prompt_version = $2) OR
			(personality_prompt_name = $1 AND personality_prompt_version = $2) OR
			(questions_prompt_name = $1 AND questions_prompt_version = $2)))
		+
		(SELECT COUNT(*) FROM interviews WHERE
			(instruction_prompt_name = $1 AND instruction_prompt_version = $2) OR
			(personality_prompt_name = $1 AND personality_prompt_version = $2) OR
			(questions_prompt_name = $1 AND questions_prompt_version = $2))`,
		name, version).Scan(&n)
	return n, err
}

func (r *promptRepo) CountDynamicReferences(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM interview_configurations WHERE NOT is_deleted AND (
		(instruction_prompt_name = $1 AND instruction_prompt_version IS NULL) OR
		(personality_prompt_name = $1 AND personality_prompt_version IS NULL) OR
		(questions_prompt_name = $1 AND questions_prompt_version IS NULL))`, name).Scan(&n)
	return n, err
}
