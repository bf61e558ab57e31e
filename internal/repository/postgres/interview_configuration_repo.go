package postgres

import (
	"context"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type interviewConfigurationRepo struct {
	db *pgxpool.Pool
}

func NewInterviewConfigurationRepository(db *pgxpool.Pool) domain.InterviewConfigurationRepository {
	return &interviewConfigurationRepo{db: db}
}

const interviewConfigurationColumns = `id, name, version, modality, tone, probing_depth, focus_area, language,
	duration, instruction_prompt_name, instruction_prompt_version, personality_prompt_name,
	personality_prompt_version, questions_prompt_name, questions_prompt_version, is_active, tenant_id, is_deleted`

var interviewConfigurationSelect = fmt.Sprintf(`SELECT %s, %s, %s FROM interview_configurations c`,
	interviewConfigurationColumns, gdprColumns, auditColumns)

func scanInterviewConfiguration(row pgx.Row) (*domain.InterviewConfiguration, error) {
	var c domain.InterviewConfiguration
	err := row.Scan(fields(
		[]any{
			&c.ID, &c.Name, &c.Version, &c.Modality, &c.Tone, &c.ProbingDepth, &c.FocusArea, &c.Language,
			&c.Duration, &c.InstructionPromptName, &c.InstructionPromptVersion, &c.PersonalityPromptName,
			&c.PersonalityPromptVersion, &c.QuestionsPromptName, &c.QuestionsPromptVersion, &c.IsActive,
			&c.TenantID, &c.IsDeleted,
		},
		gdprDest(&c.GdprSyncFields),
		auditDest(&c.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *interviewConfigurationRepo) Create(ctx context.Context, c *domain.InterviewConfiguration) error {
	query := fmt.Sprintf(`INSERT INTO interview_configurations (%s, %s, %s) VALUES (%s)`,
		interviewConfigurationColumns, gdprInsertColumns, auditColumns, placeholders(1, 28))
	_, err := r.db.Exec(ctx, query, fields(
		[]any{
			c.ID, c.Name, c.Version, c.Modality, c.Tone, c.ProbingDepth, c.FocusArea, c.Language,
			c.Duration, c.InstructionPromptName, c.InstructionPromptVersion, c.PersonalityPromptName,
			c.PersonalityPromptVersion, c.QuestionsPromptName, c.QuestionsPromptVersion, c.IsActive,
			c.TenantID, c.IsDeleted,
		},
		gdprArgs(c.GdprSyncFields),
		auditArgs(c.AuditFields),
	)...)
	return mapError(err)
}

func (r *interviewConfigurationRepo) Get(ctx context.Context, name string, version int) (*domain.InterviewConfiguration, error) {
	c, err := scanInterviewConfiguration(r.db.QueryRow(ctx,
		interviewConfigurationSelect+` WHERE c.name = $1 AND c.version = $2`, name, version))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *interviewConfigurationRepo) GetLatest(ctx context.Context, name string) (*domain.InterviewConfiguration, error) {
	c, err := scanInterviewConfiguration(r.db.QueryRow(ctx,
		interviewConfigurationSelect+` WHERE c.name = $1 AND NOT c.is_deleted ORDER BY c.version DESC LIMIT 1`, name))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *interviewConfigurationRepo) List(ctx context.Context, filter domain.InterviewConfigurationFilter) ([]domain.InterviewConfiguration, int64, error) {
	w := &where{}
	w.addRaw("NOT c.is_deleted")
	if filter.ActiveOnly {
		w.addRaw("c.is_active")
	}
	if filter.TenantID != nil {
		w.add("c.tenant_id = $%d", *filter.TenantID)
	}
	if filter.Search != "" {
		w.add("c.name ILIKE $%d", likePattern(filter.Search))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT c.name) FROM interview_configurations c`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	query := fmt.Sprintf(`SELECT * FROM (%s%s ORDER BY c.name, c.version DESC) latest
		ORDER BY latest.name LIMIT $%d OFFSET $%d`,
		distinctOnName(interviewConfigurationSelect), w.String(), n, n+1)
	rows, err := r.db.Query(ctx, query, append(w.args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	configs := []domain.InterviewConfiguration{}
	for rows.Next() {
		c, err := scanInterviewConfiguration(rows)
		if err != nil {
			return nil, 0, err
		}
		configs = append(configs, *c)
	}
	return configs, total, rows.Err()
}

func (r *interviewConfigurationRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM interview_configurations WHERE lower(name) = lower($1))`, name).Scan(&exists)
	return exists, err
}

func (r *interviewConfigurationRepo) MaxVersion(ctx context.Context, name string) (int, error) {
	var v int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM interview_configurations WHERE name = $1`, name).Scan(&v)
	return v, err
}

func (r *interviewConfigurationRepo) Update(ctx context.Context, c *domain.InterviewConfiguration) error {
	tag, err := r.db.Exec(ctx, `UPDATE interview_configurations SET
		modality = $3, tone = $4, probing_depth = $5, focus_area = $6, language = $7, duration = $8,
		instruction_prompt_name = $9, instruction_prompt_version = $10,
		personality_prompt_name = $11, personality_prompt_version = $12,
		questions_prompt_name = $13, questions_prompt_version = $14, is_active = $15,
		updated_at = $16, updated_by = $17
		WHERE name = $1 AND version = $2`,
		c.Name, c.Version, c.Modality, c.Tone, c.ProbingDepth, c.FocusArea, c.Language, c.Duration,
		c.InstructionPromptName, c.InstructionPromptVersion,
		c.PersonalityPromptName, c.PersonalityPromptVersion,
		c.QuestionsPromptName, c.QuestionsPromptVersion, c.IsActive,
		c.UpdatedAt, c.UpdatedBy,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *interviewConfigurationRepo) SoftDelete(ctx context.Context, name string, version int, userID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE interview_configurations SET is_deleted = true, updated_at = now(), updated_by = $3
		WHERE name = $1 AND version = $2`, name, version, userID)
	return affected(tag.RowsAffected(), err)
}

func (r *interviewConfigurationRepo) Delete(ctx context.Context, name string, version int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM interview_configurations WHERE name = $1 AND version = $2`, name, version)
	return affected(tag.RowsAffected(), err)
}

func (r *interviewConfigurationRepo) CountInterviews(ctx context.Context, name string, version int) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM interviews
		WHERE interview_configuration_name = $1 AND interview_configuration_version = $2`, name, version).Scan(&n)
	return n, err
}
