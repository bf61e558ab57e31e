package postgres

import (
	"context"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobPostStepRepo struct {
	db *pgxpool.Pool
}

func NewJobPostStepRepository(db *pgxpool.Pool) domain.JobPostStepRepository {
	return &jobPostStepRepo{db: db}
}

const jobPostStepColumns = `id, name, version, participant, step_type, show_step_for_candidate, show_spinner,
	display_title, display_content, interview_configuration_name, interview_configuration_version,
	prompt_name, prompt_version, tenant_id, is_deleted`

var jobPostStepSelect = fmt.Sprintf(`SELECT %s, %s, %s FROM job_post_steps s`,
	jobPostStepColumns, gdprColumns, auditColumns)

func scanJobPostStep(row pgx.Row) (*domain.JobPostStep, error) {
	var s domain.JobPostStep
	err := row.Scan(fields(
		[]any{
			&s.ID, &s.Name, &s.Version, &s.Participant, &s.StepType, &s.ShowStepForCandidate, &s.ShowSpinner,
			&s.DisplayTitle, &s.DisplayContent, &s.InterviewConfigurationName, &s.InterviewConfigurationVersion,
			&s.PromptName, &s.PromptVersion, &s.TenantID, &s.IsDeleted,
		},
		gdprDest(&s.GdprSyncFields),
		auditDest(&s.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *jobPostStepRepo) Create(ctx context.Context, s *domain.JobPostStep) error {
	query := fmt.Sprintf(`INSERT INTO job_post_steps (%s, %s, %s) VALUES (%s)`,
		jobPostStepColumns, gdprInsertColumns, auditColumns, placeholders(1, 25))
	_, err := r.db.Exec(ctx, query, fields(
		[]any{
			s.ID, s.Name, s.Version, s.Participant, s.StepType, s.ShowStepForCandidate, s.ShowSpinner,
			s.DisplayTitle, s.DisplayContent, s.InterviewConfigurationName, s.InterviewConfigurationVersion,
			s.PromptName, s.PromptVersion, s.TenantID, s.IsDeleted,
		},
		gdprArgs(s.GdprSyncFields),
		auditArgs(s.AuditFields),
	)...)
	return mapError(err)
}

func (r *jobPostStepRepo) Get(ctx context.Context, name string, version int) (*domain.JobPostStep, error) {
	s, err := scanJobPostStep(r.db.QueryRow(ctx, jobPostStepSelect+` WHERE s.name = $1 AND s.version = $2`, name, version))
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *jobPostStepRepo) GetLatest(ctx context.Context, name string) (*domain.JobPostStep, error) {
	s, err := scanJobPostStep(r.db.QueryRow(ctx,
		jobPostStepSelect+` WHERE s.name = $1 AND NOT s.is_deleted ORDER BY s.version DESC LIMIT 1`, name))
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *jobPostStepRepo) ListVersions(ctx context.Context, name string) ([]domain.JobPostStep, error) {
	return r.query(ctx, jobPostStepSelect+` WHERE s.name = $1 ORDER BY s.version DESC`, name)
}

func (r *jobPostStepRepo) List(ctx context.Context, filter domain.JobPostStepFilter) ([]domain.JobPostStep, int64, error) {
	w := &where{}
	w.addRaw("NOT s.is_deleted")
	if filter.TenantID != nil {
		w.add("s.tenant_id = $%d", *filter.TenantID)
	}
	if filter.Search != "" {
		w.add("(s.name ILIKE $%[1]d OR s.display_title ILIKE $%[1]d)", likePattern(filter.Search))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT s.name) FROM job_post_steps s`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	query := fmt.Sprintf(`SELECT * FROM (%s%s ORDER BY s.name, s.version DESC) latest
		ORDER BY latest.name LIMIT $%d OFFSET $%d`,
		distinctOnName(jobPostStepSelect), w.String(), n, n+1)
	steps, err := r.query(ctx, query, append(w.args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return steps, total, nil
}

func (r *jobPostStepRepo) query(ctx context.Context, query string, args ...any) ([]domain.JobPostStep, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []domain.JobPostStep{}
	for rows.Next() {
		s, err := scanJobPostStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, *s)
	}
	return steps, rows.Err()
}

func (r *jobPostStepRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_post_steps WHERE lower(name) = lower($1))`, name).Scan(&exists)
	return exists, err
}

func (r *jobPostStepRepo) MaxVersion(ctx context.Context, name string) (int, error) {
	var v int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM job_post_steps WHERE name = $1`, name).Scan(&v)
	return v, err
}

func (r *jobPostStepRepo) Update(ctx context.Context, s *domain.JobPostStep) error {
	tag, err := r.db.Exec(ctx, `UPDATE job_post_steps SET
		participant = $3, step_type = $4, show_step_for_candidate = $5, show_spinner = $6,
		display_title = $7, display_content = $8, interview_configuration_name = $9,
		interview_configuration_version = $10, prompt_name = $11, prompt_version = $12,
		updated_at = $13, updated_by = $14
		WHERE name = $1 AND version = $2`,
		s.Name, s.Version, s.Participant, s.StepType, s.ShowStepForCandidate, s.ShowSpinner,
		s.DisplayTitle, s.DisplayContent, s.InterviewConfigurationName,
		s.InterviewConfigurationVersion, s.PromptName, s.PromptVersion,
		s.UpdatedAt, s.UpdatedBy,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *jobPostStepRepo) SoftDelete(ctx context.Context, name string, version int, userID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE job_post_steps SET is_deleted = true, updated_at = now(), updated_by = $3 WHERE name = $1 AND version = $2`,
		name, version, userID)
	return affected(tag.RowsAffected(), err)
}

func (r *jobPostStepRepo) Delete(ctx context.Context, name string, version int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_post_steps WHERE name = $1 AND version = $2`, name, version)
	return affected(tag.RowsAffected(), err)
}

// CountAssignments counts assignments pinned to this version plus those
// following the latest version of the step.
func (r *jobPostStepRepo) CountAssignments(ctx context.Context, name string, version int) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_post_step_assignments
		WHERE step_name = $1 AND (step_version = $2 OR step_version IS NULL)`, name, version).Scan(&n)
	return n, err
}

type stepAssignmentRepo struct {
	db *pgxpool.Pool
}

func NewStepAssignmentRepository(db *pgxpool.Pool) domain.StepAssignmentRepository {
	return &stepAssignmentRepo{db: db}
}

const stepAssignmentColumns = `id, job_post_name, job_post_version, step_number, step_name, step_version, status`

var stepAssignmentReturning = fmt.Sprintf(`%s, %s, %s`, stepAssignmentColumns, gdprColumns, auditColumns)

func scanStepAssignment(row pgx.Row) (*domain.JobPostStepAssignment, error) {
	var a domain.JobPostStepAssignment
	err := row.Scan(fields(
		[]any{&a.ID, &a.JobPostName, &a.JobPostVersion, &a.StepNumber, &a.StepName, &a.StepVersion, &a.Status},
		gdprDest(&a.GdprSyncFields),
		auditDest(&a.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *stepAssignmentRepo) ListByJobPost(ctx context.Context, jobPostName string, jobPostVersion int) ([]domain.JobPostStepAssignment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+stepAssignmentReturning+` FROM job_post_step_assignments
		WHERE job_post_name = $1 AND job_post_version = $2 ORDER BY step_number`, jobPostName, jobPostVersion)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.JobPostStepAssignment{}
	for rows.Next() {
		a, err := scanStepAssignment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (r *stepAssignmentRepo) ReplaceAll(ctx context.Context, jobPostName string, jobPostVersion int, items []domain.JobPostStepAssignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM job_post_step_assignments WHERE job_post_name = $1 AND job_post_version = $2`,
		jobPostName, jobPostVersion); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO job_post_step_assignments (%s, %s, %s) VALUES (%s)`,
		stepAssignmentColumns, gdprInsertColumns, auditColumns, placeholders(1, 17))
	batch := &pgx.Batch{}
	for _, a := range items {
		batch.Queue(query, fields(
			[]any{a.ID, jobPostName, jobPostVersion, a.StepNumber, a.StepName, a.StepVersion, a.Status},
			gdprArgs(a.GdprSyncFields),
			auditArgs(a.AuditFields),
		)...)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapError(err)
		}
	}
	return tx.Commit(ctx)
}

func (r *stepAssignmentRepo) Remove(ctx context.Context, jobPostName string, jobPostVersion int, stepNumber int) (*domain.JobPostStepAssignment, error) {
	a, err := scanStepAssignment(r.db.QueryRow(ctx, `DELETE FROM job_post_step_assignments
		WHERE job_post_name = $1 AND job_post_version = $2 AND step_number = $3
		RETURNING `+stepAssignmentReturning, jobPostName, jobPostVersion, stepNumber))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}
