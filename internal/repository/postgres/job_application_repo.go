package postgres

import (
	"context"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobApplicationRepo struct {
	db *pgxpool.Pool
}

func NewJobApplicationRepository(db *pgxpool.Pool) domain.JobApplicationRepository {
	return &jobApplicationRepo{db: db}
}

const (
	jobApplicationColumns     = `id, user_id, job_post_name, job_post_version, status, current_step, tenant_id`
	jobApplicationStepColumns = `id, job_application_id, step_number, step_name, step_version, status, completed_at`
)

var (
	jobApplicationSelect = fmt.Sprintf(`SELECT %s, %s, %s FROM job_applications`,
		jobApplicationColumns, gdprColumns, auditColumns)
	jobApplicationStepReturning = fmt.Sprintf(`%s, %s, %s`, jobApplicationStepColumns, gdprColumns, auditColumns)
)

func jobApplicationDest(a *domain.JobApplication) []any {
	return fields(
		[]any{&a.ID, &a.UserID, &a.JobPostName, &a.JobPostVersion, &a.Status, &a.CurrentStep, &a.TenantID},
		gdprDest(&a.GdprSyncFields),
		auditDest(&a.AuditFields),
	)
}

func scanJobApplicationStep(row pgx.Row) (*domain.JobApplicationStep, error) {
	var s domain.JobApplicationStep
	err := row.Scan(fields(
		[]any{&s.ID, &s.JobApplicationID, &s.StepNumber, &s.StepName, &s.StepVersion, &s.Status, &s.CompletedAt},
		gdprDest(&s.GdprSyncFields),
		auditDest(&s.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *jobApplicationRepo) Create(ctx context.Context, app *domain.JobApplication, maxCandidates int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if maxCandidates > 0 {
		var locked int
		if err := tx.QueryRow(ctx, `SELECT 1 FROM job_posts WHERE name = $1 AND version = $2 FOR UPDATE`,
			app.JobPostName, app.JobPostVersion).Scan(&locked); err != nil {
			return mapError(err)
		}
		n, err := countActiveApplications(ctx, tx, app.JobPostName, app.JobPostVersion)
		if err != nil {
			return err
		}
		if n >= int64(maxCandidates) {
			return domain.ErrCandidateLimitReached
		}
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(`INSERT INTO job_applications (%s, %s, %s) VALUES (%s)`,
		jobApplicationColumns, gdprInsertColumns, auditColumns, placeholders(1, 17)),
		fields(
			[]any{app.ID, app.UserID, app.JobPostName, app.JobPostVersion, app.Status, app.CurrentStep, app.TenantID},
			gdprArgs(app.GdprSyncFields),
			auditArgs(app.AuditFields),
		)...)
	if err != nil {
		return mapError(err)
	}

	stepQuery := fmt.Sprintf(`INSERT INTO job_application_steps (%s, %s, %s) VALUES (%s)`,
		jobApplicationStepColumns, gdprInsertColumns, auditColumns, placeholders(1, 17))
	batch := &pgx.Batch{}
	for _, s := range app.Steps {
		batch.Queue(stepQuery, fields(
			[]any{s.ID, app.ID, s.StepNumber, s.StepName, s.StepVersion, s.Status, s.CompletedAt},
			gdprArgs(s.GdprSyncFields),
			auditArgs(s.AuditFields),
		)...)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapError(err)
		}
	}
	return tx.Commit(ctx)
}

func (r *jobApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobApplication, error) {
	var a domain.JobApplication
	if err := r.db.QueryRow(ctx, jobApplicationSelect+` WHERE id = $1`, id).Scan(jobApplicationDest(&a)...); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *jobApplicationRepo) Exists(ctx context.Context, userID, jobPostName string, jobPostVersion int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_applications
		WHERE user_id = $1 AND job_post_name = $2 AND job_post_version = $3)`,
		userID, jobPostName, jobPostVersion).Scan(&exists)
	return exists, err
}

func countActiveApplications(ctx context.Context, tx pgx.Tx, jobPostName string, jobPostVersion int) (int64, error) {
	var n int64
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM job_applications
		WHERE job_post_name = $1 AND job_post_version = $2 AND status <> $3`,
		jobPostName, jobPostVersion, domain.ApplicationStatusWithdrawn).Scan(&n)
	return n, err
}

func (r *jobApplicationRepo) ListByUser(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	rows, err := r.db.Query(ctx, jobApplicationSelect+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []domain.JobApplication{}
	for rows.Next() {
		var a domain.JobApplication
		if err := rows.Scan(jobApplicationDest(&a)...); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListByJobPost attaches the candidate's profile name, email and nationality
// when the candidate has one.
func (r *jobApplicationRepo) ListByJobPost(ctx context.Context, jobPostName string, jobPostVersion int) ([]domain.JobApplication, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, up.id, up.name, up.email, up.nationality
		FROM job_applications a
		LEFT JOIN user_profiles up ON up.user_id = a.user_id
		WHERE a.job_post_name = $1 AND a.job_post_version = $2
		ORDER BY a.created_at`,
		prefixColumns("a", jobApplicationColumns), prefixColumns("a", gdprColumns), prefixColumns("a", auditColumns))
	rows, err := r.db.Query(ctx, query, jobPostName, jobPostVersion)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []domain.JobApplication{}
	for rows.Next() {
		var (
			a           domain.JobApplication
			profileID   *uuid.UUID
			name, email *string
			nationality *string
		)
		if err := rows.Scan(append(jobApplicationDest(&a), &profileID, &name, &email, &nationality)...); err != nil {
			return nil, err
		}
		if profileID != nil {
			a.Candidate = &domain.UserProfile{
				ID:          *profileID,
				UserID:      a.UserID,
				Name:        deref(name),
				Email:       deref(email),
				Nationality: nationality,
			}
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *jobApplicationRepo) ListSteps(ctx context.Context, applicationID uuid.UUID) ([]domain.JobApplicationStep, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobApplicationStepReturning+` FROM job_application_steps
		WHERE job_application_id = $1 ORDER BY step_number`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []domain.JobApplicationStep{}
	for rows.Next() {
		s, err := scanJobApplicationStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, *s)
	}
	return steps, rows.Err()
}

func (r *jobApplicationRepo) GetStep(ctx context.Context, stepID uuid.UUID) (*domain.JobApplicationStep, error) {
	s, err := scanJobApplicationStep(r.db.QueryRow(ctx,
		`SELECT `+jobApplicationStepReturning+` FROM job_application_steps WHERE id = $1`, stepID))
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *jobApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, userID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE job_applications SET status = $2, updated_at = now(), updated_by = $3 WHERE id = $1`,
		id, status, userID)
	return affected(tag.RowsAffected(), err)
}

// CompleteStep marks the pending step as completed and moves current_step to
// the next pending step. The application stays on the last step once all are done.
func (r *jobApplicationRepo) CompleteStep(ctx context.Context, applicationID uuid.UUID, stepNumber int, userID string) (*domain.JobApplicationStep, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	step, err := scanJobApplicationStep(tx.QueryRow(ctx, `UPDATE job_application_steps
		SET status = $3, completed_at = now(), updated_at = now(), updated_by = $4
		WHERE job_application_id = $1 AND step_number = $2 AND status = $5
		RETURNING `+jobApplicationStepReturning,
		applicationID, stepNumber, domain.StepStatusCompleted, userID, domain.StepStatusPending))
	if err != nil {
		return nil, mapError(err)
	}

	_, err = tx.Exec(ctx, `UPDATE job_applications SET
		current_step = COALESCE((SELECT MIN(step_number) FROM job_application_steps
			WHERE job_application_id = $1 AND status = $2), current_step),
		status = CASE WHEN status = $3 THEN $4 ELSE status END,
		updated_at = now(), updated_by = $5
		WHERE id = $1`,
		applicationID, domain.StepStatusPending, domain.ApplicationStatusApplied,
		domain.ApplicationStatusInProgress, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return step, nil
}
