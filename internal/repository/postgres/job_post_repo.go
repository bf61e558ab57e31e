package postgres

import (
	"context"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobPostRepo struct {
	db *pgxpool.Pool
}

func NewJobPostRepository(db *pgxpool.Pool) domain.JobPostRepository {
	return &jobPostRepo{db: db}
}

const jobPostBaseColumns = `id, name, version, max_amount_of_candidates_restriction, minimum_requirements,
	experience_level, job_title, job_type, job_description, industry, intro_text, requirements,
	what_we_offer, company_info, police_report_required, tenant_id, status, origin_country_code, is_deleted`

// The exposure codes are joined in so reads return what was written.
const jobPostSelect = `SELECT jp.id, jp.name, jp.version, jp.max_amount_of_candidates_restriction, jp.minimum_requirements,
	jp.experience_level, jp.job_title, jp.job_type, jp.job_description, jp.industry, jp.intro_text, jp.requirements,
	jp.what_we_offer, jp.company_info, jp.police_report_required, jp.tenant_id, jp.status, jp.origin_country_code,
	jp.is_deleted, COALESCE(ces.country_codes, '{}'),
	jp.data_residency, jp.data_origin_region, jp.country_exposure_set_id, jp.last_synced_at, jp.last_sync_event_id,
	jp.is_sanitized, jp.sanitized_at, jp.sanitization_override_consent_at,
	jp.created_at, jp.created_by, jp.updated_at, jp.updated_by
	FROM job_posts jp
	LEFT JOIN country_exposure_sets ces ON ces.id = jp.country_exposure_set_id`

func scanJobPost(row pgx.Row) (*domain.JobPost, error) {
	var p domain.JobPost
	err := row.Scan(fields(
		[]any{
			&p.ID, &p.Name, &p.Version, &p.MaxAmountOfCandidatesRestriction, &p.MinimumRequirements,
			&p.ExperienceLevel, &p.JobTitle, &p.JobType, &p.JobDescription, &p.Industry, &p.IntroText,
			&p.Requirements, &p.WhatWeOffer, &p.CompanyInfo, &p.PoliceReportRequired, &p.TenantID,
			&p.Status, &p.OriginCountryCode, &p.IsDeleted, &p.CountryExposureCountryCodes,
		},
		gdprDest(&p.GdprSyncFields),
		auditDest(&p.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	if len(p.CountryExposureCountryCodes) == 0 {
		p.CountryExposureCountryCodes = nil
	}
	return &p, nil
}

func (r *jobPostRepo) Create(ctx context.Context, p *domain.JobPost) error {
	query := fmt.Sprintf(`INSERT INTO job_posts (%s, %s, %s) VALUES (%s)`,
		jobPostBaseColumns, gdprInsertColumns, auditColumns, placeholders(1, 29))
	_, err := r.db.Exec(ctx, query, fields(
		[]any{
			p.ID, p.Name, p.Version, p.MaxAmountOfCandidatesRestriction, p.MinimumRequirements,
			p.ExperienceLevel, p.JobTitle, p.JobType, p.JobDescription, p.Industry, p.IntroText,
			p.Requirements, p.WhatWeOffer, p.CompanyInfo, p.PoliceReportRequired, p.TenantID,
			p.Status, p.OriginCountryCode, p.IsDeleted,
		},
		gdprArgs(p.GdprSyncFields),
		auditArgs(p.AuditFields),
	)...)
	return mapError(err)
}

func (r *jobPostRepo) Get(ctx context.Context, name string, version int) (*domain.JobPost, error) {
	p, err := scanJobPost(r.db.QueryRow(ctx, jobPostSelect+` WHERE jp.name = $1 AND jp.version = $2`, name, version))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *jobPostRepo) GetLatest(ctx context.Context, name string) (*domain.JobPost, error) {
	p, err := scanJobPost(r.db.QueryRow(ctx,
		jobPostSelect+` WHERE jp.name = $1 AND NOT jp.is_deleted ORDER BY jp.version DESC LIMIT 1`, name))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *jobPostRepo) ListVersions(ctx context.Context, name string) ([]domain.JobPost, error) {
	return r.query(ctx, jobPostSelect+` WHERE jp.name = $1 ORDER BY jp.version DESC`, name)
}

// List returns the latest non-deleted version of every post matching the filter.
func (r *jobPostRepo) List(ctx context.Context, filter domain.JobPostFilter) ([]domain.JobPost, int64, error) {
	w := &where{}
	w.addRaw("NOT jp.is_deleted")
	if filter.Status != "" {
		w.add("jp.status = $%d", filter.Status)
	}
	if filter.TenantID != nil {
		w.add("jp.tenant_id = $%d", *filter.TenantID)
	}
	if filter.Search != "" {
		w.add("(jp.name ILIKE $%[1]d OR jp.job_title ILIKE $%[1]d)", likePattern(filter.Search))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT jp.name) FROM job_posts jp`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	query := fmt.Sprintf(`SELECT * FROM (%s%s ORDER BY jp.name, jp.version DESC) latest
		ORDER BY latest.updated_at DESC LIMIT $%d OFFSET $%d`,
		distinctOnName(jobPostSelect), w.String(), n, n+1)
	posts, err := r.query(ctx, query, append(w.args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *jobPostRepo) query(ctx context.Context, query string, args ...any) ([]domain.JobPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.JobPost{}
	for rows.Next() {
		p, err := scanJobPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *jobPostRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_posts WHERE lower(name) = lower($1))`, name).Scan(&exists)
	return exists, err
}

func (r *jobPostRepo) MaxVersion(ctx context.Context, name string) (int, error) {
	var v int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM job_posts WHERE name = $1`, name).Scan(&v)
	return v, err
}

func (r *jobPostRepo) Update(ctx context.Context, p *domain.JobPost) error {
	query := `UPDATE job_posts SET
		max_amount_of_candidates_restriction = $3, minimum_requirements = $4, experience_level = $5,
		job_title = $6, job_type = $7, job_description = $8, industry = $9, intro_text = $10,
		requirements = $11, what_we_offer = $12, company_info = $13, police_report_required = $14,
		status = $15, origin_country_code = $16, country_exposure_set_id = $17,
		updated_at = $18, updated_by = $19
		WHERE name = $1 AND version = $2`
	tag, err := r.db.Exec(ctx, query,
		p.Name, p.Version, p.MaxAmountOfCandidatesRestriction, p.MinimumRequirements, p.ExperienceLevel,
		p.JobTitle, p.JobType, p.JobDescription, p.Industry, p.IntroText,
		p.Requirements, p.WhatWeOffer, p.CompanyInfo, p.PoliceReportRequired,
		p.Status, p.OriginCountryCode, p.CountryExposureSetID,
		p.UpdatedAt, p.UpdatedBy,
	)
	return affected(tag.RowsAffected(), err)
}

func (r *jobPostRepo) UpdateStatus(ctx context.Context, name string, version int, status domain.JobPostStatus, userID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE job_posts SET status = $3, updated_at = now(), updated_by = $4 WHERE name = $1 AND version = $2`,
		name, version, status, userID)
	return affected(tag.RowsAffected(), err)
}

func (r *jobPostRepo) SoftDelete(ctx context.Context, name string, version int, userID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE job_posts SET is_deleted = true, updated_at = now(), updated_by = $3 WHERE name = $1 AND version = $2`,
		name, version, userID)
	return affected(tag.RowsAffected(), err)
}

func (r *jobPostRepo) Delete(ctx context.Context, name string, version int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_posts WHERE name = $1 AND version = $2`, name, version)
	return affected(tag.RowsAffected(), err)
}

func (r *jobPostRepo) CountApplications(ctx context.Context, name string, version int) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_applications WHERE job_post_name = $1 AND job_post_version = $2`,
		name, version).Scan(&n)
	return n, err
}
