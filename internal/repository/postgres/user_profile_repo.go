package postgres

import (
	"context"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userProfileRepo struct {
	db *pgxpool.Pool
}

func NewUserProfileRepository(db *pgxpool.Pool) domain.UserProfileRepository {
	return &userProfileRepo{db: db}
}

const userProfileColumns = `id, user_id, name, email, phone_number, nationality, profile_picture_url, resume_url,
	job_type_preferences, remote_preferences, roles, age, bio, open_to_relocation, tenant_id`

var userProfileSelect = fmt.Sprintf(`SELECT %s, %s, %s FROM user_profiles`, userProfileColumns, gdprColumns, auditColumns)

func scanUserProfile(row pgx.Row) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(fields(
		[]any{
			&p.ID, &p.UserID, &p.Name, &p.Email, &p.PhoneNumber, &p.Nationality, &p.ProfilePictureURL,
			&p.ResumeURL, &p.JobTypePreferences, &p.RemotePreferences, &p.Roles, &p.Age, &p.Bio,
			&p.OpenToRelocation, &p.TenantID,
		},
		gdprDest(&p.GdprSyncFields),
		auditDest(&p.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	p, err := scanUserProfile(r.db.QueryRow(ctx, userProfileSelect+` WHERE user_id = $1`, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *userProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	p, err := scanUserProfile(r.db.QueryRow(ctx, userProfileSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *userProfileRepo) List(ctx context.Context, filter domain.UserProfileFilter) ([]domain.UserProfile, int64, error) {
	w := &where{}
	if filter.TenantID != nil {
		w.add("tenant_id = $%d", *filter.TenantID)
	}
	if filter.Search != "" {
		w.add("(name ILIKE $%[1]d OR email ILIKE $%[1]d)", likePattern(filter.Search))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_profiles`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	query := fmt.Sprintf(`%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, userProfileSelect, w.String(), n, n+1)
	rows, err := r.db.Query(ctx, query, append(w.args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	profiles := []domain.UserProfile{}
	for rows.Next() {
		p, err := scanUserProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, total, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Upsert writes the profile keyed by user id. On conflict the stored id and
// creation audit win and are copied back into p.
func (r *userProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	query := fmt.Sprintf(`INSERT INTO user_profiles (%s, %s, %s) VALUES (%s)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, phone_number = EXCLUDED.phone_number,
			nationality = EXCLUDED.nationality, profile_picture_url = EXCLUDED.profile_picture_url,
			resume_url = EXCLUDED.resume_url, job_type_preferences = EXCLUDED.job_type_preferences,
			remote_preferences = EXCLUDED.remote_preferences, roles = EXCLUDED.roles, age = EXCLUDED.age,
			bio = EXCLUDED.bio, open_to_relocation = EXCLUDED.open_to_relocation,
			is_sanitized = EXCLUDED.is_sanitized, sanitized_at = EXCLUDED.sanitized_at,
			updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by
		RETURNING id, created_at, created_by`,
		userProfileColumns, gdprInsertColumns, auditColumns, placeholders(1, 25))
	err := r.db.QueryRow(ctx, query, fields(
		[]any{
			p.ID, p.UserID, p.Name, p.Email, p.PhoneNumber, p.Nationality, p.ProfilePictureURL,
			p.ResumeURL, nonNil(p.JobTypePreferences), nonNil(p.RemotePreferences), nonNil(p.Roles), p.Age, p.Bio,
			p.OpenToRelocation, p.TenantID,
		},
		gdprArgs(p.GdprSyncFields),
		auditArgs(p.AuditFields),
	)...).Scan(&p.ID, &p.CreatedAt, &p.CreatedBy)
	return mapError(err)
}

func (r *userProfileRepo) RecordOverrideConsent(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE user_profiles SET sanitization_override_consent_at = now(),
		updated_at = now(), updated_by = $1 WHERE user_id = $1`, userID)
	return affected(tag.RowsAffected(), err)
}

// Sanitize keeps the row for referential integrity but drops everything
// identifying. The email is replaced by a per-row placeholder to keep it unique.
func (r *userProfileRepo) Sanitize(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE user_profiles SET
		name = 'Sanitized User', email = 'sanitized+' || id::text || '@invalid',
		phone_number = NULL, nationality = NULL, profile_picture_url = NULL, resume_url = NULL,
		age = NULL, bio = NULL, is_sanitized = true, sanitized_at = now(), updated_at = now()
		WHERE id = $1`, id)
	return affected(tag.RowsAffected(), err)
}
