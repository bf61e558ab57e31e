package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type questionnaireRepo struct {
	db *pgxpool.Pool
}

func NewQuestionnaireRepository(db *pgxpool.Pool) domain.QuestionnaireRepository {
	return &questionnaireRepo{db: db}
}

const questionnaireColumns = `id, name, version, template_type, title, description, sections, tenant_id, is_deleted`

var questionnaireSelect = fmt.Sprintf(`SELECT %s, %s FROM questionnaire_templates q`, questionnaireColumns, auditColumns)

// Sections are stored as one JSONB document per template.
func scanQuestionnaire(row pgx.Row) (*domain.QuestionnaireTemplate, error) {
	var (
		t        domain.QuestionnaireTemplate
		sections []byte
	)
	err := row.Scan(fields(
		[]any{&t.ID, &t.Name, &t.Version, &t.TemplateType, &t.Title, &t.Description, &sections, &t.TenantID, &t.IsDeleted},
		auditDest(&t.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &t.Sections); err != nil {
		return nil, fmt.Errorf("decode sections of %s: %w", t.Name, err)
	}
	if t.Sections == nil {
		t.Sections = []domain.QuestionnaireSection{}
	}
	return &t, nil
}

func encodeSections(sections []domain.QuestionnaireSection) ([]byte, error) {
	if sections == nil {
		sections = []domain.QuestionnaireSection{}
	}
	return json.Marshal(sections)
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *questionnaireRepo) Create(ctx context.Context, t *domain.QuestionnaireTemplate) error {
	return insertQuestionnaire(ctx, r.db, t)
}

func insertQuestionnaire(ctx context.Context, db execer, t *domain.QuestionnaireTemplate) error {
	sections, err := encodeSections(t.Sections)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO questionnaire_templates (%s, %s) VALUES (%s)`,
		questionnaireColumns, auditColumns, placeholders(1, 13))
	_, err = db.Exec(ctx, query, fields(
		[]any{t.ID, t.Name, t.Version, t.TemplateType, t.Title, t.Description, sections, t.TenantID, t.IsDeleted},
		auditArgs(t.AuditFields),
	)...)
	return mapError(err)
}

func (r *questionnaireRepo) Get(ctx context.Context, id uuid.UUID) (*domain.QuestionnaireTemplate, error) {
	t, err := scanQuestionnaire(r.db.QueryRow(ctx, questionnaireSelect+` WHERE q.id = $1 AND NOT q.is_deleted`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *questionnaireRepo) GetLatestByName(ctx context.Context, name string) (*domain.QuestionnaireTemplate, error) {
	t, err := scanQuestionnaire(r.db.QueryRow(ctx,
		questionnaireSelect+` WHERE lower(q.name) = lower($1) AND NOT q.is_deleted ORDER BY q.version DESC LIMIT 1`, name))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *questionnaireRepo) List(ctx context.Context, filter domain.QuestionnaireFilter) ([]domain.QuestionnaireTemplate, int64, error) {
	w := &where{}
	w.addRaw("NOT q.is_deleted")
	if filter.TemplateType != "" {
		w.add("q.template_type = $%d", filter.TemplateType)
	}
	if filter.Search != "" {
		w.add("(q.name ILIKE $%[1]d OR q.title ILIKE $%[1]d)", likePattern(filter.Search))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questionnaire_templates q`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	rows, err := r.db.Query(ctx, fmt.Sprintf(`%s%s ORDER BY q.name, q.version DESC LIMIT $%d OFFSET $%d`,
		questionnaireSelect, w.String(), n, n+1), append(w.args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	templates := []domain.QuestionnaireTemplate{}
	for rows.Next() {
		t, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, 0, err
		}
		templates = append(templates, *t)
	}
	return templates, total, rows.Err()
}

func (r *questionnaireRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM questionnaire_templates
		WHERE lower(name) = lower($1) AND NOT is_deleted)`, name).Scan(&exists)
	return exists, err
}

func replaceQuestionnaireSections(ctx context.Context, db execer, t *domain.QuestionnaireTemplate) error {
	sections, err := encodeSections(t.Sections)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `UPDATE questionnaire_templates SET sections = $2, updated_at = $3, updated_by = $4
		WHERE id = $1`, t.ID, sections, t.UpdatedAt, t.UpdatedBy)
	return affected(tag.RowsAffected(), err)
}

// ApplyImport writes a workbook import in one transaction.
func (r *questionnaireRepo) ApplyImport(ctx context.Context, created, updated []*domain.QuestionnaireTemplate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, t := range created {
		if err := insertQuestionnaire(ctx, tx, t); err != nil {
			return fmt.Errorf("create %s: %w", t.Name, err)
		}
	}
	for _, t := range updated {
		if err := replaceQuestionnaireSections(ctx, tx, t); err != nil {
			return fmt.Errorf("update %s: %w", t.Name, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *questionnaireRepo) SoftDelete(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE questionnaire_templates SET is_deleted = true, updated_at = now(), updated_by = $2
		WHERE id = $1 AND NOT is_deleted`, id, userID)
	return affected(tag.RowsAffected(), err)
}
