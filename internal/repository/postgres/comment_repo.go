package postgres

import (
	"context"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) domain.CommentRepository {
	return &commentRepo{db: db}
}

const commentColumns = `id, entity_type, entity_id, parent_comment_id, content, author_user_id, tenant_id`

var commentSelect = fmt.Sprintf(`SELECT %s, %s, %s FROM comments`, commentColumns, gdprColumns, auditColumns)

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(fields(
		[]any{&c.ID, &c.EntityType, &c.EntityID, &c.ParentCommentID, &c.Content, &c.AuthorUserID, &c.TenantID},
		gdprDest(&c.GdprSyncFields),
		auditDest(&c.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) Create(ctx context.Context, c *domain.Comment) error {
	query := fmt.Sprintf(`INSERT INTO comments (%s, %s, %s) VALUES (%s)`,
		commentColumns, gdprInsertColumns, auditColumns, placeholders(1, 17))
	_, err := r.db.Exec(ctx, query, fields(
		[]any{c.ID, c.EntityType, c.EntityID, c.ParentCommentID, c.Content, c.AuthorUserID, c.TenantID},
		gdprArgs(c.GdprSyncFields),
		auditArgs(c.AuditFields),
	)...)
	return mapError(err)
}

func (r *commentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, commentSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *commentRepo) GetRoot(ctx context.Context, entityType, entityID string) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx,
		commentSelect+` WHERE entity_type = $1 AND entity_id = $2 AND parent_comment_id IS NULL`, entityType, entityID))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *commentRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.Comment, error) {
	return r.query(ctx, commentSelect+` WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at`, entityType, entityID)
}

func (r *commentRepo) ListReplies(ctx context.Context, parentID uuid.UUID) ([]domain.Comment, error) {
	return r.query(ctx, commentSelect+` WHERE parent_comment_id = $1 ORDER BY created_at`, parentID)
}

func (r *commentRepo) query(ctx context.Context, query string, args ...any) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *commentRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string, userID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET content = $2, updated_at = now(), updated_by = $3 WHERE id = $1`,
		id, content, userID)
	return affected(tag.RowsAffected(), err)
}

func (r *commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return affected(tag.RowsAffected(), err)
}
