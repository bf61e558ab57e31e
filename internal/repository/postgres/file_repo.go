package postgres

import (
	"context"
	"fmt"

	"recruiter-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type fileRepo struct {
	db *pgxpool.Pool
}

func NewFileRepository(db *pgxpool.Pool) domain.FileRepository {
	return &fileRepo{db: db}
}

const fileColumns = `id, original_name, storage_key, content_type, size, owner_user_id, tenant_id`

func (r *fileRepo) Create(ctx context.Context, f *domain.File) error {
	query := fmt.Sprintf(`INSERT INTO files (%s, %s, %s) VALUES (%s)`,
		fileColumns, gdprInsertColumns, auditColumns, placeholders(1, 17))
	_, err := r.db.Exec(ctx, query, fields(
		[]any{f.ID, f.OriginalName, f.StorageKey, f.ContentType, f.Size, f.OwnerUserID, f.TenantID},
		gdprArgs(f.GdprSyncFields),
		auditArgs(f.AuditFields),
	)...)
	return mapError(err)
}

func (r *fileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var f domain.File
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s, %s, %s FROM files WHERE id = $1`,
		fileColumns, gdprColumns, auditColumns), id).Scan(fields(
		[]any{&f.ID, &f.OriginalName, &f.StorageKey, &f.ContentType, &f.Size, &f.OwnerUserID, &f.TenantID},
		gdprDest(&f.GdprSyncFields),
		auditDest(&f.AuditFields),
	)...)
	if err != nil {
		return nil, mapError(err)
	}
	return &f, nil
}

func (r *fileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	return affected(tag.RowsAffected(), err)
}
