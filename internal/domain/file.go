package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type File struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	StorageKey   string    `json:"storage_key"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	OwnerUserID  string    `json:"owner_user_id"`
	TenantID     *string   `json:"tenant_id,omitempty"`
	GdprSyncFields
	AuditFields
}

type UploadFileInput struct {
	Filename string
	Data     []byte
	ClientIP string
}

type FileDownload struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type FileRepository interface {
	Create(ctx context.Context, file *File) error
	GetByID(ctx context.Context, id uuid.UUID) (*File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FileUsecase interface {
	Upload(ctx context.Context, userID string, tenantID *string, input *UploadFileInput) (*File, error)
	Get(ctx context.Context, id uuid.UUID) (*File, error)
	// Download is limited to the owner, admins and recruiters of the file's tenant.
	Download(ctx context.Context, userID, role string, tenantID *string, id uuid.UUID) (*FileDownload, error)
	Delete(ctx context.Context, userID string, role string, id uuid.UUID) error
}
