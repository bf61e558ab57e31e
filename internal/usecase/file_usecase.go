package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"
	"recruiter-platform/pkg/logger"
	"recruiter-platform/pkg/security"
	"recruiter-platform/pkg/security/antivirus"
	"recruiter-platform/pkg/storage"

	"github.com/google/uuid"
)

const (
	maxUploadSize     = 10 << 20
	imageMaxDimension = 1024
	imageQuality      = 80
	downloadURLExpiry = 15 * time.Minute
)

// UploadLimiter is satisfied by *security.UploadLimiter.
type UploadLimiter interface {
	AllowUpload(ctx context.Context, ip, userID string) (bool, int, error)
}

type fileUsecase struct {
	repo    domain.FileRepository
	store   storage.Storage
	scanner antivirus.Scanner
	limiter UploadLimiter
	sync    domain.SyncNotifier
}

func NewFileUsecase(repo domain.FileRepository, store storage.Storage, scanner antivirus.Scanner, limiter UploadLimiter, sync domain.SyncNotifier) domain.FileUsecase {
	if scanner == nil {
		scanner = antivirus.NoOpScanner{}
	}
	return &fileUsecase{repo: repo, store: store, scanner: scanner, limiter: limiter, sync: sync}
}

func (u *fileUsecase) Upload(ctx context.Context, userID string, tenantID *string, input *domain.UploadFileInput) (*domain.File, error) {
	if len(input.Data) == 0 {
		return nil, apperror.BadRequest("File is empty")
	}
	if len(input.Data) > maxUploadSize {
		return nil, apperror.BadRequest("File exceeds the 10MB limit")
	}

	if u.limiter != nil {
		allowed, retryAfter, err := u.limiter.AllowUpload(ctx, input.ClientIP, userID)
		if err != nil {
			logger.Log.Warn("upload limiter failed open", "error", err)
		}
		if !allowed {
			return nil, apperror.TooManyRequests(fmt.Sprintf("Upload limit reached, retry in %d seconds", retryAfter))
		}
	}

	check := security.ValidateFile(input.Filename, input.Data)
	if !check.Valid {
		return nil, apperror.BadRequest("Invalid file: " + check.Error)
	}

	scan := u.scanner.Scan(ctx, input.Filename, bytes.NewReader(input.Data))
	if scan.Error != nil || scan.Infected {
		logger.Log.Warn("upload rejected by antivirus",
			"scanner", scan.ScannerName,
			"threat", scan.ThreatName,
			"error", scan.Error,
			"user_id", userID,
		)
		return nil, apperror.BadRequest("File failed the malware scan")
	}

	data := input.Data
	ext := check.Extension
	contentType := check.DetectedMIME
	if security.IsImageExtension(ext) {
		compressed, err := security.CompressImage(data, imageMaxDimension, imageQuality)
		if err != nil {
			return nil, apperror.BadRequest("Image could not be processed")
		}
		data, ext, contentType = compressed, ".jpg", "image/jpeg"
	}

	id := uuid.New()
	tenant := "shared"
	if tenantID != nil && *tenantID != "" {
		tenant = *tenantID
	}
	key := fmt.Sprintf("tenant/%s/%s%s", tenant, id, ext)

	if _, err := u.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata:    map[string]string{"owner": userID},
	}); err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	now := time.Now()
	file := &domain.File{
		ID:             id,
		OriginalName:   security.SanitizeFilename(input.Filename),
		StorageKey:     key,
		ContentType:    contentType,
		Size:           int64(len(data)),
		OwnerUserID:    userID,
		TenantID:       tenantID,
		GdprSyncFields: domain.DefaultGdprFields(),
		AuditFields: domain.AuditFields{
			CreatedAt: now, UpdatedAt: now,
			CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
		},
	}
	if err := u.repo.Create(ctx, file); err != nil {
		if delErr := u.store.Delete(ctx, key); delErr != nil {
			logger.Log.Error("failed to remove orphaned object", "key", key, "error", delErr)
		}
		return nil, err
	}

	notify(ctx, u.sync, domain.EntityFile, file.ID.String(), domain.TableFiles, false)
	return file, nil
}

func (u *fileUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	file, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("File not found")
	}
	return file, err
}

func (u *fileUsecase) Download(ctx context.Context, userID, role string, tenantID *string, id uuid.UUID) (*domain.FileDownload, error) {
	file, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canReadFile(file, userID, role, tenantID) {
		return nil, apperror.NotFound("File not found")
	}
	url, err := u.store.PresignGet(ctx, file.StorageKey, downloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", file.StorageKey, err)
	}
	return &domain.FileDownload{URL: url, ExpiresAt: time.Now().Add(downloadURLExpiry)}, nil
}

func canReadFile(file *domain.File, userID, role string, tenantID *string) bool {
	switch {
	case file.OwnerUserID == userID, role == domain.RoleAdmin:
		return true
	case role == domain.RoleRecruiter:
		return deref(file.TenantID) == deref(tenantID)
	default:
		return false
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Delete is limited to the owner and admins.
func (u *fileUsecase) Delete(ctx context.Context, userID string, role string, id uuid.UUID) error {
	file, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if file.OwnerUserID != userID && role != domain.RoleAdmin {
		return apperror.Forbidden("You can only delete your own files")
	}
	if err := u.store.Delete(ctx, file.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete object: %w", err)
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	notify(ctx, u.sync, domain.EntityFile, file.ID.String(), domain.TableFiles, true)
	return nil
}
