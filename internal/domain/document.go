package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is file metadata; the bytes live in blob storage under
// StoragePath. Documents are not sealable.
type Document struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	Name        string
	ContentType string
	SizeBytes   int64
	StoragePath string
	UploadedBy  uuid.UUID
	CreatedAt   time.Time
}

type DocumentRepository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Document, error)
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Document, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
