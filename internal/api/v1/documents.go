package v1

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
	"github.com/oakline/boardvault/internal/storage"
)

type UploadDocumentInput struct {
	Name        string `query:"name" required:"true" maxLength:"255" doc:"File name"`
	ContentType string `header:"Content-Type" doc:"MIME type"`
	RawBody     []byte
}

type UploadDocumentOutput struct {
	Body *domain.Document
}

type ListDocumentsInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListDocumentsOutput struct {
	Body []*domain.Document
}

type DownloadDocumentInput struct {
	ID uuid.UUID `path:"id" doc:"Document ID"`
}

type DownloadDocumentOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type DeleteDocumentInput struct {
	ID uuid.UUID `path:"id" doc:"Document ID"`
}

func RegisterDocumentRoutes(api huma.API, store DataStore, blobs BlobStore) {
	huma.Register(api, huma.Operation{
		OperationID: "upload-document",
		Method:      http.MethodPost,
		Path:        "/documents",
		Summary:     "Upload a document",
		Tags:        []string{"Documents"},
	}, func(ctx context.Context, input *UploadDocumentInput) (*UploadDocumentOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}
		if !p.CanEdit() {
			return nil, huma.Error403Forbidden("editor role required")
		}
		if len(input.RawBody) == 0 {
			return nil, huma.Error400BadRequest("empty document body")
		}

		contentType := input.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		docID := uuid.New()
		path := storage.ObjectPath(p.OrgID, docID, input.Name)

		if err := blobs.Upload(ctx, path, bytes.NewReader(input.RawBody), int64(len(input.RawBody)), contentType); err != nil {
			return nil, huma.Error500InternalServerError("failed to store document", err)
		}

		d := &domain.Document{
			ID:          docID,
			OrgID:       p.OrgID,
			Name:        input.Name,
			ContentType: contentType,
			SizeBytes:   int64(len(input.RawBody)),
			StoragePath: path,
			UploadedBy:  p.UserID,
			CreatedAt:   time.Now(),
		}
		if err := store.Documents().Create(ctx, d); err != nil {
			return nil, huma.Error500InternalServerError("failed to record document", err)
		}

		return &UploadDocumentOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-documents",
		Method:      http.MethodGet,
		Path:        "/documents",
		Summary:     "List documents",
		Tags:        []string{"Documents"},
	}, func(ctx context.Context, input *ListDocumentsInput) (*ListDocumentsOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		docs, err := store.Documents().List(ctx, orgID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list documents", err)
		}

		return &ListDocumentsOutput{Body: docs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "download-document",
		Method:      http.MethodGet,
		Path:        "/documents/{id}",
		Summary:     "Download a document",
		Tags:        []string{"Documents"},
	}, func(ctx context.Context, input *DownloadDocumentInput) (*DownloadDocumentOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		d, err := store.Documents().GetByID(ctx, orgID, input.ID)
		if err != nil {
			return nil, engineError("document", err)
		}

		rc, err := blobs.Download(ctx, d.StoragePath)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to fetch document", err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to read document", err)
		}

		return &DownloadDocumentOutput{ContentType: d.ContentType, Body: data}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-document",
		Method:      http.MethodDelete,
		Path:        "/documents/{id}",
		Summary:     "Delete a document",
		Tags:        []string{"Documents"},
	}, func(ctx context.Context, input *DeleteDocumentInput) (*struct{}, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}
		if !p.CanDelete() {
			return nil, huma.Error403Forbidden("admin role required")
		}

		d, err := store.Documents().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, engineError("document", err)
		}

		if err := store.Documents().Delete(ctx, p.OrgID, input.ID); err != nil {
			return nil, engineError("document", err)
		}

		// Blob removal after the metadata delete; an orphaned object is
		// harmless and cleaned up by bucket lifecycle rules.
		if err := blobs.Delete(ctx, d.StoragePath); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete document blob", err)
		}

		return &struct{}{}, nil
	})
}
