package v1

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/seal"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Orgs() domain.OrganizationRepository
	Users() domain.UserRepository
	Decisions() domain.DecisionRepository
	Approvals() domain.ApprovalRepository
	Reports() domain.ReportRepository
	BoardPacks() domain.BoardPackRepository
	Secrets() domain.SecretRepository
	Documents() domain.DocumentRepository
	Audit() domain.AuditRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, orgID uuid.UUID, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, orgID uuid.UUID, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	GenerateAPIKey(ctx context.Context, orgID, userID uuid.UUID, name string, scopes []string) (string, *domain.APIKey, error)
}

// SealEngine abstracts the seal & approval engine for handler testing.
// *seal.Engine satisfies this interface.
type SealEngine interface {
	CreateDecision(ctx context.Context, p domain.Principal, d *domain.Decision) error
	UpdateDecision(ctx context.Context, p domain.Principal, d *domain.Decision) error
	SubmitDecision(ctx context.Context, p domain.Principal, id uuid.UUID, reviewerIDs []uuid.UUID) error
	ResolveApproval(ctx context.Context, p domain.Principal, requestID uuid.UUID, approve bool, notes string) error
	PublishDecision(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Decision, error)
	DeleteDecision(ctx context.Context, p domain.Principal, id uuid.UUID) error

	CreateReport(ctx context.Context, p domain.Principal, r *domain.Report) error
	UpdateReport(ctx context.Context, p domain.Principal, r *domain.Report) error
	SubmitReport(ctx context.Context, p domain.Principal, id uuid.UUID, reviewerIDs []uuid.UUID) error
	PublishReport(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Report, error)
	DeleteReport(ctx context.Context, p domain.Principal, id uuid.UUID) error

	CreateBoardPack(ctx context.Context, p domain.Principal, b *domain.BoardPack) error
	UpdateBoardPack(ctx context.Context, p domain.Principal, b *domain.BoardPack) error
	ApproveBoardPack(ctx context.Context, p domain.Principal, id uuid.UUID) error
	PublishBoardPack(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.BoardPack, error)
	DeleteBoardPack(ctx context.Context, p domain.Principal, id uuid.UUID) error

	CreateSecret(ctx context.Context, p domain.Principal, s *domain.Secret) error
	UpdateSecret(ctx context.Context, p domain.Principal, s *domain.Secret) error
	SealSecret(ctx context.Context, p domain.Principal, id uuid.UUID, newContent string) (*seal.Certificate, error)
	ViewSecret(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Secret, error)
	AcknowledgeNDA(ctx context.Context, p domain.Principal, id uuid.UUID) error
	ListSecretVersions(ctx context.Context, p domain.Principal, id uuid.UUID) ([]*domain.SecretVersion, error)
	VerifySecretVersion(ctx context.Context, p domain.Principal, secretID uuid.UUID, number int) (*domain.SecretVersion, error)
	SupersedeSecret(ctx context.Context, p domain.Principal, id uuid.UUID) error
	DeleteSecret(ctx context.Context, p domain.Principal, id uuid.UUID) error

	AuditTrail(ctx context.Context, p domain.Principal, kind domain.EntityKind, entityID uuid.UUID) ([]*domain.AuditEvent, error)
}

// BlobStore abstracts document blob storage for handler testing.
// *storage.BlobStore satisfies this interface.
type BlobStore interface {
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
