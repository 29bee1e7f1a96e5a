package v1

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/seal"
	"github.com/oakline/boardvault/internal/server/middleware"
)

// authedCtx builds a context carrying the values the Auth middleware would
// have injected for an authenticated request.
func authedCtx(orgID, userID uuid.UUID, role domain.Role) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyOrgID, orgID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	return api
}

// ---------------------------------------------------------------------------
// Mock DataStore — only the repositories the handlers under test touch are
// populated; the rest return nil and panic loudly if reached.
// ---------------------------------------------------------------------------

type mockDataStore struct {
	decisions *mockDecisionRepo
	secrets   *mockSecretRepo
	audit     *mockAuditRepo
}

func (m *mockDataStore) Orgs() domain.OrganizationRepository       { return nil }
func (m *mockDataStore) Users() domain.UserRepository              { return nil }
func (m *mockDataStore) Decisions() domain.DecisionRepository      { return m.decisions }
func (m *mockDataStore) Approvals() domain.ApprovalRepository      { return nil }
func (m *mockDataStore) Reports() domain.ReportRepository          { return nil }
func (m *mockDataStore) BoardPacks() domain.BoardPackRepository    { return nil }
func (m *mockDataStore) Secrets() domain.SecretRepository          { return m.secrets }
func (m *mockDataStore) Documents() domain.DocumentRepository      { return nil }
func (m *mockDataStore) Audit() domain.AuditRepository             { return m.audit }

type mockDecisionRepo struct {
	domain.DecisionRepository

	getByIDFunc func(ctx context.Context, orgID, id uuid.UUID) (*domain.Decision, error)
	listFunc    func(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Decision, error)
}

func (m *mockDecisionRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Decision, error) {
	return m.getByIDFunc(ctx, orgID, id)
}

func (m *mockDecisionRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Decision, error) {
	return m.listFunc(ctx, orgID, limit, offset)
}

type mockSecretRepo struct {
	domain.SecretRepository

	listFunc func(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Secret, error)
}

func (m *mockSecretRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Secret, error) {
	return m.listFunc(ctx, orgID, limit, offset)
}

type mockAuditRepo struct {
	domain.AuditRepository

	listByOrgFunc func(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.AuditEvent, error)
}

func (m *mockAuditRepo) ListByOrg(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.AuditEvent, error) {
	return m.listByOrgFunc(ctx, orgID, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock SealEngine — func-field mock; tests set only what they expect called.
// ---------------------------------------------------------------------------

type mockSealEngine struct {
	SealEngine

	createDecisionFunc  func(ctx context.Context, p domain.Principal, d *domain.Decision) error
	updateDecisionFunc  func(ctx context.Context, p domain.Principal, d *domain.Decision) error
	submitDecisionFunc  func(ctx context.Context, p domain.Principal, id uuid.UUID, reviewerIDs []uuid.UUID) error
	publishDecisionFunc func(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Decision, error)
	deleteDecisionFunc  func(ctx context.Context, p domain.Principal, id uuid.UUID) error

	createSecretFunc        func(ctx context.Context, p domain.Principal, s *domain.Secret) error
	sealSecretFunc          func(ctx context.Context, p domain.Principal, id uuid.UUID, newContent string) (*seal.Certificate, error)
	viewSecretFunc          func(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Secret, error)
	acknowledgeNDAFunc      func(ctx context.Context, p domain.Principal, id uuid.UUID) error
	verifySecretVersionFunc func(ctx context.Context, p domain.Principal, secretID uuid.UUID, number int) (*domain.SecretVersion, error)
}

func (m *mockSealEngine) CreateDecision(ctx context.Context, p domain.Principal, d *domain.Decision) error {
	return m.createDecisionFunc(ctx, p, d)
}

func (m *mockSealEngine) UpdateDecision(ctx context.Context, p domain.Principal, d *domain.Decision) error {
	return m.updateDecisionFunc(ctx, p, d)
}

func (m *mockSealEngine) SubmitDecision(ctx context.Context, p domain.Principal, id uuid.UUID, reviewerIDs []uuid.UUID) error {
	return m.submitDecisionFunc(ctx, p, id, reviewerIDs)
}

func (m *mockSealEngine) PublishDecision(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Decision, error) {
	return m.publishDecisionFunc(ctx, p, id)
}

func (m *mockSealEngine) DeleteDecision(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	return m.deleteDecisionFunc(ctx, p, id)
}

func (m *mockSealEngine) CreateSecret(ctx context.Context, p domain.Principal, s *domain.Secret) error {
	return m.createSecretFunc(ctx, p, s)
}

func (m *mockSealEngine) SealSecret(ctx context.Context, p domain.Principal, id uuid.UUID, newContent string) (*seal.Certificate, error) {
	return m.sealSecretFunc(ctx, p, id, newContent)
}

func (m *mockSealEngine) ViewSecret(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Secret, error) {
	return m.viewSecretFunc(ctx, p, id)
}

func (m *mockSealEngine) AcknowledgeNDA(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	return m.acknowledgeNDAFunc(ctx, p, id)
}

func (m *mockSealEngine) VerifySecretVersion(ctx context.Context, p domain.Principal, secretID uuid.UUID, number int) (*domain.SecretVersion, error) {
	return m.verifySecretVersionFunc(ctx, p, secretID, number)
}
