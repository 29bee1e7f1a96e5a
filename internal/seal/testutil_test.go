package seal_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
)

// ---------------------------------------------------------------------------
// Principals
// ---------------------------------------------------------------------------

func principal(orgID uuid.UUID, role domain.Role) domain.Principal {
	return domain.Principal{UserID: uuid.New(), OrgID: orgID, Role: role}
}

// ---------------------------------------------------------------------------
// Mock repository bundle — satisfies seal.Repos
// ---------------------------------------------------------------------------

type mockRepos struct {
	decisions      *mockDecisionRepo
	approvals      *mockApprovalRepo
	reports        *mockReportRepo
	boardPacks     *mockBoardPackRepo
	secrets        *mockSecretRepo
	secretVersions *mockSecretVersionRepo
	accessGrants   *mockAccessGrantRepo
	audit          *recordingAuditRepo
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		decisions:      &mockDecisionRepo{},
		approvals:      &mockApprovalRepo{},
		reports:        &mockReportRepo{},
		boardPacks:     &mockBoardPackRepo{},
		secrets:        &mockSecretRepo{},
		secretVersions: &mockSecretVersionRepo{},
		accessGrants:   &mockAccessGrantRepo{},
		audit:          &recordingAuditRepo{},
	}
}

func (m *mockRepos) Decisions() domain.DecisionRepository           { return m.decisions }
func (m *mockRepos) Approvals() domain.ApprovalRepository           { return m.approvals }
func (m *mockRepos) Reports() domain.ReportRepository               { return m.reports }
func (m *mockRepos) BoardPacks() domain.BoardPackRepository         { return m.boardPacks }
func (m *mockRepos) Secrets() domain.SecretRepository               { return m.secrets }
func (m *mockRepos) SecretVersions() domain.SecretVersionRepository { return m.secretVersions }
func (m *mockRepos) AccessGrants() domain.AccessGrantRepository     { return m.accessGrants }
func (m *mockRepos) Audit() domain.AuditRepository                  { return m.audit }

// ---------------------------------------------------------------------------
// Recording audit repo — collects events so tests can assert the trail
// ---------------------------------------------------------------------------

type recordingAuditRepo struct {
	mu         sync.Mutex
	events     []*domain.AuditEvent
	recordFunc func(ctx context.Context, e *domain.AuditEvent) error // optional override
}

func (r *recordingAuditRepo) Record(ctx context.Context, e *domain.AuditEvent) error {
	if r.recordFunc != nil {
		return r.recordFunc(ctx, e)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingAuditRepo) ListByOrg(_ context.Context, _ uuid.UUID, _, _ int) ([]*domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events, nil
}

func (r *recordingAuditRepo) ListByEntity(_ context.Context, _ uuid.UUID, kind domain.EntityKind, entityID uuid.UUID) ([]*domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditEvent
	for _, e := range r.events {
		if e.EntityKind == kind && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *recordingAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

// ---------------------------------------------------------------------------
// Mock DecisionRepository
// ---------------------------------------------------------------------------

type mockDecisionRepo struct {
	createFunc        func(ctx context.Context, d *domain.Decision) error
	getByIDFunc       func(ctx context.Context, orgID, id uuid.UUID) (*domain.Decision, error)
	listFunc          func(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Decision, error)
	updateFunc        func(ctx context.Context, d *domain.Decision) error
	updateStatusFunc  func(ctx context.Context, orgID, id uuid.UUID, status domain.Status) error
	markPublishedFunc func(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error
	deleteFunc        func(ctx context.Context, orgID, id uuid.UUID) error
}

func (m *mockDecisionRepo) Create(ctx context.Context, d *domain.Decision) error {
	return m.createFunc(ctx, d)
}

func (m *mockDecisionRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Decision, error) {
	return m.getByIDFunc(ctx, orgID, id)
}

func (m *mockDecisionRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Decision, error) {
	return m.listFunc(ctx, orgID, limit, offset)
}

func (m *mockDecisionRepo) Update(ctx context.Context, d *domain.Decision) error {
	return m.updateFunc(ctx, d)
}

func (m *mockDecisionRepo) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status domain.Status) error {
	return m.updateStatusFunc(ctx, orgID, id, status)
}

func (m *mockDecisionRepo) MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error {
	return m.markPublishedFunc(ctx, orgID, id, contentHash, publishedAt)
}

func (m *mockDecisionRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.deleteFunc(ctx, orgID, id)
}

// ---------------------------------------------------------------------------
// Mock ApprovalRepository
// ---------------------------------------------------------------------------

type mockApprovalRepo struct {
	createFunc                 func(ctx context.Context, a *domain.ApprovalRequest) error
	getByIDFunc                func(ctx context.Context, orgID, id uuid.UUID) (*domain.ApprovalRequest, error)
	listByEntityFunc           func(ctx context.Context, orgID uuid.UUID, kind domain.EntityKind, entityID uuid.UUID) ([]*domain.ApprovalRequest, error)
	listPendingForReviewerFunc func(ctx context.Context, orgID, reviewerID uuid.UUID) ([]*domain.ApprovalRequest, error)
	resolveFunc                func(ctx context.Context, orgID, id uuid.UUID, status domain.ApprovalStatus, notes string, resolvedAt time.Time) error
}

func (m *mockApprovalRepo) Create(ctx context.Context, a *domain.ApprovalRequest) error {
	return m.createFunc(ctx, a)
}

func (m *mockApprovalRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.ApprovalRequest, error) {
	return m.getByIDFunc(ctx, orgID, id)
}

func (m *mockApprovalRepo) ListByEntity(ctx context.Context, orgID uuid.UUID, kind domain.EntityKind, entityID uuid.UUID) ([]*domain.ApprovalRequest, error) {
	return m.listByEntityFunc(ctx, orgID, kind, entityID)
}

func (m *mockApprovalRepo) ListPendingForReviewer(ctx context.Context, orgID, reviewerID uuid.UUID) ([]*domain.ApprovalRequest, error) {
	return m.listPendingForReviewerFunc(ctx, orgID, reviewerID)
}

func (m *mockApprovalRepo) Resolve(ctx context.Context, orgID, id uuid.UUID, status domain.ApprovalStatus, notes string, resolvedAt time.Time) error {
	return m.resolveFunc(ctx, orgID, id, status, notes, resolvedAt)
}

// ---------------------------------------------------------------------------
// Mock ReportRepository
// ---------------------------------------------------------------------------

type mockReportRepo struct {
	createFunc        func(ctx context.Context, r *domain.Report) error
	getByIDFunc       func(ctx context.Context, orgID, id uuid.UUID) (*domain.Report, error)
	listFunc          func(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Report, error)
	updateFunc        func(ctx context.Context, r *domain.Report) error
	updateStatusFunc  func(ctx context.Context, orgID, id uuid.UUID, status domain.Status, rejectionReason string) error
	markPublishedFunc func(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error
	deleteFunc        func(ctx context.Context, orgID, id uuid.UUID) error
}

func (m *mockReportRepo) Create(ctx context.Context, r *domain.Report) error {
	return m.createFunc(ctx, r)
}

func (m *mockReportRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Report, error) {
	return m.getByIDFunc(ctx, orgID, id)
}

func (m *mockReportRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Report, error) {
	return m.listFunc(ctx, orgID, limit, offset)
}

func (m *mockReportRepo) Update(ctx context.Context, r *domain.Report) error {
	return m.updateFunc(ctx, r)
}

func (m *mockReportRepo) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status domain.Status, rejectionReason string) error {
	return m.updateStatusFunc(ctx, orgID, id, status, rejectionReason)
}

func (m *mockReportRepo) MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error {
	return m.markPublishedFunc(ctx, orgID, id, contentHash, publishedAt)
}

func (m *mockReportRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.deleteFunc(ctx, orgID, id)
}

// ---------------------------------------------------------------------------
// Mock BoardPackRepository
// ---------------------------------------------------------------------------

type mockBoardPackRepo struct {
	createFunc        func(ctx context.Context, b *domain.BoardPack) error
	getByIDFunc       func(ctx context.Context, orgID, id uuid.UUID) (*domain.BoardPack, error)
	listFunc          func(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.BoardPack, error)
	updateFunc        func(ctx context.Context, b *domain.BoardPack) error
	markApprovedFunc  func(ctx context.Context, orgID, id uuid.UUID, approvedBy uuid.UUID) error
	markPublishedFunc func(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error
	deleteFunc        func(ctx context.Context, orgID, id uuid.UUID) error
}

func (m *mockBoardPackRepo) Create(ctx context.Context, b *domain.BoardPack) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardPackRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.BoardPack, error) {
	return m.getByIDFunc(ctx, orgID, id)
}

func (m *mockBoardPackRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.BoardPack, error) {
	return m.listFunc(ctx, orgID, limit, offset)
}

func (m *mockBoardPackRepo) Update(ctx context.Context, b *domain.BoardPack) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBoardPackRepo) MarkApproved(ctx context.Context, orgID, id uuid.UUID, approvedBy uuid.UUID) error {
	return m.markApprovedFunc(ctx, orgID, id, approvedBy)
}

func (m *mockBoardPackRepo) MarkPublished(ctx context.Context, orgID, id uuid.UUID, contentHash string, publishedAt time.Time) error {
	return m.markPublishedFunc(ctx, orgID, id, contentHash, publishedAt)
}

func (m *mockBoardPackRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.deleteFunc(ctx, orgID, id)
}

// ---------------------------------------------------------------------------
// Mock SecretRepository
// ---------------------------------------------------------------------------

type mockSecretRepo struct {
	createFunc     func(ctx context.Context, s *domain.Secret) error
	getByIDFunc    func(ctx context.Context, orgID, id uuid.UUID) (*domain.Secret, error)
	listFunc       func(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Secret, error)
	updateFunc     func(ctx context.Context, s *domain.Secret) error
	markSealedFunc func(ctx context.Context, orgID, id uuid.UUID, versionID uuid.UUID) error
	deleteFunc     func(ctx context.Context, orgID, id uuid.UUID) error
}

func (m *mockSecretRepo) Create(ctx context.Context, s *domain.Secret) error {
	return m.createFunc(ctx, s)
}

func (m *mockSecretRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Secret, error) {
	return m.getByIDFunc(ctx, orgID, id)
}

func (m *mockSecretRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*domain.Secret, error) {
	return m.listFunc(ctx, orgID, limit, offset)
}

func (m *mockSecretRepo) Update(ctx context.Context, s *domain.Secret) error {
	return m.updateFunc(ctx, s)
}

func (m *mockSecretRepo) MarkSealed(ctx context.Context, orgID, id uuid.UUID, versionID uuid.UUID) error {
	return m.markSealedFunc(ctx, orgID, id, versionID)
}

func (m *mockSecretRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.deleteFunc(ctx, orgID, id)
}

// ---------------------------------------------------------------------------
// Mock SecretVersionRepository — allocates monotonic numbers like the store
// ---------------------------------------------------------------------------

type mockSecretVersionRepo struct {
	mu             sync.Mutex
	versions       []*domain.SecretVersion
	createNextFunc func(ctx context.Context, v *domain.SecretVersion) error // optional override
}

func (m *mockSecretVersionRepo) CreateNext(ctx context.Context, v *domain.SecretVersion) error {
	if m.createNextFunc != nil {
		return m.createNextFunc(ctx, v)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := 1
	for _, existing := range m.versions {
		if existing.SecretID == v.SecretID && existing.VersionNumber >= next {
			next = existing.VersionNumber + 1
		}
	}
	v.ID = uuid.New()
	v.VersionNumber = next
	m.versions = append(m.versions, v)
	return nil
}

func (m *mockSecretVersionRepo) GetByID(_ context.Context, _, id uuid.UUID) (*domain.SecretVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSecretVersionRepo) GetByNumber(_ context.Context, _, secretID uuid.UUID, number int) (*domain.SecretVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.SecretID == secretID && v.VersionNumber == number {
			return v, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSecretVersionRepo) ListBySecret(_ context.Context, _, secretID uuid.UUID) ([]*domain.SecretVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.SecretVersion
	for _, v := range m.versions {
		if v.SecretID == secretID {
			out = append(out, v)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Mock AccessGrantRepository — in-memory grant set
// ---------------------------------------------------------------------------

type mockAccessGrantRepo struct {
	mu      sync.Mutex
	grants  map[string]*domain.AccessGrant
	getFunc func(ctx context.Context, orgID, secretID, userID uuid.UUID) (*domain.AccessGrant, error) // optional override
}

func grantKey(secretID, userID uuid.UUID) string {
	return secretID.String() + "/" + userID.String()
}

func (m *mockAccessGrantRepo) Upsert(_ context.Context, g *domain.AccessGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grants == nil {
		m.grants = make(map[string]*domain.AccessGrant)
	}
	key := grantKey(g.SecretID, g.UserID)
	if _, exists := m.grants[key]; !exists {
		m.grants[key] = g
	}
	return nil
}

func (m *mockAccessGrantRepo) Get(ctx context.Context, orgID, secretID, userID uuid.UUID) (*domain.AccessGrant, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, orgID, secretID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[grantKey(secretID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func (m *mockAccessGrantRepo) ListBySecret(_ context.Context, _, secretID uuid.UUID) ([]*domain.AccessGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AccessGrant
	for _, g := range m.grants {
		if g.SecretID == secretID {
			out = append(out, g)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Fake collaborators
// ---------------------------------------------------------------------------

type fakeTimestamper struct {
	token  []byte
	serial string
	err    error
	calls  int
}

func (f *fakeTimestamper) Timestamp(_ context.Context, _ string) ([]byte, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return f.token, f.serial, nil
}

type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) { return "enc:" + plaintext, nil }

func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	if len(ciphertext) >= 4 && ciphertext[:4] == "enc:" {
		return ciphertext[4:], nil
	}
	return ciphertext, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (r *recordingPublisher) PublishChange(_ context.Context, _ uuid.UUID, ev domain.ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}
