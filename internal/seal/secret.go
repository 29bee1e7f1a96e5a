package seal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/oakline/boardvault/internal/domain"
)

// Certificate summarizes a completed seal so callers can render an
// evidentiary certificate.
type Certificate struct {
	SecretID      uuid.UUID `json:"secret_id"`
	VersionID     uuid.UUID `json:"version_id"`
	VersionNumber int       `json:"version_number"`
	SHA256Hash    string    `json:"sha256_hash"`
	SealedAt      time.Time `json:"sealed_at"`
	TSASerial     string    `json:"tsa_serial,omitempty"`
}

// CreateSecret creates a draft secret. Content is encrypted before it
// reaches the store; the caller's struct keeps the plaintext.
func (e *Engine) CreateSecret(ctx context.Context, p domain.Principal, s *domain.Secret) error {
	if !p.CanEdit() {
		return denied(p, "create secrets")
	}

	now := time.Now()
	s.ID = uuid.New()
	s.OrgID = p.OrgID
	s.Status = domain.StatusDraft
	s.CreatedBy = p.UserID
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Classification == "" {
		s.Classification = domain.ClassificationInternal
	}

	stored := *s
	enc, err := e.encrypt(s.Content)
	if err != nil {
		return fmt.Errorf("seal.Engine.CreateSecret: %w", err)
	}
	stored.Content = enc

	if err := e.repos.Secrets().Create(ctx, &stored); err != nil {
		return fmt.Errorf("seal.Engine.CreateSecret: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionCreate, domain.KindSecret, s.ID, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindSecret, EntityID: s.ID, Op: domain.ChangeOpInsert, Status: s.Status})

	return nil
}

// UpdateSecret replaces draft content. Sealed content is frozen; changing
// it means sealing a new version, not updating the row.
func (e *Engine) UpdateSecret(ctx context.Context, p domain.Principal, s *domain.Secret) error {
	if !p.CanEdit() {
		return denied(p, "edit secrets")
	}

	existing, err := e.repos.Secrets().GetByID(ctx, p.OrgID, s.ID)
	if err != nil {
		return fmt.Errorf("seal.Engine.UpdateSecret: %w", err)
	}
	if existing.Status != domain.StatusDraft {
		return fmt.Errorf("secret is %s and its content is frozen: %w", existing.Status, domain.ErrInvalidTransition)
	}

	s.OrgID = p.OrgID
	s.Status = existing.Status
	s.CurrentVersionID = existing.CurrentVersionID
	s.UpdatedAt = time.Now()

	stored := *s
	enc, err := e.encrypt(s.Content)
	if err != nil {
		return fmt.Errorf("seal.Engine.UpdateSecret: %w", err)
	}
	stored.Content = enc

	if err := e.repos.Secrets().Update(ctx, &stored); err != nil {
		return fmt.Errorf("seal.Engine.UpdateSecret: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionUpdate, domain.KindSecret, s.ID, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindSecret, EntityID: s.ID, Op: domain.ChangeOpUpdate, Status: s.Status})

	return nil
}

// SealSecret snapshots secret content into an immutable version and flips
// the secret to sealed. There is no approval phase for secrets.
//
// Sealing a draft uses its stored content; newContent must be empty. Sealing
// an already-sealed secret requires newContent and produces the next
// version, leaving every prior version untouched. Version numbers are
// allocated atomically in the store.
func (e *Engine) SealSecret(ctx context.Context, p domain.Principal, id uuid.UUID, newContent string) (*Certificate, error) {
	if !p.Elevated() {
		return nil, denied(p, "seal secrets")
	}

	s, err := e.repos.Secrets().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.SealSecret: %w", err)
	}

	content := ""
	switch s.Status {
	case domain.StatusDraft:
		if newContent != "" {
			return nil, fmt.Errorf("sealing a draft uses its stored content: %w", domain.ErrInvalidTransition)
		}
		content, err = e.decrypt(s.Content)
		if err != nil {
			return nil, fmt.Errorf("seal.Engine.SealSecret: %w", err)
		}
	case domain.StatusSealed:
		if strings.TrimSpace(newContent) == "" {
			return nil, fmt.Errorf("sealed content is frozen; provide new content to seal a successor version: %w", domain.ErrInvalidTransition)
		}
		content = newContent
	default:
		return nil, invalidTransition(domain.KindSecret, s.Status, domain.StatusSealed)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("secret content must be non-empty to seal: %w", domain.ErrInvalidTransition)
	}

	hash, canonical, err := CanonicalSecret(s.Title, content)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.SealSecret: %w", err)
	}

	v := &domain.SecretVersion{
		SecretID:         id,
		OrgID:            p.OrgID,
		ContentCanonical: canonical,
		SHA256Hash:       hash,
		CreatedBy:        p.UserID,
		CreatedAt:        time.Now(),
	}

	// Trust timestamp is best-effort: a TSA outage degrades to sealing
	// without a token.
	if e.tsa != nil {
		token, serial, tsErr := e.tsa.Timestamp(ctx, hash)
		if tsErr != nil {
			log.Warn().Err(tsErr).Stringer("secret_id", id).Msg("trust timestamp unavailable, sealing without token")
		} else {
			v.TSAToken = token
			v.TSASerial = serial
		}
	}

	if err := e.repos.SecretVersions().CreateNext(ctx, v); err != nil {
		return nil, fmt.Errorf("seal.Engine.SealSecret: %w", err)
	}

	if s.Status == domain.StatusSealed {
		// Successor version: the new content becomes the stored content.
		enc, encErr := e.encrypt(content)
		if encErr != nil {
			return nil, fmt.Errorf("seal.Engine.SealSecret: %w", encErr)
		}
		updated := *s
		updated.Content = enc
		updated.UpdatedAt = time.Now()
		if err := e.repos.Secrets().Update(ctx, &updated); err != nil {
			return nil, fmt.Errorf("seal.Engine.SealSecret: %w", err)
		}
	}

	if err := e.repos.Secrets().MarkSealed(ctx, p.OrgID, id, v.ID); err != nil {
		return nil, fmt.Errorf("seal.Engine.SealSecret: %w", err)
	}

	meta := map[string]any{"version_number": v.VersionNumber, "sha256_hash": hash}
	if v.VersionNumber > 1 {
		meta["supersedes_version"] = v.VersionNumber - 1
	}
	e.recordAudit(ctx, p, domain.AuditActionSeal, domain.KindSecret, id, &v.ID, meta)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindSecret, EntityID: id, Op: domain.ChangeOpUpdate, Status: domain.StatusSealed})

	return &Certificate{
		SecretID:      id,
		VersionID:     v.ID,
		VersionNumber: v.VersionNumber,
		SHA256Hash:    hash,
		SealedAt:      v.CreatedAt,
		TSASerial:     v.TSASerial,
	}, nil
}

// ViewSecret returns a secret with decrypted content. Sealed classified
// content is gated on a persisted NDA acknowledgement, and the view is
// only released once its audit record is written.
func (e *Engine) ViewSecret(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Secret, error) {
	if !p.CanView() {
		return nil, denied(p, "view secrets")
	}

	s, err := e.repos.Secrets().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.ViewSecret: %w", err)
	}

	gated := s.Status.Terminal() && s.Classification == domain.ClassificationClassified
	if gated {
		_, grantErr := e.repos.AccessGrants().Get(ctx, p.OrgID, id, p.UserID)
		switch {
		case errors.Is(grantErr, domain.ErrNotFound):
			return nil, fmt.Errorf("NDA acknowledgement required before viewing sealed classified content: %w", domain.ErrPermissionDenied)
		case grantErr != nil:
			// A grant-store failure is not a denial.
			return nil, fmt.Errorf("seal.Engine.ViewSecret: %w", grantErr)
		}
	}

	if s.Status.Terminal() {
		// The view of sealed content must not outrun its audit record.
		err = e.mustRecordAudit(ctx, p, domain.AuditActionView, domain.KindSecret, id, map[string]any{"sealed": true})
		if err != nil {
			return nil, fmt.Errorf("seal.Engine.ViewSecret: %w", err)
		}
	} else {
		e.recordAudit(ctx, p, domain.AuditActionView, domain.KindSecret, id, nil, nil)
	}

	s.Content, err = e.decrypt(s.Content)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.ViewSecret: %w", err)
	}

	return s, nil
}

// AcknowledgeNDA records the principal's click-wrap acceptance for a
// secret. Acceptance persists as an AccessGrant, so future visits are not
// prompted again; repeated acknowledgement is idempotent.
func (e *Engine) AcknowledgeNDA(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if !p.CanView() {
		return denied(p, "acknowledge the NDA")
	}

	if _, err := e.repos.Secrets().GetByID(ctx, p.OrgID, id); err != nil {
		return fmt.Errorf("seal.Engine.AcknowledgeNDA: %w", err)
	}

	now := time.Now()
	grant := &domain.AccessGrant{
		ID:            uuid.New(),
		OrgID:         p.OrgID,
		SecretID:      id,
		UserID:        p.UserID,
		NDAAcceptedAt: now,
		CreatedAt:     now,
	}
	if err := e.repos.AccessGrants().Upsert(ctx, grant); err != nil {
		return fmt.Errorf("seal.Engine.AcknowledgeNDA: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionNDAAccept, domain.KindSecret, id, nil, map[string]any{"nda_accepted": true})

	return nil
}

// ListSecretVersions returns the immutable version history of a secret.
func (e *Engine) ListSecretVersions(ctx context.Context, p domain.Principal, id uuid.UUID) ([]*domain.SecretVersion, error) {
	if !p.CanView() {
		return nil, denied(p, "view secret versions")
	}
	versions, err := e.repos.SecretVersions().ListBySecret(ctx, p.OrgID, id)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.ListSecretVersions: %w", err)
	}
	return versions, nil
}

// VerifySecretVersion recomputes a stored version's hash. A mismatch is
// tampering: it is logged at error level and returned as
// ErrIntegrityMismatch, never downgraded to a validation error.
func (e *Engine) VerifySecretVersion(ctx context.Context, p domain.Principal, secretID uuid.UUID, number int) (*domain.SecretVersion, error) {
	if !p.CanView() {
		return nil, denied(p, "verify secret versions")
	}

	v, err := e.repos.SecretVersions().GetByNumber(ctx, p.OrgID, secretID, number)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.VerifySecretVersion: %w", err)
	}

	if err := VerifyVersion(v); err != nil {
		log.Error().
			Stringer("secret_id", secretID).
			Int("version_number", number).
			Str("stored_hash", v.SHA256Hash).
			Msg("secret version integrity check failed")
		return nil, err
	}

	return v, nil
}

// SupersedeSecret retires a sealed secret replaced by another record. Its
// versions remain intact and queryable.
func (e *Engine) SupersedeSecret(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if !p.Elevated() {
		return denied(p, "supersede secrets")
	}

	s, err := e.repos.Secrets().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return fmt.Errorf("seal.Engine.SupersedeSecret: %w", err)
	}
	if !CanTransition(domain.KindSecret, s.Status, domain.StatusSuperseded) {
		return invalidTransition(domain.KindSecret, s.Status, domain.StatusSuperseded)
	}

	updated := *s
	updated.Status = domain.StatusSuperseded
	updated.UpdatedAt = time.Now()
	if err := e.repos.Secrets().Update(ctx, &updated); err != nil {
		return fmt.Errorf("seal.Engine.SupersedeSecret: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionUpdate, domain.KindSecret, id, nil, map[string]any{"status": string(domain.StatusSuperseded)})
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindSecret, EntityID: id, Op: domain.ChangeOpUpdate, Status: domain.StatusSuperseded})

	return nil
}

// DeleteSecret removes a secret that has never been sealed.
func (e *Engine) DeleteSecret(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if !p.CanDelete() {
		return denied(p, "delete secrets")
	}

	s, err := e.repos.Secrets().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return fmt.Errorf("seal.Engine.DeleteSecret: %w", err)
	}
	if !Deletable(s.Status) {
		return fmt.Errorf("secret is %s and may not be deleted: %w", s.Status, domain.ErrInvalidTransition)
	}

	if err := e.repos.Secrets().Delete(ctx, p.OrgID, id); err != nil {
		return fmt.Errorf("seal.Engine.DeleteSecret: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionDelete, domain.KindSecret, id, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindSecret, EntityID: id, Op: domain.ChangeOpDelete})

	return nil
}

func (e *Engine) encrypt(plaintext string) (string, error) {
	if e.cipher == nil {
		return plaintext, nil
	}
	return e.cipher.Encrypt(plaintext)
}

func (e *Engine) decrypt(ciphertext string) (string, error) {
	if e.cipher == nil {
		return ciphertext, nil
	}
	return e.cipher.Decrypt(ciphertext)
}
