package seal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/oakline/boardvault/internal/domain"
)

// ChangePublisher fans entity mutations out to org subscribers. Delivery is
// best-effort; consumers merge idempotently.
type ChangePublisher interface {
	PublishChange(ctx context.Context, orgID uuid.UUID, ev domain.ChangeEvent) error
}

// Notifier delivers fire-and-forget user notifications. Failures are logged
// by the engine, never propagated to the caller.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, message string) error
}

// Timestamper obtains an external trust timestamp over a content digest.
type Timestamper interface {
	Timestamp(ctx context.Context, hashHex string) (token []byte, serial string, err error)
}

// Cipher encrypts secret payloads at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Repos bundles the repositories the engine operates on. *postgres.Store
// satisfies this interface.
type Repos interface {
	Decisions() domain.DecisionRepository
	Approvals() domain.ApprovalRepository
	Reports() domain.ReportRepository
	BoardPacks() domain.BoardPackRepository
	Secrets() domain.SecretRepository
	SecretVersions() domain.SecretVersionRepository
	AccessGrants() domain.AccessGrantRepository
	Audit() domain.AuditRepository
}

// Engine is the seal & approval engine: it guards lifecycle transitions,
// computes content hashes on publish/seal, snapshots immutable versions,
// and appends the audit trail. It decides whether to attempt an operation;
// the backing store remains the enforcement boundary.
type Engine struct {
	repos   Repos
	changes ChangePublisher // nil disables fan-out
	notify  Notifier        // nil disables notifications
	tsa     Timestamper     // nil seals without trust timestamps
	cipher  Cipher          // nil stores secret content as given
}

// Option configures optional engine collaborators.
type Option func(*Engine)

func WithChangePublisher(c ChangePublisher) Option { return func(e *Engine) { e.changes = c } }
func WithNotifier(n Notifier) Option               { return func(e *Engine) { e.notify = n } }
func WithTimestamper(t Timestamper) Option         { return func(e *Engine) { e.tsa = t } }
func WithCipher(c Cipher) Option                   { return func(e *Engine) { e.cipher = c } }

// New creates an Engine over the given repositories.
func New(repos Repos, opts ...Option) *Engine {
	e := &Engine{repos: repos}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// denied builds a role-aware permission error so callers can tell a create
// denial from an edit or delete denial.
func denied(p domain.Principal, verb string) error {
	return fmt.Errorf("role %q may not %s: %w", p.Role, verb, domain.ErrPermissionDenied)
}

func invalidTransition(kind domain.EntityKind, from, to domain.Status) error {
	return fmt.Errorf("%s: %s -> %s: %w", kind, from, to, domain.ErrInvalidTransition)
}

// recordAudit appends an audit event. Best-effort after a successful
// primary action: a failure is logged with full context and escalated to
// error level, but does not roll the action back.
func (e *Engine) recordAudit(ctx context.Context, p domain.Principal, action string, kind domain.EntityKind, entityID uuid.UUID, versionID *uuid.UUID, metadata map[string]any) {
	err := e.repos.Audit().Record(ctx, &domain.AuditEvent{
		ID:         uuid.New(),
		OrgID:      p.OrgID,
		ActorID:    p.UserID,
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		VersionID:  versionID,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		log.Error().Err(err).
			Str("action", action).
			Str("resource", string(kind)).
			Stringer("resource_id", entityID).
			Stringer("org_id", p.OrgID).
			Msg("audit write failed")
	}
}

// mustRecordAudit is the strict variant used for sensitive reads: the view
// of sealed secret content must not outrun its audit record.
func (e *Engine) mustRecordAudit(ctx context.Context, p domain.Principal, action string, kind domain.EntityKind, entityID uuid.UUID, metadata map[string]any) error {
	err := e.repos.Audit().Record(ctx, &domain.AuditEvent{
		ID:         uuid.New(),
		OrgID:      p.OrgID,
		ActorID:    p.UserID,
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("seal.Engine: audit write: %w", err)
	}
	return nil
}

func (e *Engine) publishChange(ctx context.Context, orgID uuid.UUID, ev domain.ChangeEvent) {
	if e.changes == nil {
		return
	}
	if err := e.changes.PublishChange(ctx, orgID, ev); err != nil {
		log.Warn().Err(err).
			Str("kind", string(ev.Kind)).
			Stringer("entity_id", ev.EntityID).
			Msg("change feed publish failed")
	}
}

func (e *Engine) notifyUser(ctx context.Context, userID uuid.UUID, message string) {
	if e.notify == nil {
		return
	}
	if err := e.notify.Notify(ctx, userID, message); err != nil {
		log.Warn().Err(err).Stringer("user_id", userID).Msg("notification failed")
	}
}

// AuditTrail returns the reverse-chronological audit history for an entity.
func (e *Engine) AuditTrail(ctx context.Context, p domain.Principal, kind domain.EntityKind, entityID uuid.UUID) ([]*domain.AuditEvent, error) {
	if !p.CanView() {
		return nil, denied(p, "view audit history")
	}
	events, err := e.repos.Audit().ListByEntity(ctx, p.OrgID, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.AuditTrail: %w", err)
	}
	return events, nil
}
