package seal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
)

// CreateBoardPack creates a draft board pack owned by the principal.
func (e *Engine) CreateBoardPack(ctx context.Context, p domain.Principal, b *domain.BoardPack) error {
	if !p.CanEdit() {
		return denied(p, "create board packs")
	}

	now := time.Now()
	b.ID = uuid.New()
	b.OrgID = p.OrgID
	b.Status = domain.StatusDraft
	b.CreatedBy = p.UserID
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := e.repos.BoardPacks().Create(ctx, b); err != nil {
		return fmt.Errorf("seal.Engine.CreateBoardPack: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionCreate, domain.KindBoardPack, b.ID, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindBoardPack, EntityID: b.ID, Op: domain.ChangeOpInsert, Status: b.Status})

	return nil
}

// UpdateBoardPack replaces a board pack's content while still in draft.
func (e *Engine) UpdateBoardPack(ctx context.Context, p domain.Principal, b *domain.BoardPack) error {
	if !p.CanEdit() {
		return denied(p, "edit board packs")
	}

	existing, err := e.repos.BoardPacks().GetByID(ctx, p.OrgID, b.ID)
	if err != nil {
		return fmt.Errorf("seal.Engine.UpdateBoardPack: %w", err)
	}
	if existing.Status != domain.StatusDraft {
		return fmt.Errorf("board pack is %s and may no longer be edited: %w", existing.Status, domain.ErrInvalidTransition)
	}

	b.OrgID = p.OrgID
	b.Status = existing.Status
	b.UpdatedAt = time.Now()
	if err := e.repos.BoardPacks().Update(ctx, b); err != nil {
		return fmt.Errorf("seal.Engine.UpdateBoardPack: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionUpdate, domain.KindBoardPack, b.ID, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindBoardPack, EntityID: b.ID, Op: domain.ChangeOpUpdate, Status: b.Status})

	return nil
}

// ApproveBoardPack is the single authorized approval action for board
// packs: no request/response cycle, just an elevated principal signing off.
func (e *Engine) ApproveBoardPack(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if !p.CanApprove() {
		return denied(p, "approve board packs")
	}

	b, err := e.repos.BoardPacks().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return fmt.Errorf("seal.Engine.ApproveBoardPack: %w", err)
	}
	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Body) == "" {
		return fmt.Errorf("title and body must be non-empty to approve: %w", domain.ErrInvalidTransition)
	}
	if !CanTransition(domain.KindBoardPack, b.Status, domain.StatusApproved) {
		return invalidTransition(domain.KindBoardPack, b.Status, domain.StatusApproved)
	}

	if err := e.repos.BoardPacks().MarkApproved(ctx, p.OrgID, id, p.UserID); err != nil {
		return fmt.Errorf("seal.Engine.ApproveBoardPack: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionApprove, domain.KindBoardPack, id, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindBoardPack, EntityID: id, Op: domain.ChangeOpUpdate, Status: domain.StatusApproved})

	return nil
}

// PublishBoardPack freezes an approved board pack.
func (e *Engine) PublishBoardPack(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.BoardPack, error) {
	if !p.Elevated() {
		return nil, denied(p, "publish board packs")
	}

	b, err := e.repos.BoardPacks().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishBoardPack: %w", err)
	}
	if b.PublishedAt != nil {
		return nil, fmt.Errorf("board pack already published at %s: %w", b.PublishedAt.Format(time.RFC3339), domain.ErrInvalidTransition)
	}
	if !CanTransition(domain.KindBoardPack, b.Status, domain.StatusPublished) {
		return nil, invalidTransition(domain.KindBoardPack, b.Status, domain.StatusPublished)
	}

	hash, _, err := CanonicalBoardPack(b)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishBoardPack: %w", err)
	}

	now := time.Now()
	if err := e.repos.BoardPacks().MarkPublished(ctx, p.OrgID, id, hash, now); err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishBoardPack: %w", err)
	}

	b.Status = domain.StatusPublished
	b.ContentHash = hash
	b.PublishedAt = &now

	e.recordAudit(ctx, p, domain.AuditActionPublish, domain.KindBoardPack, id, nil, map[string]any{"content_hash": hash})
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindBoardPack, EntityID: id, Op: domain.ChangeOpUpdate, Status: domain.StatusPublished})

	return b, nil
}

// DeleteBoardPack removes a board pack that has not been published.
func (e *Engine) DeleteBoardPack(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if !p.CanDelete() {
		return denied(p, "delete board packs")
	}

	b, err := e.repos.BoardPacks().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return fmt.Errorf("seal.Engine.DeleteBoardPack: %w", err)
	}
	if !Deletable(b.Status) {
		return fmt.Errorf("board pack is %s and may not be deleted: %w", b.Status, domain.ErrInvalidTransition)
	}

	if err := e.repos.BoardPacks().Delete(ctx, p.OrgID, id); err != nil {
		return fmt.Errorf("seal.Engine.DeleteBoardPack: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionDelete, domain.KindBoardPack, id, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindBoardPack, EntityID: id, Op: domain.ChangeOpDelete})

	return nil
}
