package seal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
)

// CreateReport creates a draft report owned by the principal.
func (e *Engine) CreateReport(ctx context.Context, p domain.Principal, r *domain.Report) error {
	if !p.CanEdit() {
		return denied(p, "create reports")
	}

	now := time.Now()
	r.ID = uuid.New()
	r.OrgID = p.OrgID
	r.Status = domain.StatusDraft
	r.CreatedBy = p.UserID
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := e.repos.Reports().Create(ctx, r); err != nil {
		return fmt.Errorf("seal.Engine.CreateReport: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionCreate, domain.KindReport, r.ID, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindReport, EntityID: r.ID, Op: domain.ChangeOpInsert, Status: r.Status})

	return nil
}

// UpdateReport replaces a report's content. Allowed in draft and rejected;
// the rejection reason stays queryable as history until the next cycle
// resolves.
func (e *Engine) UpdateReport(ctx context.Context, p domain.Principal, r *domain.Report) error {
	if !p.CanEdit() {
		return denied(p, "edit reports")
	}

	existing, err := e.repos.Reports().GetByID(ctx, p.OrgID, r.ID)
	if err != nil {
		return fmt.Errorf("seal.Engine.UpdateReport: %w", err)
	}
	if existing.Status.Terminal() {
		return fmt.Errorf("report is %s and its content is frozen: %w", existing.Status, domain.ErrInvalidTransition)
	}

	r.OrgID = p.OrgID
	r.Status = existing.Status
	r.RejectionReason = existing.RejectionReason
	r.UpdatedAt = time.Now()
	if err := e.repos.Reports().Update(ctx, r); err != nil {
		return fmt.Errorf("seal.Engine.UpdateReport: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionUpdate, domain.KindReport, r.ID, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindReport, EntityID: r.ID, Op: domain.ChangeOpUpdate, Status: r.Status})

	return nil
}

// SubmitReport moves a report into pending_approval, starting a fresh cycle
// after a rejection.
func (e *Engine) SubmitReport(ctx context.Context, p domain.Principal, id uuid.UUID, reviewerIDs []uuid.UUID) error {
	if !p.CanEdit() {
		return denied(p, "submit reports for approval")
	}
	if len(reviewerIDs) == 0 {
		return fmt.Errorf("seal.Engine.SubmitReport: at least one reviewer required: %w", domain.ErrInvalidTransition)
	}

	r, err := e.repos.Reports().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return fmt.Errorf("seal.Engine.SubmitReport: %w", err)
	}
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Body) == "" {
		return fmt.Errorf("title and body must be non-empty to submit: %w", domain.ErrInvalidTransition)
	}
	if !CanTransition(domain.KindReport, r.Status, domain.StatusPendingApproval) {
		return invalidTransition(domain.KindReport, r.Status, domain.StatusPendingApproval)
	}

	if err := e.repos.Reports().UpdateStatus(ctx, p.OrgID, id, domain.StatusPendingApproval, r.RejectionReason); err != nil {
		return fmt.Errorf("seal.Engine.SubmitReport: %w", err)
	}

	now := time.Now()
	for _, reviewerID := range reviewerIDs {
		req := &domain.ApprovalRequest{
			ID:          uuid.New(),
			OrgID:       p.OrgID,
			EntityKind:  domain.KindReport,
			EntityID:    id,
			ReviewerID:  reviewerID,
			RequestedBy: p.UserID,
			Status:      domain.ApprovalPending,
			CreatedAt:   now,
		}
		if err := e.repos.Approvals().Create(ctx, req); err != nil {
			return fmt.Errorf("seal.Engine.SubmitReport: create request: %w", err)
		}
		e.notifyUser(ctx, reviewerID, fmt.Sprintf("Approval requested: report %q", r.Title))
	}

	e.recordAudit(ctx, p, domain.AuditActionSubmit, domain.KindReport, id, nil, map[string]any{"reviewers": len(reviewerIDs)})
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindReport, EntityID: id, Op: domain.ChangeOpUpdate, Status: domain.StatusPendingApproval})

	return nil
}

// PublishReport freezes an approved report. One-way; a second publish is
// rejected on the published_at guard.
func (e *Engine) PublishReport(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Report, error) {
	if !p.Elevated() {
		return nil, denied(p, "publish reports")
	}

	r, err := e.repos.Reports().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishReport: %w", err)
	}
	if r.PublishedAt != nil {
		return nil, fmt.Errorf("report already published at %s: %w", r.PublishedAt.Format(time.RFC3339), domain.ErrInvalidTransition)
	}
	if !CanTransition(domain.KindReport, r.Status, domain.StatusPublished) {
		return nil, invalidTransition(domain.KindReport, r.Status, domain.StatusPublished)
	}

	hash, _, err := CanonicalReport(r)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishReport: %w", err)
	}

	now := time.Now()
	if err := e.repos.Reports().MarkPublished(ctx, p.OrgID, id, hash, now); err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishReport: %w", err)
	}

	r.Status = domain.StatusPublished
	r.ContentHash = hash
	r.PublishedAt = &now

	e.recordAudit(ctx, p, domain.AuditActionPublish, domain.KindReport, id, nil, map[string]any{"content_hash": hash})
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindReport, EntityID: id, Op: domain.ChangeOpUpdate, Status: domain.StatusPublished})

	return r, nil
}

// DeleteReport removes a report that has not been published.
func (e *Engine) DeleteReport(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if !p.CanDelete() {
		return denied(p, "delete reports")
	}

	r, err := e.repos.Reports().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return fmt.Errorf("seal.Engine.DeleteReport: %w", err)
	}
	if !Deletable(r.Status) {
		return fmt.Errorf("report is %s and may not be deleted: %w", r.Status, domain.ErrInvalidTransition)
	}

	if err := e.repos.Reports().Delete(ctx, p.OrgID, id); err != nil {
		return fmt.Errorf("seal.Engine.DeleteReport: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionDelete, domain.KindReport, id, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindReport, EntityID: id, Op: domain.ChangeOpDelete})

	return nil
}
