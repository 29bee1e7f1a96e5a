package seal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
)

// CreateDecision creates a draft decision owned by the principal.
func (e *Engine) CreateDecision(ctx context.Context, p domain.Principal, d *domain.Decision) error {
	if !p.CanEdit() {
		return denied(p, "create decisions")
	}

	now := time.Now()
	d.ID = uuid.New()
	d.OrgID = p.OrgID
	d.Status = domain.StatusDraft
	d.CreatedBy = p.UserID
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := e.repos.Decisions().Create(ctx, d); err != nil {
		return fmt.Errorf("seal.Engine.CreateDecision: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionCreate, domain.KindDecision, d.ID, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindDecision, EntityID: d.ID, Op: domain.ChangeOpInsert, Status: d.Status})

	return nil
}

// UpdateDecision replaces a decision's content. Only permitted while the
// decision has not reached a terminal state.
func (e *Engine) UpdateDecision(ctx context.Context, p domain.Principal, d *domain.Decision) error {
	if !p.CanEdit() {
		return denied(p, "edit decisions")
	}

	existing, err := e.repos.Decisions().GetByID(ctx, p.OrgID, d.ID)
	if err != nil {
		return fmt.Errorf("seal.Engine.UpdateDecision: %w", err)
	}
	if existing.Status.Terminal() {
		return fmt.Errorf("decision is %s and its content is frozen: %w", existing.Status, domain.ErrInvalidTransition)
	}

	d.OrgID = p.OrgID
	d.Status = existing.Status
	d.UpdatedAt = time.Now()
	if err := e.repos.Decisions().Update(ctx, d); err != nil {
		return fmt.Errorf("seal.Engine.UpdateDecision: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionUpdate, domain.KindDecision, d.ID, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindDecision, EntityID: d.ID, Op: domain.ChangeOpUpdate, Status: d.Status})

	return nil
}

// SubmitDecision moves a decision into pending_approval and creates one
// approval request per designated reviewer.
func (e *Engine) SubmitDecision(ctx context.Context, p domain.Principal, id uuid.UUID, reviewerIDs []uuid.UUID) error {
	if !p.CanEdit() {
		return denied(p, "submit decisions for approval")
	}
	if len(reviewerIDs) == 0 {
		return fmt.Errorf("seal.Engine.SubmitDecision: at least one reviewer required: %w", domain.ErrInvalidTransition)
	}

	d, err := e.repos.Decisions().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return fmt.Errorf("seal.Engine.SubmitDecision: %w", err)
	}
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Context) == "" || strings.TrimSpace(d.Decision) == "" {
		return fmt.Errorf("title, context and decision must be non-empty to submit: %w", domain.ErrInvalidTransition)
	}
	if !CanTransition(domain.KindDecision, d.Status, domain.StatusPendingApproval) {
		return invalidTransition(domain.KindDecision, d.Status, domain.StatusPendingApproval)
	}

	if err := e.repos.Decisions().UpdateStatus(ctx, p.OrgID, id, domain.StatusPendingApproval); err != nil {
		return fmt.Errorf("seal.Engine.SubmitDecision: %w", err)
	}

	now := time.Now()
	for _, reviewerID := range reviewerIDs {
		req := &domain.ApprovalRequest{
			ID:          uuid.New(),
			OrgID:       p.OrgID,
			EntityKind:  domain.KindDecision,
			EntityID:    id,
			ReviewerID:  reviewerID,
			RequestedBy: p.UserID,
			Status:      domain.ApprovalPending,
			CreatedAt:   now,
		}
		if err := e.repos.Approvals().Create(ctx, req); err != nil {
			return fmt.Errorf("seal.Engine.SubmitDecision: create request: %w", err)
		}
		e.notifyUser(ctx, reviewerID, fmt.Sprintf("Approval requested: decision %q", d.Title))
	}

	e.recordAudit(ctx, p, domain.AuditActionSubmit, domain.KindDecision, id, nil, map[string]any{"reviewers": len(reviewerIDs)})
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindDecision, EntityID: id, Op: domain.ChangeOpUpdate, Status: domain.StatusPendingApproval})

	return nil
}

// ResolveApproval approves or rejects a pending approval request. Only the
// designated reviewer may resolve it, only with an elevated role, and only
// once. Rejection requires non-empty notes. A request whose entity has
// already left pending_approval is stale and cannot be resolved.
func (e *Engine) ResolveApproval(ctx context.Context, p domain.Principal, requestID uuid.UUID, approve bool, notes string) error {
	if !p.CanApprove() {
		return denied(p, "approve or reject")
	}

	req, err := e.repos.Approvals().GetByID(ctx, p.OrgID, requestID)
	if err != nil {
		return fmt.Errorf("seal.Engine.ResolveApproval: %w", err)
	}
	if req.ReviewerID != p.UserID {
		return fmt.Errorf("only the designated reviewer may resolve this request: %w", domain.ErrPermissionDenied)
	}
	if req.Resolved() {
		return fmt.Errorf("approval request already %s: %w", req.Status, domain.ErrInvalidTransition)
	}
	if !approve && strings.TrimSpace(notes) == "" {
		return fmt.Errorf("rejection requires a reason: %w", domain.ErrInvalidTransition)
	}

	resolution := domain.ApprovalApproved
	entityStatus := domain.StatusApproved
	action := domain.AuditActionApprove
	if !approve {
		resolution = domain.ApprovalRejected
		entityStatus = domain.StatusRejected
		action = domain.AuditActionReject
	}

	// A stale request must not move the entity: once the entity has left
	// pending_approval (approved, published, deleted and recreated), later
	// resolutions from other reviewers are rejected outright.
	cur, err := e.reviewedEntityStatus(ctx, p.OrgID, req)
	if err != nil {
		return fmt.Errorf("seal.Engine.ResolveApproval: %w", err)
	}
	if !CanTransition(req.EntityKind, cur, entityStatus) {
		return invalidTransition(req.EntityKind, cur, entityStatus)
	}

	now := time.Now()
	if err := e.repos.Approvals().Resolve(ctx, p.OrgID, requestID, resolution, notes, now); err != nil {
		return fmt.Errorf("seal.Engine.ResolveApproval: %w", err)
	}

	if err := e.flipOnResolve(ctx, p.OrgID, req, entityStatus, notes); err != nil {
		return fmt.Errorf("seal.Engine.ResolveApproval: %w", err)
	}

	e.recordAudit(ctx, p, action, req.EntityKind, req.EntityID, nil, map[string]any{"request_id": requestID.String(), "notes": notes})
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: req.EntityKind, EntityID: req.EntityID, Op: domain.ChangeOpUpdate, Status: entityStatus})
	e.notifyUser(ctx, req.RequestedBy, fmt.Sprintf("Your %s approval request was %s", req.EntityKind, resolution))

	return nil
}

// reviewedEntityStatus loads the current status of the entity a request
// refers to.
func (e *Engine) reviewedEntityStatus(ctx context.Context, orgID uuid.UUID, req *domain.ApprovalRequest) (domain.Status, error) {
	switch req.EntityKind {
	case domain.KindDecision:
		d, err := e.repos.Decisions().GetByID(ctx, orgID, req.EntityID)
		if err != nil {
			return "", err
		}
		return d.Status, nil
	case domain.KindReport:
		r, err := e.repos.Reports().GetByID(ctx, orgID, req.EntityID)
		if err != nil {
			return "", err
		}
		return r.Status, nil
	default:
		return "", fmt.Errorf("kind %s does not use approval requests: %w", req.EntityKind, domain.ErrInvalidTransition)
	}
}

// flipOnResolve moves the reviewed entity out of pending_approval. A single
// resolution suffices for both decisions and reports.
func (e *Engine) flipOnResolve(ctx context.Context, orgID uuid.UUID, req *domain.ApprovalRequest, status domain.Status, notes string) error {
	switch req.EntityKind {
	case domain.KindDecision:
		return e.repos.Decisions().UpdateStatus(ctx, orgID, req.EntityID, status)
	case domain.KindReport:
		reason := ""
		if status == domain.StatusRejected {
			reason = notes
		}
		return e.repos.Reports().UpdateStatus(ctx, orgID, req.EntityID, status, reason)
	default:
		return fmt.Errorf("kind %s does not use approval requests: %w", req.EntityKind, domain.ErrInvalidTransition)
	}
}

// PublishDecision freezes an approved decision: hashes its canonical
// content and stamps published_at. One-way; a second publish is rejected.
func (e *Engine) PublishDecision(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Decision, error) {
	if !p.Elevated() {
		return nil, denied(p, "publish decisions")
	}

	d, err := e.repos.Decisions().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishDecision: %w", err)
	}
	if d.PublishedAt != nil {
		return nil, fmt.Errorf("decision already published at %s: %w", d.PublishedAt.Format(time.RFC3339), domain.ErrInvalidTransition)
	}
	if !CanTransition(domain.KindDecision, d.Status, domain.StatusPublished) {
		return nil, invalidTransition(domain.KindDecision, d.Status, domain.StatusPublished)
	}

	hash, _, err := CanonicalDecision(d)
	if err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishDecision: %w", err)
	}

	now := time.Now()
	if err := e.repos.Decisions().MarkPublished(ctx, p.OrgID, id, hash, now); err != nil {
		return nil, fmt.Errorf("seal.Engine.PublishDecision: %w", err)
	}

	d.Status = domain.StatusPublished
	d.ContentHash = hash
	d.PublishedAt = &now

	e.recordAudit(ctx, p, domain.AuditActionPublish, domain.KindDecision, id, nil, map[string]any{"content_hash": hash})
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindDecision, EntityID: id, Op: domain.ChangeOpUpdate, Status: domain.StatusPublished})

	return d, nil
}

// DeleteDecision removes a decision that has not been published.
func (e *Engine) DeleteDecision(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if !p.CanDelete() {
		return denied(p, "delete decisions")
	}

	d, err := e.repos.Decisions().GetByID(ctx, p.OrgID, id)
	if err != nil {
		return fmt.Errorf("seal.Engine.DeleteDecision: %w", err)
	}
	if !Deletable(d.Status) {
		return fmt.Errorf("decision is %s and may not be deleted: %w", d.Status, domain.ErrInvalidTransition)
	}

	if err := e.repos.Decisions().Delete(ctx, p.OrgID, id); err != nil {
		return fmt.Errorf("seal.Engine.DeleteDecision: %w", err)
	}

	e.recordAudit(ctx, p, domain.AuditActionDelete, domain.KindDecision, id, nil, nil)
	e.publishChange(ctx, p.OrgID, domain.ChangeEvent{Kind: domain.KindDecision, EntityID: id, Op: domain.ChangeOpDelete})

	return nil
}
