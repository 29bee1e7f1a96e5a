package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type ListPendingApprovalsInput struct{}

type ListPendingApprovalsOutput struct {
	Body []*domain.ApprovalRequest
}

type ListEntityApprovalsInput struct {
	Kind     string    `query:"kind" required:"true" enum:"decision,report" doc:"Entity kind"`
	EntityID uuid.UUID `query:"entity_id" required:"true" doc:"Entity ID"`
}

type ListEntityApprovalsOutput struct {
	Body []*domain.ApprovalRequest
}

type ResolveApprovalInput struct {
	ID   uuid.UUID `path:"id" doc:"Approval request ID"`
	Body struct {
		Approve bool   `json:"approve" doc:"true approves, false rejects"`
		Notes   string `json:"notes,omitempty" maxLength:"2000" doc:"Reviewer notes; required on rejection"`
	}
}

type ResolveApprovalOutput struct {
	Body *domain.ApprovalRequest
}

func RegisterApprovalRoutes(api huma.API, store DataStore, engine SealEngine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-pending-approvals",
		Method:      http.MethodGet,
		Path:        "/approvals/pending",
		Summary:     "List the caller's pending approval requests",
		Tags:        []string{"Approvals"},
	}, func(ctx context.Context, _ *ListPendingApprovalsInput) (*ListPendingApprovalsOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		requests, err := store.Approvals().ListPendingForReviewer(ctx, p.OrgID, p.UserID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list approvals", err)
		}

		return &ListPendingApprovalsOutput{Body: requests}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-entity-approvals",
		Method:      http.MethodGet,
		Path:        "/approvals",
		Summary:     "List approval requests for an entity",
		Tags:        []string{"Approvals"},
	}, func(ctx context.Context, input *ListEntityApprovalsInput) (*ListEntityApprovalsOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		requests, err := store.Approvals().ListByEntity(ctx, orgID, domain.EntityKind(input.Kind), input.EntityID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list approvals", err)
		}

		return &ListEntityApprovalsOutput{Body: requests}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-approval",
		Method:      http.MethodPost,
		Path:        "/approvals/{id}/resolve",
		Summary:     "Approve or reject a pending approval request",
		Tags:        []string{"Approvals"},
	}, func(ctx context.Context, input *ResolveApprovalInput) (*ResolveApprovalOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.ResolveApproval(ctx, p, input.ID, input.Body.Approve, input.Body.Notes); err != nil {
			return nil, engineError("approval request", err)
		}

		req, err := store.Approvals().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, engineError("approval request", err)
		}

		return &ResolveApprovalOutput{Body: req}, nil
	})
}
