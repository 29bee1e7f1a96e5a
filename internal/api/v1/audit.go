package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type ListAuditInput struct {
	Limit  int `query:"limit" default:"100" minimum:"1" maximum:"500" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListAuditOutput struct {
	Body []*domain.AuditEvent
}

type EntityAuditInput struct {
	Kind     string    `query:"kind" required:"true" enum:"decision,report,board_pack,secret" doc:"Entity kind"`
	EntityID uuid.UUID `query:"entity_id" required:"true" doc:"Entity ID"`
}

type EntityAuditOutput struct {
	Body []*domain.AuditEvent
}

func RegisterAuditRoutes(api huma.API, store DataStore, engine SealEngine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-events",
		Method:      http.MethodGet,
		Path:        "/audit",
		Summary:     "List the organization audit trail",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListAuditInput) (*ListAuditOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}
		if !p.Elevated() {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		events, err := store.Audit().ListByOrg(ctx, p.OrgID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit events", err)
		}

		return &ListAuditOutput{Body: events}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "entity-audit-trail",
		Method:      http.MethodGet,
		Path:        "/audit/entity",
		Summary:     "List the audit trail for a single entity",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *EntityAuditInput) (*EntityAuditOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		events, err := engine.AuditTrail(ctx, p, domain.EntityKind(input.Kind), input.EntityID)
		if err != nil {
			return nil, engineError("audit trail", err)
		}

		return &EntityAuditOutput{Body: events}, nil
	})
}
