package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type CreateDecisionInput struct {
	Body struct {
		Title        string `json:"title" minLength:"1" maxLength:"500" doc:"Decision title"`
		Context      string `json:"context,omitempty" doc:"Problem statement"`
		Decision     string `json:"decision,omitempty" doc:"The decision taken"`
		Consequences string `json:"consequences,omitempty" doc:"Expected consequences"`
	}
}

type CreateDecisionOutput struct {
	Body *domain.Decision
}

type ListDecisionsInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListDecisionsOutput struct {
	Body []*domain.Decision
}

type GetDecisionInput struct {
	ID uuid.UUID `path:"id" doc:"Decision ID"`
}

type GetDecisionOutput struct {
	Body *domain.Decision
}

type UpdateDecisionInput struct {
	ID   uuid.UUID `path:"id" doc:"Decision ID"`
	Body struct {
		Title        string `json:"title,omitempty" maxLength:"500" doc:"Decision title"`
		Context      string `json:"context,omitempty" doc:"Problem statement"`
		Decision     string `json:"decision,omitempty" doc:"The decision taken"`
		Consequences string `json:"consequences,omitempty" doc:"Expected consequences"`
	}
}

type UpdateDecisionOutput struct {
	Body *domain.Decision
}

type SubmitDecisionInput struct {
	ID   uuid.UUID `path:"id" doc:"Decision ID"`
	Body struct {
		ReviewerIDs []uuid.UUID `json:"reviewer_ids" minItems:"1" doc:"Designated reviewers"`
	}
}

type PublishDecisionInput struct {
	ID uuid.UUID `path:"id" doc:"Decision ID"`
}

type PublishDecisionOutput struct {
	Body *domain.Decision
}

type DeleteDecisionInput struct {
	ID uuid.UUID `path:"id" doc:"Decision ID"`
}

func RegisterDecisionRoutes(api huma.API, store DataStore, engine SealEngine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-decision",
		Method:      http.MethodPost,
		Path:        "/decisions",
		Summary:     "Create a draft decision",
		Tags:        []string{"Decisions"},
	}, func(ctx context.Context, input *CreateDecisionInput) (*CreateDecisionOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		d := &domain.Decision{
			Title:        input.Body.Title,
			Context:      input.Body.Context,
			Decision:     input.Body.Decision,
			Consequences: input.Body.Consequences,
		}
		if err := engine.CreateDecision(ctx, p, d); err != nil {
			return nil, engineError("decision", err)
		}

		return &CreateDecisionOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-decisions",
		Method:      http.MethodGet,
		Path:        "/decisions",
		Summary:     "List decisions",
		Tags:        []string{"Decisions"},
	}, func(ctx context.Context, input *ListDecisionsInput) (*ListDecisionsOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		decisions, err := store.Decisions().List(ctx, orgID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list decisions", err)
		}

		return &ListDecisionsOutput{Body: decisions}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-decision",
		Method:      http.MethodGet,
		Path:        "/decisions/{id}",
		Summary:     "Get a decision by ID",
		Tags:        []string{"Decisions"},
	}, func(ctx context.Context, input *GetDecisionInput) (*GetDecisionOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		d, err := store.Decisions().GetByID(ctx, orgID, input.ID)
		if err != nil {
			return nil, engineError("decision", err)
		}

		return &GetDecisionOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-decision",
		Method:      http.MethodPut,
		Path:        "/decisions/{id}",
		Summary:     "Update a decision's content",
		Tags:        []string{"Decisions"},
	}, func(ctx context.Context, input *UpdateDecisionInput) (*UpdateDecisionOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		existing, err := store.Decisions().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, engineError("decision", err)
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Context != "" {
			existing.Context = input.Body.Context
		}
		if input.Body.Decision != "" {
			existing.Decision = input.Body.Decision
		}
		if input.Body.Consequences != "" {
			existing.Consequences = input.Body.Consequences
		}

		if err := engine.UpdateDecision(ctx, p, existing); err != nil {
			return nil, engineError("decision", err)
		}

		return &UpdateDecisionOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-decision",
		Method:      http.MethodPost,
		Path:        "/decisions/{id}/submit",
		Summary:     "Submit a decision for approval",
		Tags:        []string{"Decisions"},
	}, func(ctx context.Context, input *SubmitDecisionInput) (*GetDecisionOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.SubmitDecision(ctx, p, input.ID, input.Body.ReviewerIDs); err != nil {
			return nil, engineError("decision", err)
		}

		d, err := store.Decisions().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, engineError("decision", err)
		}

		return &GetDecisionOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "publish-decision",
		Method:      http.MethodPost,
		Path:        "/decisions/{id}/publish",
		Summary:     "Publish an approved decision",
		Tags:        []string{"Decisions"},
	}, func(ctx context.Context, input *PublishDecisionInput) (*PublishDecisionOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		d, err := engine.PublishDecision(ctx, p, input.ID)
		if err != nil {
			return nil, engineError("decision", err)
		}

		return &PublishDecisionOutput{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-decision",
		Method:      http.MethodDelete,
		Path:        "/decisions/{id}",
		Summary:     "Delete an unpublished decision",
		Tags:        []string{"Decisions"},
	}, func(ctx context.Context, input *DeleteDecisionInput) (*struct{}, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.DeleteDecision(ctx, p, input.ID); err != nil {
			return nil, engineError("decision", err)
		}

		return &struct{}{}, nil
	})
}
