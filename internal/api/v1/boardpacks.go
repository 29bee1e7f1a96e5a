package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type CreateBoardPackInput struct {
	Body struct {
		Title       string    `json:"title" minLength:"1" maxLength:"500" doc:"Pack title"`
		MeetingDate time.Time `json:"meeting_date" doc:"Board meeting date"`
		Agenda      []string  `json:"agenda,omitempty" doc:"Agenda items"`
		Body        string    `json:"body,omitempty" doc:"Pack body (markdown)"`
	}
}

type CreateBoardPackOutput struct {
	Body *domain.BoardPack
}

type ListBoardPacksInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListBoardPacksOutput struct {
	Body []*domain.BoardPack
}

type GetBoardPackInput struct {
	ID uuid.UUID `path:"id" doc:"Board pack ID"`
}

type GetBoardPackOutput struct {
	Body *domain.BoardPack
}

type UpdateBoardPackInput struct {
	ID   uuid.UUID `path:"id" doc:"Board pack ID"`
	Body struct {
		Title       string     `json:"title,omitempty" maxLength:"500" doc:"Pack title"`
		MeetingDate *time.Time `json:"meeting_date,omitempty" doc:"Board meeting date"`
		Agenda      []string   `json:"agenda,omitempty" doc:"Agenda items"`
		Body        string     `json:"body,omitempty" doc:"Pack body (markdown)"`
	}
}

type UpdateBoardPackOutput struct {
	Body *domain.BoardPack
}

type ApproveBoardPackInput struct {
	ID uuid.UUID `path:"id" doc:"Board pack ID"`
}

type PublishBoardPackInput struct {
	ID uuid.UUID `path:"id" doc:"Board pack ID"`
}

type PublishBoardPackOutput struct {
	Body *domain.BoardPack
}

type DeleteBoardPackInput struct {
	ID uuid.UUID `path:"id" doc:"Board pack ID"`
}

func RegisterBoardPackRoutes(api huma.API, store DataStore, engine SealEngine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-board-pack",
		Method:      http.MethodPost,
		Path:        "/board-packs",
		Summary:     "Create a draft board pack",
		Tags:        []string{"BoardPacks"},
	}, func(ctx context.Context, input *CreateBoardPackInput) (*CreateBoardPackOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		b := &domain.BoardPack{
			Title:       input.Body.Title,
			MeetingDate: input.Body.MeetingDate,
			Agenda:      input.Body.Agenda,
			Body:        input.Body.Body,
		}
		if err := engine.CreateBoardPack(ctx, p, b); err != nil {
			return nil, engineError("board pack", err)
		}

		return &CreateBoardPackOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-board-packs",
		Method:      http.MethodGet,
		Path:        "/board-packs",
		Summary:     "List board packs",
		Tags:        []string{"BoardPacks"},
	}, func(ctx context.Context, input *ListBoardPacksInput) (*ListBoardPacksOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		packs, err := store.BoardPacks().List(ctx, orgID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list board packs", err)
		}

		return &ListBoardPacksOutput{Body: packs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board-pack",
		Method:      http.MethodGet,
		Path:        "/board-packs/{id}",
		Summary:     "Get a board pack by ID",
		Tags:        []string{"BoardPacks"},
	}, func(ctx context.Context, input *GetBoardPackInput) (*GetBoardPackOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		b, err := store.BoardPacks().GetByID(ctx, orgID, input.ID)
		if err != nil {
			return nil, engineError("board pack", err)
		}

		return &GetBoardPackOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board-pack",
		Method:      http.MethodPut,
		Path:        "/board-packs/{id}",
		Summary:     "Update a board pack's content",
		Tags:        []string{"BoardPacks"},
	}, func(ctx context.Context, input *UpdateBoardPackInput) (*UpdateBoardPackOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		existing, err := store.BoardPacks().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, engineError("board pack", err)
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.MeetingDate != nil {
			existing.MeetingDate = *input.Body.MeetingDate
		}
		if input.Body.Agenda != nil {
			existing.Agenda = input.Body.Agenda
		}
		if input.Body.Body != "" {
			existing.Body = input.Body.Body
		}

		if err := engine.UpdateBoardPack(ctx, p, existing); err != nil {
			return nil, engineError("board pack", err)
		}

		return &UpdateBoardPackOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "approve-board-pack",
		Method:      http.MethodPost,
		Path:        "/board-packs/{id}/approve",
		Summary:     "Approve a draft board pack",
		Tags:        []string{"BoardPacks"},
	}, func(ctx context.Context, input *ApproveBoardPackInput) (*GetBoardPackOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.ApproveBoardPack(ctx, p, input.ID); err != nil {
			return nil, engineError("board pack", err)
		}

		b, err := store.BoardPacks().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, engineError("board pack", err)
		}

		return &GetBoardPackOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "publish-board-pack",
		Method:      http.MethodPost,
		Path:        "/board-packs/{id}/publish",
		Summary:     "Publish an approved board pack",
		Tags:        []string{"BoardPacks"},
	}, func(ctx context.Context, input *PublishBoardPackInput) (*PublishBoardPackOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		b, err := engine.PublishBoardPack(ctx, p, input.ID)
		if err != nil {
			return nil, engineError("board pack", err)
		}

		return &PublishBoardPackOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-board-pack",
		Method:      http.MethodDelete,
		Path:        "/board-packs/{id}",
		Summary:     "Delete an unpublished board pack",
		Tags:        []string{"BoardPacks"},
	}, func(ctx context.Context, input *DeleteBoardPackInput) (*struct{}, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.DeleteBoardPack(ctx, p, input.ID); err != nil {
			return nil, engineError("board pack", err)
		}

		return &struct{}{}, nil
	})
}
