package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type CreateReportInput struct {
	Body struct {
		Title  string `json:"title" minLength:"1" maxLength:"500" doc:"Report title"`
		Period string `json:"period" minLength:"1" maxLength:"32" doc:"Reporting period, e.g. 2026-Q2"`
		Body   string `json:"body,omitempty" doc:"Report body (markdown)"`
	}
}

type CreateReportOutput struct {
	Body *domain.Report
}

type ListReportsInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListReportsOutput struct {
	Body []*domain.Report
}

type GetReportInput struct {
	ID uuid.UUID `path:"id" doc:"Report ID"`
}

type GetReportOutput struct {
	Body *domain.Report
}

type UpdateReportInput struct {
	ID   uuid.UUID `path:"id" doc:"Report ID"`
	Body struct {
		Title  string `json:"title,omitempty" maxLength:"500" doc:"Report title"`
		Period string `json:"period,omitempty" maxLength:"32" doc:"Reporting period"`
		Body   string `json:"body,omitempty" doc:"Report body (markdown)"`
	}
}

type UpdateReportOutput struct {
	Body *domain.Report
}

type SubmitReportInput struct {
	ID   uuid.UUID `path:"id" doc:"Report ID"`
	Body struct {
		ReviewerIDs []uuid.UUID `json:"reviewer_ids" minItems:"1" doc:"Designated reviewers"`
	}
}

type PublishReportInput struct {
	ID uuid.UUID `path:"id" doc:"Report ID"`
}

type PublishReportOutput struct {
	Body *domain.Report
}

type DeleteReportInput struct {
	ID uuid.UUID `path:"id" doc:"Report ID"`
}

func RegisterReportRoutes(api huma.API, store DataStore, engine SealEngine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-report",
		Method:      http.MethodPost,
		Path:        "/reports",
		Summary:     "Create a draft report",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *CreateReportInput) (*CreateReportOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		r := &domain.Report{
			Title:  input.Body.Title,
			Period: input.Body.Period,
			Body:   input.Body.Body,
		}
		if err := engine.CreateReport(ctx, p, r); err != nil {
			return nil, engineError("report", err)
		}

		return &CreateReportOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-reports",
		Method:      http.MethodGet,
		Path:        "/reports",
		Summary:     "List reports",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *ListReportsInput) (*ListReportsOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		reports, err := store.Reports().List(ctx, orgID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list reports", err)
		}

		return &ListReportsOutput{Body: reports}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-report",
		Method:      http.MethodGet,
		Path:        "/reports/{id}",
		Summary:     "Get a report by ID",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *GetReportInput) (*GetReportOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		r, err := store.Reports().GetByID(ctx, orgID, input.ID)
		if err != nil {
			return nil, engineError("report", err)
		}

		return &GetReportOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-report",
		Method:      http.MethodPut,
		Path:        "/reports/{id}",
		Summary:     "Update a report's content",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *UpdateReportInput) (*UpdateReportOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		existing, err := store.Reports().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, engineError("report", err)
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Period != "" {
			existing.Period = input.Body.Period
		}
		if input.Body.Body != "" {
			existing.Body = input.Body.Body
		}

		if err := engine.UpdateReport(ctx, p, existing); err != nil {
			return nil, engineError("report", err)
		}

		return &UpdateReportOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-report",
		Method:      http.MethodPost,
		Path:        "/reports/{id}/submit",
		Summary:     "Submit a report for approval",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *SubmitReportInput) (*GetReportOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.SubmitReport(ctx, p, input.ID, input.Body.ReviewerIDs); err != nil {
			return nil, engineError("report", err)
		}

		r, err := store.Reports().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, engineError("report", err)
		}

		return &GetReportOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "publish-report",
		Method:      http.MethodPost,
		Path:        "/reports/{id}/publish",
		Summary:     "Publish an approved report",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *PublishReportInput) (*PublishReportOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		r, err := engine.PublishReport(ctx, p, input.ID)
		if err != nil {
			return nil, engineError("report", err)
		}

		return &PublishReportOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-report",
		Method:      http.MethodDelete,
		Path:        "/reports/{id}",
		Summary:     "Delete an unpublished report",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *DeleteReportInput) (*struct{}, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.DeleteReport(ctx, p, input.ID); err != nil {
			return nil, engineError("report", err)
		}

		return &struct{}{}, nil
	})
}
