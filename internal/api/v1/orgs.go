package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type CreateOrgInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"255" doc:"Organization name"`
		Slug string `json:"slug" minLength:"1" maxLength:"63" pattern:"^[a-z0-9-]+$" doc:"URL-safe slug"`
	}
}

type CreateOrgOutput struct {
	Body *domain.Organization
}

type GetOrgInput struct {
	ID uuid.UUID `path:"id" doc:"Organization ID"`
}

type GetOrgOutput struct {
	Body *domain.Organization
}

type UpdateOrgInput struct {
	ID   uuid.UUID `path:"id" doc:"Organization ID"`
	Body struct {
		Name     string         `json:"name,omitempty" maxLength:"255" doc:"Organization name"`
		Settings map[string]any `json:"settings,omitempty" doc:"Org-level settings"`
	}
}

type UpdateOrgOutput struct {
	Body *domain.Organization
}

func RegisterOrgRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-org",
		Method:      http.MethodPost,
		Path:        "/orgs",
		Summary:     "Create a new organization",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *CreateOrgInput) (*CreateOrgOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok || p.Role != domain.RoleOwner {
			return nil, huma.Error403Forbidden("owner role required")
		}

		now := time.Now()
		o := &domain.Organization{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			Slug:      input.Body.Slug,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Orgs().Create(ctx, o); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("slug already taken")
			}
			return nil, huma.Error500InternalServerError("failed to create organization", err)
		}

		return &CreateOrgOutput{Body: o}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-org",
		Method:      http.MethodGet,
		Path:        "/orgs/{id}",
		Summary:     "Get an organization by ID",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *GetOrgInput) (*GetOrgOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}
		// Members only see their own organization.
		if input.ID != orgID {
			return nil, huma.Error404NotFound("organization not found")
		}

		o, err := store.Orgs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, huma.Error500InternalServerError("failed to get organization", err)
		}

		return &GetOrgOutput{Body: o}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-org",
		Method:      http.MethodPut,
		Path:        "/orgs/{id}",
		Summary:     "Update an organization",
		Tags:        []string{"Organizations"},
	}, func(ctx context.Context, input *UpdateOrgInput) (*UpdateOrgOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}
		if input.ID != p.OrgID {
			return nil, huma.Error404NotFound("organization not found")
		}
		if !p.Elevated() {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		o, err := store.Orgs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, huma.Error500InternalServerError("failed to get organization", err)
		}

		if input.Body.Name != "" {
			o.Name = input.Body.Name
		}
		if input.Body.Settings != nil {
			o.Settings = input.Body.Settings
		}
		o.UpdatedAt = time.Now()

		if err := store.Orgs().Update(ctx, o); err != nil {
			return nil, huma.Error500InternalServerError("failed to update organization", err)
		}

		return &UpdateOrgOutput{Body: o}, nil
	})
}
