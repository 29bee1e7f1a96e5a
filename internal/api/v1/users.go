package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type ListUsersInput struct{}

type ListUsersOutput struct {
	Body []*domain.User
}

type GetUserInput struct {
	ID uuid.UUID `path:"id" doc:"User ID"`
}

type GetUserOutput struct {
	Body *domain.User
}

type UpdateUserRoleInput struct {
	ID   uuid.UUID `path:"id" doc:"User ID"`
	Body struct {
		Role string `json:"role" minLength:"1" doc:"New role: owner, admin, editor or viewer"`
	}
}

type UpdateUserRoleOutput struct {
	Body *domain.User
}

func RegisterUserRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List organization members",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *ListUsersInput) (*ListUsersOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		users, err := store.Users().List(ctx, orgID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}

		for _, u := range users {
			u.PasswordHash = ""
		}

		return &ListUsersOutput{Body: users}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get an organization member by ID",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetUserInput) (*GetUserOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		u, err := store.Users().GetByID(ctx, orgID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		u.PasswordHash = ""

		return &GetUserOutput{Body: u}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user-role",
		Method:      http.MethodPatch,
		Path:        "/users/{id}/role",
		Summary:     "Change a member's role",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateUserRoleInput) (*UpdateUserRoleOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}
		if !p.Elevated() {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		role := domain.Role(input.Body.Role)
		if !domain.ValidateRole(role) {
			return nil, huma.Error400BadRequest("unknown role: " + input.Body.Role)
		}
		// Only an owner may grant or revoke ownership.
		if (role == domain.RoleOwner || input.ID == p.UserID) && p.Role != domain.RoleOwner {
			return nil, huma.Error403Forbidden("owner role required")
		}

		if err := store.Users().UpdateRole(ctx, p.OrgID, input.ID, role); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to update role", err)
		}

		u, err := store.Users().GetByID(ctx, p.OrgID, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to reload user", err)
		}
		u.PasswordHash = ""

		return &UpdateUserRoleOutput{Body: u}, nil
	})
}
