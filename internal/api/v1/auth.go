package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oakline/boardvault/internal/auth"
	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type RegisterInput struct {
	Body struct {
		OrgSlug  string `json:"org_slug" minLength:"1" maxLength:"63" doc:"Organization slug"`
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
	}
}

type RegisterOutput struct {
	Body struct {
		User         *domain.User `json:"user"`
		AccessToken  string       `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string       `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type LoginInput struct {
	Body struct {
		OrgSlug  string `json:"org_slug" minLength:"1" maxLength:"63" doc:"Organization slug"`
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token"` //nolint:gosec // G117: token refresh DTO
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"access_token"` //nolint:gosec // G117: auth response DTO
	}
}

type CreateAPIKeyInput struct {
	Body struct {
		Name   string   `json:"name" minLength:"1" maxLength:"255" doc:"Key name"`
		Scopes []string `json:"scopes,omitempty" doc:"Optional scopes"`
	}
}

type CreateAPIKeyOutput struct {
	Body struct {
		Key    string         `json:"key" doc:"Raw API key, shown once"`
		Record *domain.APIKey `json:"record"`
	}
}

func RegisterAuthRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		org, err := store.Orgs().GetBySlug(ctx, input.Body.OrgSlug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up organization", err)
		}

		user, err := authSvc.Register(ctx, org.ID, input.Body.Email, input.Body.Password, input.Body.Name)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("user already exists")
			}
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, org.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("registered but failed to issue tokens", err)
		}

		user.PasswordHash = ""

		out := &RegisterOutput{}
		out.Body.User = user
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		org, err := store.Orgs().GetBySlug(ctx, input.Body.OrgSlug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up organization", err)
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, org.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		out := &LoginOutput{}
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Refresh access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		accessToken, err := authSvc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})
}

// RegisterAPIKeyRoutes mounts API key management on the authenticated group.
func RegisterAPIKeyRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-api-key",
		Method:      http.MethodPost,
		Path:        "/auth/api-keys",
		Summary:     "Create an API key",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *CreateAPIKeyInput) (*CreateAPIKeyOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		raw, record, err := authSvc.GenerateAPIKey(ctx, p.OrgID, p.UserID, input.Body.Name, input.Body.Scopes)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create API key", err)
		}

		out := &CreateAPIKeyOutput{}
		out.Body.Key = raw
		out.Body.Record = record
		return out, nil
	})
}
