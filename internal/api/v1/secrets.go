package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
	"github.com/oakline/boardvault/internal/seal"
	"github.com/oakline/boardvault/internal/server/middleware"
)

type CreateSecretInput struct {
	Body struct {
		Title          string `json:"title" minLength:"1" maxLength:"500" doc:"Secret title"`
		Content        string `json:"content,omitempty" doc:"Secret content"`
		Classification string `json:"classification,omitempty" enum:"internal,classified" doc:"Classification level"`
	}
}

type CreateSecretOutput struct {
	Body *domain.Secret
}

type ListSecretsInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListSecretsOutput struct {
	Body []*domain.Secret
}

type ViewSecretInput struct {
	ID uuid.UUID `path:"id" doc:"Secret ID"`
}

type ViewSecretOutput struct {
	Body *domain.Secret
}

type UpdateSecretInput struct {
	ID   uuid.UUID `path:"id" doc:"Secret ID"`
	Body struct {
		Title          string `json:"title,omitempty" maxLength:"500" doc:"Secret title"`
		Content        string `json:"content,omitempty" doc:"Secret content"`
		Classification string `json:"classification,omitempty" enum:"internal,classified" doc:"Classification level"`
	}
}

type UpdateSecretOutput struct {
	Body *domain.Secret
}

type SealSecretInput struct {
	ID   uuid.UUID `path:"id" doc:"Secret ID"`
	Body struct {
		Content string `json:"content,omitempty" doc:"New content when sealing a successor version; empty when sealing a draft"`
	}
}

type SealSecretOutput struct {
	Body *seal.Certificate
}

type AcknowledgeNDAInput struct {
	ID uuid.UUID `path:"id" doc:"Secret ID"`
}

type AcknowledgeNDAOutput struct {
	Body struct {
		Acknowledged bool `json:"acknowledged"`
	}
}

type ListSecretVersionsInput struct {
	ID uuid.UUID `path:"id" doc:"Secret ID"`
}

type ListSecretVersionsOutput struct {
	Body []*domain.SecretVersion
}

type VerifySecretVersionInput struct {
	ID     uuid.UUID `path:"id" doc:"Secret ID"`
	Number int       `path:"number" minimum:"1" doc:"Version number"`
}

type VerifySecretVersionOutput struct {
	Body struct {
		Verified      bool   `json:"verified"`
		VersionNumber int    `json:"version_number"`
		SHA256Hash    string `json:"sha256_hash"`
	}
}

type SupersedeSecretInput struct {
	ID uuid.UUID `path:"id" doc:"Secret ID"`
}

type DeleteSecretInput struct {
	ID uuid.UUID `path:"id" doc:"Secret ID"`
}

func RegisterSecretRoutes(api huma.API, store DataStore, engine SealEngine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-secret",
		Method:      http.MethodPost,
		Path:        "/secrets",
		Summary:     "Create a draft secret",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *CreateSecretInput) (*CreateSecretOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		s := &domain.Secret{
			Title:          input.Body.Title,
			Content:        input.Body.Content,
			Classification: domain.Classification(input.Body.Classification),
		}
		if err := engine.CreateSecret(ctx, p, s); err != nil {
			return nil, engineError("secret", err)
		}

		return &CreateSecretOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-secrets",
		Method:      http.MethodGet,
		Path:        "/secrets",
		Summary:     "List secrets (metadata only)",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *ListSecretsInput) (*ListSecretsOutput, error) {
		orgID, ok := middleware.OrgIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		secrets, err := store.Secrets().List(ctx, orgID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list secrets", err)
		}

		// Listing never exposes content; the view endpoint enforces the
		// NDA gate and writes the audit record.
		for _, s := range secrets {
			s.Content = ""
		}

		return &ListSecretsOutput{Body: secrets}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "view-secret",
		Method:      http.MethodGet,
		Path:        "/secrets/{id}",
		Summary:     "View a secret's content",
		Description: "Sealed classified content requires a prior NDA acknowledgement. Every view of sealed content is audited.",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *ViewSecretInput) (*ViewSecretOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		s, err := engine.ViewSecret(ctx, p, input.ID)
		if err != nil {
			return nil, engineError("secret", err)
		}

		return &ViewSecretOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-secret",
		Method:      http.MethodPut,
		Path:        "/secrets/{id}",
		Summary:     "Update a draft secret",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *UpdateSecretInput) (*UpdateSecretOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		existing, err := engine.ViewSecret(ctx, p, input.ID)
		if err != nil {
			return nil, engineError("secret", err)
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Content != "" {
			existing.Content = input.Body.Content
		}
		if input.Body.Classification != "" {
			existing.Classification = domain.Classification(input.Body.Classification)
		}

		if err := engine.UpdateSecret(ctx, p, existing); err != nil {
			return nil, engineError("secret", err)
		}

		return &UpdateSecretOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "seal-secret",
		Method:      http.MethodPost,
		Path:        "/secrets/{id}/seal",
		Summary:     "Seal a secret into an immutable version",
		Description: "Sealing a draft freezes its stored content. Sealing an already-sealed secret requires new content and produces the next version.",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *SealSecretInput) (*SealSecretOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		cert, err := engine.SealSecret(ctx, p, input.ID, input.Body.Content)
		if err != nil {
			return nil, engineError("secret", err)
		}

		return &SealSecretOutput{Body: cert}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "acknowledge-nda",
		Method:      http.MethodPost,
		Path:        "/secrets/{id}/nda",
		Summary:     "Acknowledge the NDA for a secret",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *AcknowledgeNDAInput) (*AcknowledgeNDAOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.AcknowledgeNDA(ctx, p, input.ID); err != nil {
			return nil, engineError("secret", err)
		}

		out := &AcknowledgeNDAOutput{}
		out.Body.Acknowledged = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-secret-versions",
		Method:      http.MethodGet,
		Path:        "/secrets/{id}/versions",
		Summary:     "List a secret's sealed versions",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *ListSecretVersionsInput) (*ListSecretVersionsOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		versions, err := engine.ListSecretVersions(ctx, p, input.ID)
		if err != nil {
			return nil, engineError("secret", err)
		}

		return &ListSecretVersionsOutput{Body: versions}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "verify-secret-version",
		Method:      http.MethodGet,
		Path:        "/secrets/{id}/versions/{number}/verify",
		Summary:     "Verify a sealed version's integrity",
		Description: "Recomputes the SHA-256 hash over the stored canonical payload and compares it to the sealed hash.",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *VerifySecretVersionInput) (*VerifySecretVersionOutput, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		v, err := engine.VerifySecretVersion(ctx, p, input.ID, input.Number)
		if err != nil {
			return nil, engineError("secret version", err)
		}

		out := &VerifySecretVersionOutput{}
		out.Body.Verified = true
		out.Body.VersionNumber = v.VersionNumber
		out.Body.SHA256Hash = v.SHA256Hash
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "supersede-secret",
		Method:      http.MethodPost,
		Path:        "/secrets/{id}/supersede",
		Summary:     "Retire a sealed secret",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *SupersedeSecretInput) (*struct{}, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.SupersedeSecret(ctx, p, input.ID); err != nil {
			return nil, engineError("secret", err)
		}

		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-secret",
		Method:      http.MethodDelete,
		Path:        "/secrets/{id}",
		Summary:     "Delete a draft secret",
		Tags:        []string{"Secrets"},
	}, func(ctx context.Context, input *DeleteSecretInput) (*struct{}, error) {
		p, ok := middleware.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing principal context")
		}

		if err := engine.DeleteSecret(ctx, p, input.ID); err != nil {
			return nil, engineError("secret", err)
		}

		return &struct{}{}, nil
	})
}
