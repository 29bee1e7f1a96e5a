package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
)

// mockUserRepo is a func-field mock of domain.UserRepository. Tests set
// only the functions they expect to be called.
type mockUserRepo struct {
	createFunc              func(ctx context.Context, u *domain.User) error
	getByIDFunc             func(ctx context.Context, orgID, id uuid.UUID) (*domain.User, error)
	getByEmailFunc          func(ctx context.Context, orgID uuid.UUID, email string) (*domain.User, error)
	updateFunc              func(ctx context.Context, u *domain.User) error
	updateRoleFunc          func(ctx context.Context, orgID, id uuid.UUID, role domain.Role) error
	listFunc                func(ctx context.Context, orgID uuid.UUID) ([]*domain.User, error)
	createAPIKeyFunc        func(ctx context.Context, key *domain.APIKey) error
	getAPIKeyByPrefixFunc   func(ctx context.Context, orgID uuid.UUID, prefix string) (*domain.APIKey, error)
	listAPIKeysFunc         func(ctx context.Context, orgID, userID uuid.UUID) ([]*domain.APIKey, error)
	deleteAPIKeyFunc        func(ctx context.Context, id uuid.UUID) error
	updateAPIKeyLastUsedFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, orgID, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, orgID, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, orgID, id uuid.UUID, role domain.Role) error {
	return m.updateRoleFunc(ctx, orgID, id, role)
}

func (m *mockUserRepo) List(ctx context.Context, orgID uuid.UUID) ([]*domain.User, error) {
	return m.listFunc(ctx, orgID)
}

func (m *mockUserRepo) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return m.createAPIKeyFunc(ctx, key)
}

func (m *mockUserRepo) GetAPIKeyByPrefix(ctx context.Context, orgID uuid.UUID, prefix string) (*domain.APIKey, error) {
	return m.getAPIKeyByPrefixFunc(ctx, orgID, prefix)
}

func (m *mockUserRepo) ListAPIKeys(ctx context.Context, orgID, userID uuid.UUID) ([]*domain.APIKey, error) {
	return m.listAPIKeysFunc(ctx, orgID, userID)
}

func (m *mockUserRepo) DeleteAPIKey(ctx context.Context, id uuid.UUID) error {
	return m.deleteAPIKeyFunc(ctx, id)
}

func (m *mockUserRepo) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	if m.updateAPIKeyLastUsedFn != nil {
		return m.updateAPIKeyLastUsedFn(ctx, id)
	}
	return nil
}
