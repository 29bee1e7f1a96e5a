package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/oakline/boardvault/internal/domain"
)

type contextKey string

const (
	ContextKeyOrgID    contextKey = "org_id"
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "role"
)

func OrgIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyOrgID).(uuid.UUID)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(domain.Role)
	return v, ok
}

// PrincipalFromContext assembles the acting principal from the values the
// Auth middleware placed in context.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	orgID, ok := OrgIDFromContext(ctx)
	if !ok {
		return domain.Principal{}, false
	}
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return domain.Principal{}, false
	}
	role, ok := RoleFromContext(ctx)
	if !ok {
		return domain.Principal{}, false
	}
	return domain.Principal{UserID: userID, OrgID: orgID, Role: role}, true
}
