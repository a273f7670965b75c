package context

import "context"

const (
	// Anonymous is the subject of a caller that sent no user header.
	Anonymous = "system:anonymous"

	// NoRole is the role of a caller that sent no role header.
	NoRole = "system:none"

	RoleUser   = "user"
	RoleEditor = "editor"
)

type contextKeySubject struct{}

func GetSubject(ctx context.Context) string {
	userID, ok := ctx.Value(contextKeySubject{}).(string)
	if !ok || userID == "" {
		return Anonymous
	}

	return userID
}

func WithSubject(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKeySubject{}, userID)
}

type contextKeyRole struct{}

func GetRole(ctx context.Context) string {
	role, ok := ctx.Value(contextKeyRole{}).(string)
	if !ok || role == "" {
		return NoRole
	}

	return role
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, contextKeyRole{}, role)
}

// WithIdentity stores both the caller subject and role.
func WithIdentity(ctx context.Context, userID, role string) context.Context {
	return WithRole(WithSubject(ctx, userID), role)
}
