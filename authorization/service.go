package authorization

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Service decides whether a role may perform an action. Roles, not users, hold
// permissions; users only matter for ownership checks inside each service.
type Service struct {
	authzProvider AuthorizationProvider
}

type AuthorizationProvider interface {
	CheckAccess(ctx context.Context, req CheckAccessRequest) (res *CheckAccessResponse, err error)
}

func NewService(authzProvider AuthorizationProvider) (*Service, error) {
	if authzProvider == nil {
		return nil, fmt.Errorf("authorization provider must not be nil")
	}

	return &Service{
		authzProvider: authzProvider,
	}, nil
}

type CheckAccessRequest struct {
	Role string
	// Domain is the name of the service owning the object.
	Domain string
	// Object is empty for actions on a whole collection.
	Object string
	Action string
}

type CheckAccessResponse struct {
	Allowed bool
	// Rule is the policy rule that granted access.
	Rule []string
}

type AccessDeniedError struct {
	User   string
	Role   string
	Domain string
	Object string
	Action string
}

func (err AccessDeniedError) Error() string {
	if err.Object != "" {
		return fmt.Sprintf("user %q with role %q may not %s %q in %s", err.User, err.Role, err.Action, err.Object, err.Domain)
	}

	return fmt.Sprintf("user %q with role %q may not %s in %s", err.User, err.Role, err.Action, err.Domain)
}

func (svc *Service) CheckAccess(ctx context.Context, req CheckAccessRequest) (*CheckAccessResponse, error) {
	res, err := svc.authzProvider.CheckAccess(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}

	if res.Allowed {
		slog.DebugContext(ctx, "access granted", "role", req.Role, "action", req.Action, "rule", strings.Join(res.Rule, ", "))
	} else {
		slog.InfoContext(ctx, "access denied", "role", req.Role, "domain", req.Domain, "action", req.Action)
	}

	return res, nil
}
