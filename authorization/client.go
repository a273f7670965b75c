package authorization

import (
	"context"
	"fmt"

	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
)

// Client checks the identity stored in a request context against a Service.
type Client struct {
	authzSvc *Service
}

func NewClient(authzSvc *Service) *Client {
	return &Client{
		authzSvc: authzSvc,
	}
}

// CheckAccess fails with AccessDeniedError unless the caller role may perform
// the action on the object within the domain.
func (c *Client) CheckAccess(ctx context.Context, domain, object, action string) error {
	role := authcontext.GetRole(ctx)

	res, err := c.authzSvc.CheckAccess(ctx, CheckAccessRequest{
		Role:   role,
		Domain: domain,
		Object: object,
		Action: action,
	})
	if err != nil {
		return fmt.Errorf("failed to check access: %w", err)
	}

	if !res.Allowed {
		return &AccessDeniedError{
			User:   authcontext.GetSubject(ctx),
			Role:   role,
			Domain: domain,
			Object: object,
			Action: action,
		}
	}

	return nil
}
