package casbin

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	"github.com/nasermirzaei89/pressroom/authorization"
)

const ObjectNone = "-"

//go:embed model.conf
var casbinModelContent string

type AuthorizationProvider struct {
	enforcer *casbin.Enforcer
}

var _ authorization.AuthorizationProvider = (*AuthorizationProvider)(nil)

func NewAuthorizationProvider(persistAdapter persist.Adapter) (*AuthorizationProvider, error) {
	if persistAdapter == nil {
		return nil, fmt.Errorf("persist adapter must not be nil")
	}

	casbinModel, err := model.NewModelFromString(casbinModelContent)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(casbinModel, persistAdapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)

	err = enforcer.LoadPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &AuthorizationProvider{
		enforcer: enforcer,
	}, nil
}

func (ap *AuthorizationProvider) CheckAccess(
	_ context.Context,
	req authorization.CheckAccessRequest,
) (*authorization.CheckAccessResponse, error) {
	if req.Object == "" {
		req.Object = ObjectNone
	}

	allowed, rule, err := ap.enforcer.EnforceEx(req.Role, req.Domain, req.Object, req.Action)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}

	return &authorization.CheckAccessResponse{
		Allowed: allowed,
		Rule:    rule,
	}, nil
}

// AddPolicyFromCSV adds every "p" and "g" rule of the given policy content that is not stored yet.
func (ap *AuthorizationProvider) AddPolicyFromCSV(_ context.Context, casbinPolicyContent string) error {
	for _, record := range parsePolicyCSV(casbinPolicyContent) {
		err := addPolicyFromRecord(ap.enforcer, record)
		if err != nil {
			return fmt.Errorf("failed to add policy from record: %w", err)
		}
	}

	return nil
}

func addPolicyFromRecord(enforcer *casbin.Enforcer, record []string) error {
	if len(record) < 2 {
		return InvalidPolicyRecordError{Record: record}
	}

	args := make([]any, len(record)-1)
	for i := range args {
		args[i] = record[i+1]
	}

	switch record[0] {
	case "p":
		// AddPolicy reports false without error when the rule already exists.
		_, err := enforcer.AddPolicy(args...)
		if err != nil {
			return fmt.Errorf("failed to add policy: %w", err)
		}
	case "g":
		_, err := enforcer.AddGroupingPolicy(args...)
		if err != nil {
			return fmt.Errorf("failed to add grouping policy: %w", err)
		}
	default:
		return UnknownPolicyTypeError{PolicyType: record[0]}
	}

	return nil
}
