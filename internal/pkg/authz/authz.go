package authz

import (
	_ "embed"
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

// Objects and actions guarded by the HTTP layer.
const (
	ObjectPayrollRun       = "payroll_run"
	ObjectPayrollItem      = "payroll_item"
	ObjectSalaryAdjustment = "salary_adjustment"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionSubmit = "submit"
	ActionDecide = "decide"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

//go:embed policy.csv
var defaultPolicy string

var ErrEmptyPolicy = errors.New("authz: policy is empty")

type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds an enforcer from policy lines in casbin CSV form. An
// empty policy falls back to the built-in role matrix.
func NewAuthorizer(policy string) (*Authorizer, error) {
	if strings.TrimSpace(policy) == "" {
		policy = defaultPolicy
	}
	if strings.TrimSpace(policy) == "" {
		return nil, ErrEmptyPolicy
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(policy))
	if err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: enforcer}, nil
}

func NewDefaultAuthorizer() (*Authorizer, error) {
	return NewAuthorizer(defaultPolicy)
}

func SubjectFromRole(role string) string {
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		role = "anonymous"
	}
	return "role:" + role
}

func (a *Authorizer) Authorize(role, object, action string) (bool, error) {
	return a.enforcer.Enforce(SubjectFromRole(role), object, action)
}
