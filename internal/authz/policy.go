package authz

import "strings"

// Resource identifies a protectable entity kind. Callers pass resources
// explicitly; nothing is ever inferred from runtime types.
type Resource string

const (
	ResourceProduct       Resource = "PRODUCT"
	ResourceCategory      Resource = "CATEGORY"
	ResourceCustomer      Resource = "CUSTOMER"
	ResourceSupplier      Resource = "SUPPLIER"
	ResourceEmployee      Resource = "EMPLOYEE"
	ResourceSchedule      Resource = "SCHEDULE"
	ResourceAttendance    Resource = "ATTENDANCE"
	ResourcePurchaseOrder Resource = "PURCHASE_ORDER"
	ResourcePayment       Resource = "PAYMENT"
	ResourceSale          Resource = "SALE"
	ResourceUser          Resource = "USER"
	ResourceRole          Resource = "ROLE"
	ResourceActivityLog   Resource = "ACTIVITY_LOG"
	ResourceReport        Resource = "REPORT"
)

// Action identifies an operation on a resource
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// ParseResource normalizes a resource tag to its canonical upper-case form
func ParseResource(s string) Resource {
	return Resource(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseAction normalizes an action tag to its canonical upper-case form
func ParseAction(s string) Action {
	return Action(strings.ToUpper(strings.TrimSpace(s)))
}

// AllResources lists every protectable resource kind
func AllResources() []Resource {
	return []Resource{
		ResourceProduct, ResourceCategory, ResourceCustomer, ResourceSupplier,
		ResourceEmployee, ResourceSchedule, ResourceAttendance,
		ResourcePurchaseOrder, ResourcePayment, ResourceSale,
		ResourceUser, ResourceRole, ResourceActivityLog, ResourceReport,
	}
}

// AllActions lists every action
func AllActions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
}

type grant struct {
	resource Resource
	action   Action
}

// Policy is the closed role → (resource, action) table. It is built once at
// startup and never mutated afterwards, so it is safe for concurrent reads.
// Both the evaluator and the /auth/check endpoint read this single table.
type Policy struct {
	admins  map[string]bool
	readAll bool
	grants  map[string]map[grant]bool
}

// PolicyBuilder assembles an immutable Policy
type PolicyBuilder struct {
	p Policy
}

// NewPolicyBuilder returns an empty builder
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{p: Policy{
		admins: make(map[string]bool),
		grants: make(map[string]map[grant]bool),
	}}
}

// AdminRole marks a role as unconditionally allowed for every pair
func (b *PolicyBuilder) AdminRole(role string) *PolicyBuilder {
	b.p.admins[strings.ToUpper(role)] = true
	return b
}

// AllowReadForEveryone grants READ on every resource to any authenticated subject
func (b *PolicyBuilder) AllowReadForEveryone() *PolicyBuilder {
	b.p.readAll = true
	return b
}

// Grant allows (resource, action) for a role
func (b *PolicyBuilder) Grant(role string, resource Resource, actions ...Action) *PolicyBuilder {
	key := strings.ToUpper(role)
	if b.p.grants[key] == nil {
		b.p.grants[key] = make(map[grant]bool)
	}
	for _, a := range actions {
		b.p.grants[key][grant{resource, a}] = true
	}
	return b
}

// Build finalizes the policy
func (b *PolicyBuilder) Build() *Policy {
	return &b.p
}

// DefaultPolicy encodes the store's authorization table:
//  1. ADMINISTRATOR may do anything.
//  2. READ is allowed for every authenticated subject.
//  3. EMPLOYEE may CREATE/UPDATE products, categories and customers.
//  4. Everything else is denied.
func DefaultPolicy() *Policy {
	return NewPolicyBuilder().
		AdminRole("ADMINISTRATOR").
		AllowReadForEveryone().
		Grant("EMPLOYEE", ResourceProduct, ActionCreate, ActionUpdate).
		Grant("EMPLOYEE", ResourceCategory, ActionCreate, ActionUpdate).
		Grant("EMPLOYEE", ResourceCustomer, ActionCreate, ActionUpdate).
		Build()
}

// GrantsFor enumerates the effective (resource, action) set of a role,
// expanding the admin and read wildcards over the known resource set.
func (p *Policy) GrantsFor(role string) []struct {
	Resource Resource
	Action   Action
} {
	var out []struct {
		Resource Resource
		Action   Action
	}
	key := strings.ToUpper(role)
	for _, r := range AllResources() {
		for _, a := range AllActions() {
			if p.allows(key, r, a) {
				out = append(out, struct {
					Resource Resource
					Action   Action
				}{r, a})
			}
		}
	}
	return out
}

// allows evaluates the rule chain for a normalized role name.
// Rule order matters: admin wildcard, then the READ wildcard, then role grants.
func (p *Policy) allows(role string, resource Resource, action Action) bool {
	if p.admins[role] {
		return true
	}
	if p.readAll && action == ActionRead {
		return true
	}
	return p.grants[role][grant{resource, action}]
}
