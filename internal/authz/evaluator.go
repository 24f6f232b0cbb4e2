package authz

import (
	"strings"

	"github.com/google/uuid"
)

// Subject is the resolved caller of a protected operation. The zero value is
// an unauthenticated subject and is denied everything.
type Subject struct {
	ID            uuid.UUID
	Role          string
	Authenticated bool
}

// Anonymous returns an unauthenticated subject
func Anonymous() Subject {
	return Subject{}
}

// Evaluator answers allow/deny questions against an immutable policy table.
// Authorize is a pure function of the subject's role and the two tags; absence
// of permission is a normal false, never an error.
type Evaluator struct {
	policy *Policy
}

// NewEvaluator wraps a policy table
func NewEvaluator(policy *Policy) *Evaluator {
	return &Evaluator{policy: policy}
}

// Authorize decides whether subject may perform action on resource.
// Unauthenticated subjects short-circuit to false.
func (e *Evaluator) Authorize(subject Subject, resource Resource, action Action) bool {
	if !subject.Authenticated || subject.Role == "" {
		return false
	}
	return e.policy.allows(
		strings.ToUpper(subject.Role),
		ParseResource(string(resource)),
		ParseAction(string(action)),
	)
}

// IsOwner reports whether the subject owns the given record. This is an
// independent capability, not combined with Authorize.
func (e *Evaluator) IsOwner(subject Subject, ownerID uuid.UUID) bool {
	if !subject.Authenticated {
		return false
	}
	return subject.ID == ownerID
}

// EffectivePermissions enumerates every (resource, action) pair the subject's
// role grants, for the profile endpoint and UI capability queries.
func (e *Evaluator) EffectivePermissions(subject Subject) []struct {
	Resource Resource
	Action   Action
} {
	if !subject.Authenticated || subject.Role == "" {
		return nil
	}
	return e.policy.GrantsFor(subject.Role)
}
