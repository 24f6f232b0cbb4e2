package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func adminSubject() Subject {
	return Subject{ID: uuid.New(), Role: "ADMINISTRATOR", Authenticated: true}
}

func employeeSubject() Subject {
	return Subject{ID: uuid.New(), Role: "EMPLOYEE", Authenticated: true}
}

func TestAuthorizeAdministratorAllowsEverything(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	admin := adminSubject()

	for _, r := range AllResources() {
		for _, a := range AllActions() {
			require.True(t, e.Authorize(admin, r, a), "admin denied %s/%s", r, a)
		}
	}
}

func TestAuthorizeReadAlwaysAllowed(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	emp := employeeSubject()

	for _, r := range AllResources() {
		require.True(t, e.Authorize(emp, r, ActionRead), "employee denied READ on %s", r)
	}
}

func TestAuthorizeEmployeeTable(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	emp := employeeSubject()

	cases := []struct {
		resource Resource
		action   Action
		want     bool
	}{
		{ResourceProduct, ActionCreate, true},
		{ResourceProduct, ActionUpdate, true},
		{ResourceProduct, ActionDelete, false},
		{ResourceCategory, ActionCreate, true},
		{ResourceCategory, ActionUpdate, true},
		{ResourceCategory, ActionDelete, false},
		{ResourceCustomer, ActionCreate, true},
		{ResourceCustomer, ActionUpdate, true},
		{ResourceCustomer, ActionDelete, false},
		{ResourceSupplier, ActionCreate, false},
		{ResourceEmployee, ActionCreate, false},
		{ResourcePurchaseOrder, ActionCreate, false},
		{ResourcePurchaseOrder, ActionUpdate, false},
		{ResourcePayment, ActionUpdate, false},
		{ResourceRole, ActionRead, true},
		{ResourceRole, ActionUpdate, false},
		{ResourceUser, ActionDelete, false},
	}

	for _, tc := range cases {
		got := e.Authorize(emp, tc.resource, tc.action)
		require.Equal(t, tc.want, got, "EMPLOYEE %s/%s", tc.resource, tc.action)
	}
}

func TestAuthorizeUnauthenticatedDeniedEverything(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	anon := Anonymous()

	for _, r := range AllResources() {
		for _, a := range AllActions() {
			require.False(t, e.Authorize(anon, r, a))
		}
	}
}

func TestAuthorizeCaseInsensitiveTags(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	emp := Subject{ID: uuid.New(), Role: "employee", Authenticated: true}

	require.True(t, e.Authorize(emp, ParseResource("product"), ParseAction("create")))
	require.True(t, e.Authorize(emp, ParseResource(" Customer "), ParseAction("update")))
	require.False(t, e.Authorize(emp, ParseResource("product"), ParseAction("delete")))
}

func TestAuthorizeUnknownRoleGetsOnlyRead(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	ghost := Subject{ID: uuid.New(), Role: "INTERN", Authenticated: true}

	require.True(t, e.Authorize(ghost, ResourceProduct, ActionRead))
	require.False(t, e.Authorize(ghost, ResourceProduct, ActionCreate))
}

func TestIsOwner(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())
	id := uuid.New()
	owner := Subject{ID: id, Role: "EMPLOYEE", Authenticated: true}

	require.True(t, e.IsOwner(owner, id))
	require.False(t, e.IsOwner(owner, uuid.New()))
	require.False(t, e.IsOwner(Anonymous(), id))
}

func TestEffectivePermissionsNonEmptyForKnownRoles(t *testing.T) {
	e := NewEvaluator(DefaultPolicy())

	adminPerms := e.EffectivePermissions(adminSubject())
	require.Len(t, adminPerms, len(AllResources())*len(AllActions()))

	empPerms := e.EffectivePermissions(employeeSubject())
	require.NotEmpty(t, empPerms)
	// READ on every resource plus six write grants
	require.Len(t, empPerms, len(AllResources())+6)

	require.Nil(t, e.EffectivePermissions(Anonymous()))
}
