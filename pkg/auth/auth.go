// Package auth is the authorization collaborator for the booking service:
// bearer-token identity resolution and a role/category/action permission
// check consulted before any data access.
package auth

type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

type Category string

const CategoryBookingRequests Category = "booking-requests"

type Action string

const (
	ActionRead    Action = "read"
	ActionReadAll Action = "readAll"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
)

// Identity is the authenticated caller, resolved from the bearer token.
type Identity struct {
	UserID string
	Role   Role
}

// Authorizer answers whether a role may perform an action on a category.
type Authorizer interface {
	IsPermitted(role Role, category Category, action Action) bool
}

type grantKey struct {
	role     Role
	category Category
	action   Action
}

type matrixAuthorizer struct {
	grants map[grantKey]struct{}
}

// NewMatrixAuthorizer builds the static permission matrix: residents may read
// their own bookings and create requests; administrators additionally list
// all requests and change approval state.
func NewMatrixAuthorizer() Authorizer {
	m := &matrixAuthorizer{grants: make(map[grantKey]struct{})}

	m.grant(RoleResident, CategoryBookingRequests, ActionRead)
	m.grant(RoleResident, CategoryBookingRequests, ActionCreate)

	m.grant(RoleAdmin, CategoryBookingRequests, ActionRead)
	m.grant(RoleAdmin, CategoryBookingRequests, ActionReadAll)
	m.grant(RoleAdmin, CategoryBookingRequests, ActionCreate)
	m.grant(RoleAdmin, CategoryBookingRequests, ActionUpdate)

	return m
}

func (m *matrixAuthorizer) grant(role Role, category Category, action Action) {
	m.grants[grantKey{role: role, category: category, action: action}] = struct{}{}
}

func (m *matrixAuthorizer) IsPermitted(role Role, category Category, action Action) bool {
	_, ok := m.grants[grantKey{role: role, category: category, action: action}]
	return ok
}
