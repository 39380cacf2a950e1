package auth

import (
	"context"
	"testing"
)

func TestMatrixAuthorizer(t *testing.T) {
	authz := NewMatrixAuthorizer()

	tests := []struct {
		name     string
		role     Role
		action   Action
		expected bool
	}{
		{name: "resident can read", role: RoleResident, action: ActionRead, expected: true},
		{name: "resident can create", role: RoleResident, action: ActionCreate, expected: true},
		{name: "resident cannot read all", role: RoleResident, action: ActionReadAll, expected: false},
		{name: "resident cannot update", role: RoleResident, action: ActionUpdate, expected: false},
		{name: "admin can read", role: RoleAdmin, action: ActionRead, expected: true},
		{name: "admin can read all", role: RoleAdmin, action: ActionReadAll, expected: true},
		{name: "admin can create", role: RoleAdmin, action: ActionCreate, expected: true},
		{name: "admin can update", role: RoleAdmin, action: ActionUpdate, expected: true},
		{name: "unknown role gets nothing", role: Role("visitor"), action: ActionRead, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authz.IsPermitted(tt.role, CategoryBookingRequests, tt.action)
			if got != tt.expected {
				t.Errorf("IsPermitted(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.expected)
			}
		})
	}
}

func TestMatrixAuthorizer_UnknownCategory(t *testing.T) {
	authz := NewMatrixAuthorizer()
	if authz.IsPermitted(RoleAdmin, Category("events"), ActionRead) {
		t.Error("no grants should exist outside the booking-requests category")
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	identity := Identity{UserID: "u-123", Role: RoleAdmin}

	ctx := WithIdentity(context.Background(), identity)
	got, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got != identity {
		t.Errorf("got %+v, want %+v", got, identity)
	}
}

func TestIdentityFromContext_Missing(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("expected no identity in a fresh context")
	}
}
