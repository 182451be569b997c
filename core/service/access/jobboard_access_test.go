package access

import (
	"testing"

	"jobboard_server/core/domain"
	"jobboard_server/pkg/apperr"

	"github.com/google/uuid"
)

func TestRequireRole(t *testing.T) {
	student := domain.Identity{UserID: uuid.New(), Role: domain.RoleStudent}

	if err := RequireRole(student, domain.RoleStudent); err != nil {
		t.Fatalf("student rejected: %v", err)
	}
	if err := RequireRole(student, domain.RoleCompany, domain.RoleStudent); err != nil {
		t.Fatalf("student rejected from multi-role gate: %v", err)
	}

	err := RequireRole(student, domain.RoleCompany)
	appErr := apperr.AsAppError(err)
	if appErr.Status != 403 {
		t.Fatalf("status = %d, want 403", appErr.Status)
	}
	if appErr.Message != "Access denied: Company role required" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestOwnerOrAdmin(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		identity domain.Identity
		owner    uuid.UUID
		want     bool
	}{
		{"owner", domain.Identity{UserID: owner, Role: domain.RoleCompany}, owner, true},
		{"admin", domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}, owner, true},
		{"stranger", domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany}, owner, false},
		{"nil owner", domain.Identity{UserID: uuid.Nil, Role: domain.RoleCompany}, uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOwnerOrAdmin(tt.identity, tt.owner); got != tt.want {
				t.Errorf("IsOwnerOrAdmin = %v, want %v", got, tt.want)
			}
			err := OwnerOrAdmin(tt.identity, tt.owner, "nope")
			if (err == nil) != tt.want {
				t.Errorf("OwnerOrAdmin err = %v", err)
			}
		})
	}
}
