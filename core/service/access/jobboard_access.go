// Package access holds the authorization predicates every mutating
// operation is checked against.
package access

import (
	"fmt"

	"jobboard_server/core/domain"
	"jobboard_server/pkg/apperr"

	"github.com/google/uuid"
)

// RequireRole passes when the identity holds one of roles.
func RequireRole(identity domain.Identity, roles ...domain.Role) error {
	for _, r := range roles {
		if identity.Role == r {
			return nil
		}
	}
	if len(roles) == 1 {
		return apperr.Forbidden(fmt.Sprintf("Access denied: %s role required", roles[0].Label()))
	}
	return apperr.Forbidden("Access denied: insufficient role")
}

// IsOwnerOrAdmin reports whether identity owns the resource or is an admin.
func IsOwnerOrAdmin(identity domain.Identity, ownerUserID uuid.UUID) bool {
	return identity.IsAdmin() || (ownerUserID != uuid.Nil && identity.UserID == ownerUserID)
}

// OwnerOrAdmin returns Forbidden with msg unless IsOwnerOrAdmin holds.
func OwnerOrAdmin(identity domain.Identity, ownerUserID uuid.UUID, msg string) error {
	if IsOwnerOrAdmin(identity, ownerUserID) {
		return nil
	}
	return apperr.Forbidden(msg)
}
