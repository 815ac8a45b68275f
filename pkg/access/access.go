package access

import (
	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	"github.com/storefrontlabs/storefront-backend/pkg/errors"
)

// ForbiddenMessage is the single message returned for every denied
// resource access so callers cannot probe ownership.
const ForbiddenMessage = "you do not have permission to perform this action"

// Principal is the authenticated caller as seen by the domain layer.
type Principal struct {
	UserID uuid.UUID
	Role   enums.Role
}

// CanAccess reports whether the principal may act on a resource owned
// by ownerID. Staff may act on any resource, everyone else only on
// their own.
func CanAccess(ownerID uuid.UUID, p Principal) bool {
	if p.UserID == uuid.Nil {
		return false
	}
	if p.Role.IsStaff() {
		return true
	}
	return p.UserID == ownerID
}

// Require returns a Forbidden error when the principal may not act on
// the resource owned by ownerID.
func Require(ownerID uuid.UUID, p Principal) error {
	if CanAccess(ownerID, p) {
		return nil
	}
	return errors.New(errors.CodeForbidden, ForbiddenMessage)
}

// RequireStaff returns a Forbidden error unless the principal is staff.
func RequireStaff(p Principal) error {
	if p.UserID != uuid.Nil && p.Role.IsStaff() {
		return nil
	}
	return errors.New(errors.CodeForbidden, ForbiddenMessage)
}
