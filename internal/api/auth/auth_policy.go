package auth

import (
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

// Stateless authorization predicates over the per-request resolved
// identity. A nil identity means the request is anonymous. Handlers must
// check resource existence (not found) before calling RequireOwnership so
// a non-owner sees the same outcome for "not yours" and "does not exist".

// RequireIdentity fails when the request carries no resolved identity.
func RequireIdentity(identity *types.User) error {
	if identity == nil {
		return api.ErrMissingUser
	}
	return nil
}

// RequireActiveIdentity fails when the request is anonymous or the
// resolved account has been deactivated. The anonymous case is checked
// explicitly so callers can invoke this without a prior RequireIdentity.
func RequireActiveIdentity(identity *types.User) error {
	if identity == nil {
		return api.ErrMissingUser
	}
	if !identity.Active {
		return api.ErrInactiveUser
	}
	return nil
}

// RequireOwnership fails unless the resolved identity owns the resource.
// ownerID is the post's author id, or the target user's own id for
// self-targeted user operations.
func RequireOwnership(ownerID uuid.UUID, identity *types.User) error {
	if identity == nil {
		return api.ErrMissingUser
	}
	if ownerID != identity.ID {
		return api.ErrUnauthorizedUser
	}
	return nil
}
