package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

func TestRequireIdentity(t *testing.T) {
	assert.ErrorIs(t, RequireIdentity(nil), api.ErrMissingUser)
	assert.NoError(t, RequireIdentity(&types.User{ID: uuid.New()}))
	// An inactive account still counts as an identity here.
	assert.NoError(t, RequireIdentity(&types.User{ID: uuid.New(), Active: false}))
}

func TestRequireActiveIdentity(t *testing.T) {
	assert.ErrorIs(t, RequireActiveIdentity(nil), api.ErrMissingUser)
	assert.ErrorIs(t, RequireActiveIdentity(&types.User{ID: uuid.New(), Active: false}), api.ErrInactiveUser)
	assert.NoError(t, RequireActiveIdentity(&types.User{ID: uuid.New(), Active: true}))
}

func TestRequireOwnership(t *testing.T) {
	owner := &types.User{ID: uuid.New(), Active: true}
	stranger := &types.User{ID: uuid.New(), Active: true}

	assert.ErrorIs(t, RequireOwnership(owner.ID, nil), api.ErrMissingUser)
	assert.ErrorIs(t, RequireOwnership(owner.ID, stranger), api.ErrUnauthorizedUser)
	assert.NoError(t, RequireOwnership(owner.ID, owner))
}
