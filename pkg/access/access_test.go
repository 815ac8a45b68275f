package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	"github.com/storefrontlabs/storefront-backend/pkg/errors"
)

func TestCanAccess(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, CanAccess(owner, Principal{UserID: owner, Role: enums.RoleCustomer}))
	assert.False(t, CanAccess(owner, Principal{UserID: other, Role: enums.RoleCustomer}))
	assert.True(t, CanAccess(owner, Principal{UserID: other, Role: enums.RoleStaff}))
	assert.False(t, CanAccess(owner, Principal{}))
}

func TestRequireReturnsFixedForbiddenMessage(t *testing.T) {
	owner := uuid.New()
	err := Require(owner, Principal{UserID: uuid.New(), Role: enums.RoleCustomer})
	require.Error(t, err)

	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodeForbidden, typed.Code())
	assert.Equal(t, ForbiddenMessage, typed.Message())

	require.NoError(t, Require(owner, Principal{UserID: owner, Role: enums.RoleCustomer}))
}

func TestRequireStaff(t *testing.T) {
	require.NoError(t, RequireStaff(Principal{UserID: uuid.New(), Role: enums.RoleStaff}))

	err := RequireStaff(Principal{UserID: uuid.New(), Role: enums.RoleCustomer})
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errors.As(err).Code())
}
