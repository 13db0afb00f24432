package utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()

	ctx := SetUserContext(context.Background(), userID, tenantID, "ADMIN")

	gotUser, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, gotUser)

	gotTenant, ok := GetTenantIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, tenantID, gotTenant)

	assert.Equal(t, "ADMIN", GetUserRoleFromContext(ctx))
}

func TestUserContext_Empty(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)

	_, ok = GetTenantIDFromContext(ctx)
	assert.False(t, ok)

	assert.Equal(t, "", GetUserRoleFromContext(ctx))
}
