package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRole_CanViewFinancials(t *testing.T) {
	assert.True(t, RoleAdmin.CanViewFinancials())
	assert.True(t, RolePrincipal.CanViewFinancials())
	assert.True(t, RoleAccounts.CanViewFinancials())
	assert.False(t, RoleArchitect.CanViewFinancials())
}
