package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsAssignable(t *testing.T) {
	assert.True(t, RoleAdmin.IsAssignable())
	assert.True(t, RoleSupervisor.IsAssignable())
	assert.True(t, RoleMarshal.IsAssignable())
	assert.False(t, RoleUnassigned.IsAssignable())
	assert.False(t, Role("driver").IsAssignable())
}

func TestNewMarshalStartsUnassignedAndPending(t *testing.T) {
	profile := NewMarshal("marshal@taxihub.test", "T Nkosi", "0821234567")

	assert.Equal(t, RoleUnassigned, profile.Role)
	assert.False(t, profile.Approved)
	assert.False(t, profile.Suspended)
	assert.False(t, profile.IsAdmin())
	assert.Nil(t, profile.RankID)
}

func TestMarshalIsAdmin(t *testing.T) {
	profile := NewMarshal("admin@taxihub.test", "A Mokoena", "")
	profile.Role = RoleAdmin
	assert.True(t, profile.IsAdmin())
}
