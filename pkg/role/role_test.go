package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		r        Role
		accepted []Role
		want     bool
	}{
		{"singleton match", SuperAdmin, []Role{SuperAdmin}, true},
		{"set match", SubAdmin, []Role{SuperAdmin, SubAdmin}, true},
		{"user is not an admin", User, []Role{SuperAdmin, SubAdmin}, false},
		{"no hierarchy: superadmin fails a subadmin-only check", SuperAdmin, []Role{SubAdmin}, false},
		{"empty set denies everyone", SuperAdmin, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.r, tt.accepted...))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(User))
	assert.True(t, Valid(SubAdmin))
	assert.True(t, Valid(SuperAdmin))
	assert.False(t, Valid(Role("moderator")))
}
