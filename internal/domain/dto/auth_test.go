package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaims_HasAnyRole(t *testing.T) {
	tests := []struct {
		name     string
		roles    []string
		required []string
		expected bool
	}{
		{name: "no requirement", roles: nil, required: nil, expected: true},
		{name: "single match", roles: []string{"warehouse"}, required: []string{"warehouse"}, expected: true},
		{name: "any of several", roles: []string{"sales", "admin"}, required: []string{"warehouse", "admin"}, expected: true},
		{name: "no match", roles: []string{"sales"}, required: []string{"warehouse"}, expected: false},
		{name: "no roles", roles: nil, required: []string{"warehouse"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Claims{Subject: "u-1", Roles: tt.roles}
			assert.Equal(t, tt.expected, c.HasAnyRole(tt.required...))
		})
	}
}
