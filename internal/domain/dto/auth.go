// Package dto defines Data Transfer Objects for the HTTP API.
package dto

// Claims are the verified identity claims of a bearer token. Tokens are issued
// by the ERP identity provider; this service only verifies them.
type Claims struct {
	Subject string   `json:"sub"`
	Email   string   `json:"email,omitempty"`
	Name    string   `json:"name,omitempty"`
	Roles   []string `json:"roles,omitempty"`
}

// HasAnyRole reports whether the claims carry at least one of roles.
// An empty roles list matches any claims.
func (c *Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, want := range roles {
		for _, have := range c.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
