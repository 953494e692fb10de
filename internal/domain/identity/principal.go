// Package identity models who is calling the API. The back-office is
// restricted by role rather than by a hardcoded account.
package identity

import (
	"slices"
	"strings"
	"time"
)

// Role is an authorization role carried by a verified identity
type Role string

// RoleAdmin grants access to the back-office
const RoleAdmin Role = "admin"

// Principal is an authenticated caller
type Principal struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Roles   []Role `json:"roles"`

	// TokenID and ExpiresAt describe the credential the principal was
	// verified from, when the issuer supports revocation.
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// HasRole reports whether the principal carries role
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

// IsAdmin reports whether the principal may use the back-office
func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// AdminDirectory decides which verified emails receive the admin role
type AdminDirectory struct {
	emails map[string]struct{}
}

// NewAdminDirectory builds a directory from a list of admin emails
func NewAdminDirectory(emails []string) *AdminDirectory {
	d := &AdminDirectory{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			d.emails[e] = struct{}{}
		}
	}
	return d
}

// IsAdmin reports whether email belongs to an administrator
func (d *AdminDirectory) IsAdmin(email string) bool {
	if d == nil {
		return false
	}
	_, ok := d.emails[normalizeEmail(email)]
	return ok
}

// RolesFor returns the roles granted to email
func (d *AdminDirectory) RolesFor(email string) []Role {
	if d.IsAdmin(email) {
		return []Role{RoleAdmin}
	}
	return []Role{}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
