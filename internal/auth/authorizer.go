// Package auth models the caller identity check for mutating catalog calls
// as a pluggable capability. The default HeaderAuthorizer trusts a plain
// role header with no verification. It is a coarse gate, not a
// security boundary. A verifying implementation (see JWTAuthorizer) can be
// substituted without touching handler or service code.
package auth

import (
	"errors"
	"net/http"
	"strings"
)

// Role is a caller-asserted role string. Comparison is plain string
// equality; unknown values are carried as-is and simply fail the gate.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// RoleHeader is the request header carrying the asserted role.
const RoleHeader = "x-user-role"

// ErrNoIdentity is returned when a request carries no usable identity.
var ErrNoIdentity = errors.New("auth: no identity asserted")

// Authorizer resolves the role a request acts under.
type Authorizer interface {
	Authorize(r *http.Request) (Role, error)
}

// CanMutateCatalog reports whether the role may change the class catalog.
func CanMutateCatalog(role Role) bool {
	return role == RoleTeacher || role == RoleAdmin
}

// HeaderAuthorizer reads the role straight from the x-user-role header.
// Nothing is verified; this preserves the observed demo contract.
type HeaderAuthorizer struct{}

// Authorize returns the asserted role, or ErrNoIdentity if the header is
// missing or blank.
func (HeaderAuthorizer) Authorize(r *http.Request) (Role, error) {
	raw := strings.TrimSpace(r.Header.Get(RoleHeader))
	if raw == "" {
		return "", ErrNoIdentity
	}
	return Role(raw), nil
}
