package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of account categories. Anything else is rejected
// at the account-store boundary.
type Role string

const (
	RoleCustomer       Role = "customer"
	RoleMunicipalStaff Role = "municipal_staff"
)

// ParseRole validates a raw role value. The canonical constant is returned
// rather than the input, so the result never shares backing bytes with a
// transport buffer.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleMunicipalStaff:
		return RoleMunicipalStaff, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Account is the domain model for citizens and municipal staff. The email
// is the account identifier; complaints reference it as their owner key.
type Account struct {
	Email          string
	CredentialHash string
	RegionCode     int
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
