package constants

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role mirrors the tenant membership role resolved by the identity layer.
type Role string

const (
	RoleSuperAdmin        Role = "super_admin"
	RoleTenantAdmin       Role = "tenant_admin"
	RoleOperationsManager Role = "operations_manager"
	RoleInstructor        Role = "instructor"
	RoleStudent           Role = "student"
	RoleSupport           Role = "support"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleOperationsManager,
		RoleInstructor, RoleStudent, RoleSupport:
		return true
	}
	return false
}

// ParseRole accepts any casing and returns an error for unknown roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }
