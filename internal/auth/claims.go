package auth

import "maverick/dispatch/internal/constants"

// UserClaims is what the identity layer resolves for every call.
/**
* Should contain:
	- UserID
	- TenantID
	- Role
	- StudentID (only for students linked to a student profile)
*/
type UserClaims interface {
	UserID() string
	TenantID() string
	Role() constants.Role
	StudentID() string
	Source() string
}

type JWTClaims struct {
	UserUUID    string
	TenantUUID  string
	RoleValue   constants.Role
	StudentUUID string
}

func (c *JWTClaims) UserID() string       { return c.UserUUID }
func (c *JWTClaims) TenantID() string     { return c.TenantUUID }
func (c *JWTClaims) Role() constants.Role { return c.RoleValue }
func (c *JWTClaims) StudentID() string    { return c.StudentUUID }
func (c *JWTClaims) Source() string       { return "JWT" }

// ServiceClaims identify internal callers such as dispatchctl.
type ServiceClaims struct {
	Name       string
	TenantUUID string
	RoleValue  constants.Role
}

func (c *ServiceClaims) UserID() string       { return "service:" + c.Name }
func (c *ServiceClaims) TenantID() string     { return c.TenantUUID }
func (c *ServiceClaims) Role() constants.Role { return c.RoleValue }
func (c *ServiceClaims) StudentID() string    { return "" }
func (c *ServiceClaims) Source() string       { return "SERVICE" }
