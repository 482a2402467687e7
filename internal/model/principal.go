package model

import "github.com/google/uuid"

type Role string

const (
	RoleDispatcher Role = "DISPATCHER"
	RoleDriver     Role = "DRIVER"
	RoleAdmin      Role = "ADMIN"
)

// Principal is the authenticated caller. CompanyID is the tenant every
// query is scoped by; it comes from the token, never from ambient state.
type Principal struct {
	UserID    uuid.UUID
	CompanyID string
	Role      Role
}

func (p Principal) IsDispatcher() bool {
	return p.Role == RoleDispatcher
}

func (p Principal) IsDriver() bool {
	return p.Role == RoleDriver
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
