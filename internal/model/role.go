package model

import "context"

// RoleStore defines lookups over the seeded role reference data.
type RoleStore interface {
	GetByName(ctx context.Context, name string) (Role, error)
}

// Role is static reference data seeded at provisioning time.
type Role struct {
	ID   int64
	Name string
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
