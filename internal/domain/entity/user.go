package entity

import (
	"time"
)

// UserRole separates regular users from administrators. Administrative
// actions happen on the remote authority; the role is cached for display only.
type UserRole string

const (
	RoleUser  UserRole = "User"
	RoleAdmin UserRole = "Admin"
)

// User is the locally cached profile of the signed-in account. The remote
// identity provider owns the canonical record; this cache exists so the app
// can render the profile while offline.
type User struct {
	ID          string    `json:"id"` // Account UID assigned by the identity provider.
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}
