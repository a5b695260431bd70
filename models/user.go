package models

import (
	"strings"
	"time"
)

// User is a marketplace account. Roles are normalized to a flat set of
// lowercase role names once, at registration; nothing downstream re-parses
// role shapes.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Roles        []string  `bson:"roles" json:"roles"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasRole reports whether the user carries the given role name.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeRoles lowercases, trims and deduplicates role names, dropping
// empties. Called once at the auth boundary.
func NormalizeRoles(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		name := strings.ToLower(strings.TrimSpace(r))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		roles = append(roles, name)
	}
	return roles
}
