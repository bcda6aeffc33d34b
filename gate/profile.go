package gate

import (
	"context"
	"slices"
)

// Profile represents a role with a set of permissions.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a subject to its profile.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// StaticProfile is an in-memory profile.
type StaticProfile struct {
	name        string
	permissions []Permission
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	return &StaticProfile{name: name, permissions: slices.Clone(permissions)}
}

func (p *StaticProfile) Name() string { return p.name }

// Permissions returns a copy of the granted permissions, in declaration order.
func (p *StaticProfile) Permissions() []Permission { return slices.Clone(p.permissions) }

// HasPermission checks if the profile grants the requested permission,
// honouring wildcards.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	return slices.ContainsFunc(p.permissions, func(perm Permission) bool {
		return perm.Matches(requested)
	})
}

// RoleResolver maps a subject to a profile through its role name.
type RoleResolver[U any] struct {
	roleOf   func(U) string
	profiles map[string]Profile
}

// NewRoleResolver creates a resolver that reads the role with roleOf.
func NewRoleResolver[U any](roleOf func(U) string) *RoleResolver[U] {
	return &RoleResolver[U]{roleOf: roleOf, profiles: make(map[string]Profile)}
}

// Set assigns a profile to a role name. Overwrites any existing profile.
func (r *RoleResolver[U]) Set(role string, profile Profile) {
	r.profiles[role] = profile
}

// Resolve returns the profile of the subject's role, or ErrNoProfile.
func (r *RoleResolver[U]) Resolve(_ context.Context, user U) (Profile, error) {
	if p, ok := r.profiles[r.roleOf(user)]; ok {
		return p, nil
	}
	return nil, ErrNoProfile
}
