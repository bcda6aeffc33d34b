// Package gate provides permission-based authorization.
// A Gate resolves the acting subject to a Profile and checks that the profile
// grants "resource:action". The package has no dependencies on domain models.
//
// The package uses generics to allow any subject type:
//   - Gate[uint] for user ID based auth
//   - Gate[auth.Principal] for session principals
package gate

import (
	"context"
	"fmt"
)

// Gate is the central authorization checkpoint.
// U is the subject type; its zero value is treated as anonymous.
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
}

// New creates a gate backed by resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver}
}

// Authorize returns nil when user may perform action on resourceType.
// Anonymous subjects, unknown profiles and missing permissions all yield
// an error wrapping ErrUnauthorized.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return ErrUnauthorized
	}
	perm := NewPermission(resourceType, action)
	if !profile.HasPermission(perm) {
		return fmt.Errorf("%w: %s lacks %s", ErrUnauthorized, profile.Name(), perm)
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string) bool {
	return g.Authorize(ctx, user, action, resourceType) == nil
}
