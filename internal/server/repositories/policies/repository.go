// Package policies reads the role-based access policy store. Entries are
// managed out of band; at request time they are read-only.
package policies

import "context"

type Repository interface {
	// RolesForIdentity returns the roles bound to a caller identity.
	// An unknown identity yields an empty slice, not an error.
	RolesForIdentity(ctx context.Context, identity string) ([]string, error)

	// PathPatternsForRole returns the API path patterns the role may access.
	PathPatternsForRole(ctx context.Context, role string) ([]string, error)
}
