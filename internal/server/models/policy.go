package models

// PolicyEntry allows one role to access API paths matching a pattern.
// Evaluation is deny-by-default: no matching entry means no access.
type PolicyEntry struct {
	Role        string
	PathPattern string
}

// RoleBinding assigns a role to a caller identity (JWT subject UUID).
type RoleBinding struct {
	Identity string
	Role     string
}
