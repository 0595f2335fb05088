package model

// Role identifiers recognized by coverage requirements. The set is
// closed: an unknown identifier is rejected at the validation boundary,
// and only deployment configuration can extend the registry.
const (
	RoleAdmin          = "Admin"
	RoleProjectManager = "Project Manager"
	RoleRedattore      = "Redattore"
	RoleSviluppatore   = "Sviluppatore"
	RoleOperatore      = "Operatore"
	RoleEnte           = "Ente"
)

// DefaultRoles returns the built-in role identifiers in display order.
func DefaultRoles() []string {
	return []string{
		RoleAdmin,
		RoleProjectManager,
		RoleRedattore,
		RoleSviluppatore,
		RoleOperatore,
		RoleEnte,
	}
}

// RoleRegistry is the process-wide table of legal role identifiers.
// It is built once at startup and never mutated afterwards, so it is
// safe to share across request handlers without locking.
type RoleRegistry struct {
	ordered []string
	members map[string]struct{}
}

// NewRoleRegistry builds a registry from the built-in roles plus any
// per-deployment extras. Duplicates and blank entries are dropped.
func NewRoleRegistry(extra ...string) *RoleRegistry {
	r := &RoleRegistry{members: make(map[string]struct{})}
	for _, role := range append(DefaultRoles(), extra...) {
		if role == "" {
			continue
		}
		if _, seen := r.members[role]; seen {
			continue
		}
		r.members[role] = struct{}{}
		r.ordered = append(r.ordered, role)
	}
	return r
}

// IsValid reports whether role belongs to the registry.
func (r *RoleRegistry) IsValid(role string) bool {
	_, ok := r.members[role]
	return ok
}

// All returns the registered roles in registration order.
func (r *RoleRegistry) All() []string {
	out := make([]string, len(r.ordered))
	copy(out, r.ordered)
	return out
}
