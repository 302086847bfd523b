package auth

// Role is a named privilege level assigned to an account.
type Role string

const (
	// RoleUser can read public content and manage their own comments and likes.
	RoleUser Role = "USER"
	// RoleAuthor can additionally create and edit their own posts.
	RoleAuthor Role = "AUTHOR"
	// RoleEditor can additionally manage any post, playlist, or masterpiece.
	RoleEditor Role = "EDITOR"
	// RoleAdmin can additionally manage accounts and administrative resources.
	RoleAdmin Role = "ADMIN"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAuthor, RoleEditor, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// AllRoles returns all predefined roles in ascending hierarchical order.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAuthor, RoleEditor, RoleAdmin}
}

// Hierarchy is the process-wide role implication graph. It is built once at
// startup from the direct edges of the chain ADMIN > EDITOR > AUTHOR > USER and
// queried by reachability; it is never mutated afterwards, so concurrent reads
// are safe.
type Hierarchy struct {
	implied map[Role]map[Role]struct{}
}

// NewHierarchy builds the transitive closure of the role chain.
func NewHierarchy() *Hierarchy {
	edges := map[Role][]Role{
		RoleAdmin:  {RoleEditor},
		RoleEditor: {RoleAuthor},
		RoleAuthor: {RoleUser},
		RoleUser:   {},
	}

	implied := make(map[Role]map[Role]struct{}, len(edges))
	for role := range edges {
		set := map[Role]struct{}{role: {}}

		stack := append([]Role{}, edges[role]...)
		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, seen := set[next]; seen {
				continue
			}
			set[next] = struct{}{}
			stack = append(stack, edges[next]...)
		}

		implied[role] = set
	}

	return &Hierarchy{implied: implied}
}

// Implies reports whether holding `have` grants the privileges of `want`.
func (h *Hierarchy) Implies(have, want Role) bool {
	set, ok := h.implied[have]
	if !ok {
		return false
	}
	_, ok = set[want]
	return ok
}

// AnyImplies reports whether any role in the set grants the privileges of `want`.
func (h *Hierarchy) AnyImplies(have []Role, want Role) bool {
	for _, r := range have {
		if h.Implies(r, want) {
			return true
		}
	}
	return false
}

// Reachable returns every role implied by `have`, including itself.
func (h *Hierarchy) Reachable(have Role) []Role {
	set, ok := h.implied[have]
	if !ok {
		return nil
	}

	out := make([]Role, 0, len(set))
	for _, r := range AllRoles() {
		if _, ok := set[r]; ok {
			out = append(out, r)
		}
	}
	return out
}
