package auth

import "strings"

// AccessRule binds an HTTP method and path pattern to the minimum role needed.
// Patterns match path segments: `*` matches exactly one segment, `**` matches
// the rest of the path. Public rules allow anonymous callers.
type AccessRule struct {
	Method  string
	Pattern string
	Role    Role
	Public  bool
}

// AccessPolicy evaluates an ordered rule list against a request. The first
// rule whose method and pattern match decides the outcome; nothing past it is
// consulted. Requests matching no rule require authentication and are denied.
type AccessPolicy struct {
	rules     []AccessRule
	hierarchy *Hierarchy
	logger    Logger
}

// NewAccessPolicy builds a policy over the given rules. The role hierarchy is
// computed once here, not per request.
func NewAccessPolicy(rules []AccessRule) *AccessPolicy {
	return &AccessPolicy{
		rules:     rules,
		hierarchy: NewHierarchy(),
		logger:    defLogger{},
	}
}

func (p *AccessPolicy) WithLogger(logger Logger) *AccessPolicy {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Authorize decides whether the identity may perform method on path. A nil
// identity is an anonymous caller: allowed only through public rules. The
// denial error is generic on purpose, it never names the role the rule wanted.
func (p *AccessPolicy) Authorize(identity Identity, method, path string) error {
	for _, rule := range p.rules {
		if !strings.EqualFold(rule.Method, method) {
			continue
		}

		if !matchPath(rule.Pattern, path) {
			continue
		}

		if rule.Public {
			return nil
		}

		if identity == nil {
			return ErrAuthenticationRequired
		}

		if p.hierarchy.AnyImplies(identity.Roles(), rule.Role) {
			return nil
		}

		p.logger.Warn("Access denied for %s: %s %s", identity.Username(), method, path)
		return ErrAuthorizationDenied
	}

	if identity == nil {
		return ErrAuthenticationRequired
	}

	p.logger.Warn("No access rule matched for %s: %s %s", identity.Username(), method, path)
	return ErrAuthorizationDenied
}

// matchPath compares pattern and path segment by segment. `*` consumes one
// segment, `**` consumes everything remaining including the empty tail.
func matchPath(pattern, path string) bool {
	want := splitPath(pattern)
	have := splitPath(path)

	for i, segment := range want {
		if segment == "**" {
			return true
		}

		if i >= len(have) {
			return false
		}

		if segment == "*" {
			continue
		}

		if segment != have[i] {
			return false
		}
	}

	return len(want) == len(have)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// DefaultPolicy is the rule set for the publishing API. Reads on published
// content are anonymous, writes need an authoring role, anything under the
// admin surface needs ADMIN. Order matters: the admin rules sit first so a
// wildcard read rule cannot shadow them.
func DefaultPolicy() *AccessPolicy {
	return NewAccessPolicy([]AccessRule{
		{Method: "GET", Pattern: "/api/admin/**", Role: RoleAdmin},
		{Method: "POST", Pattern: "/api/admin/**", Role: RoleAdmin},
		{Method: "PUT", Pattern: "/api/admin/**", Role: RoleAdmin},
		{Method: "DELETE", Pattern: "/api/admin/**", Role: RoleAdmin},

		{Method: "GET", Pattern: "/api/posts/**", Public: true},
		{Method: "GET", Pattern: "/api/comments/**", Public: true},
		{Method: "GET", Pattern: "/api/masterpieces/**", Public: true},
		{Method: "GET", Pattern: "/api/playlists/**", Public: true},
		{Method: "GET", Pattern: "/api/categories/**", Public: true},

		{Method: "POST", Pattern: "/api/posts", Role: RoleAuthor},
		{Method: "PUT", Pattern: "/api/posts/*", Role: RoleAuthor},
		{Method: "DELETE", Pattern: "/api/posts/*", Role: RoleEditor},

		{Method: "POST", Pattern: "/api/comments", Role: RoleUser},
		{Method: "PUT", Pattern: "/api/comments/*", Role: RoleUser},
		{Method: "DELETE", Pattern: "/api/comments/*", Role: RoleEditor},

		{Method: "POST", Pattern: "/api/likes/**", Role: RoleUser},
		{Method: "DELETE", Pattern: "/api/likes/**", Role: RoleUser},

		{Method: "POST", Pattern: "/api/masterpieces", Role: RoleAuthor},
		{Method: "PUT", Pattern: "/api/masterpieces/*", Role: RoleAuthor},
		{Method: "DELETE", Pattern: "/api/masterpieces/*", Role: RoleEditor},

		{Method: "POST", Pattern: "/api/playlists", Role: RoleUser},
		{Method: "PUT", Pattern: "/api/playlists/*", Role: RoleUser},
		{Method: "DELETE", Pattern: "/api/playlists/*", Role: RoleUser},

		{Method: "POST", Pattern: "/api/categories", Role: RoleEditor},
		{Method: "PUT", Pattern: "/api/categories/*", Role: RoleEditor},
		{Method: "DELETE", Pattern: "/api/categories/*", Role: RoleAdmin},
	})
}
