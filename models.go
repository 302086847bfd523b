package auth

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RoleList is the set of roles held by an account, persisted as a single
// comma-separated column so it round-trips through any bun dialect.
type RoleList []Role

var (
	_ driver.Valuer = (RoleList)(nil)
	_ sql.Scanner   = (*RoleList)(nil)
)

// Has reports whether the list contains the exact role (no hierarchy applied).
func (rl RoleList) Has(role Role) bool {
	for _, r := range rl {
		if r == role {
			return true
		}
	}
	return false
}

// Strings converts the list for JSON responses and claims-free logging.
func (rl RoleList) Strings() []string {
	out := make([]string, len(rl))
	for i, r := range rl {
		out[i] = string(r)
	}
	return out
}

// Value implements driver.Valuer.
func (rl RoleList) Value() (driver.Value, error) {
	return strings.Join(rl.Strings(), ","), nil
}

// Scan implements sql.Scanner.
func (rl *RoleList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*rl = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported role list source type %T", src)
	}

	if raw == "" {
		*rl = nil
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make(RoleList, 0, len(parts))
	for _, p := range parts {
		role, ok := ParseRole(strings.TrimSpace(p))
		if !ok {
			return fmt.Errorf("unknown role %q in role list", p)
		}
		out = append(out, role)
	}

	*rl = out
	return nil
}

// User is the account model. The authentication core only reads it; mutation
// happens through registration, activation, and password-reset actions.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	Enabled        bool       `bun:"enabled" json:"enabled"`
	Roles          RoleList   `bun:"roles" json:"roles,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EffectiveRoles returns the assigned role set, defaulting to USER for
// accounts with no explicit assignment.
func (u *User) EffectiveRoles() RoleList {
	if len(u.Roles) == 0 {
		return RoleList{RoleUser}
	}
	return u.Roles
}

// RefreshSession is the persisted server-side record entitling the bearer of
// its opaque token to mint new access tokens until expiry or revocation. One
// session row references exactly one account; an account may hold any number
// of live sessions.
type RefreshSession struct {
	bun.BaseModel `bun:"table:refresh_sessions,alias:rs"`
	Token         string     `bun:"token,pk" json:"-"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *RefreshSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
