package auth

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func testConfig() *Config {
	return &Config{
		AccessTokenSecret:     "test-access-secret-0123456789-abcdef",
		ActivationTokenSecret: "test-activation-secret-0123456789-ab",
		AccessTokenTTLMs:      (15 * time.Minute).Milliseconds(),
		ActivationTokenTTLMs:  (24 * time.Hour).Milliseconds(),
		RefreshTokenTTLMs:     (7 * 24 * time.Hour).Milliseconds(),
		RefreshCookieName:     "refresh_token",
		RefreshCookiePath:     "/api/auth",
		Issuer:                "gugultas",
	}
}

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	// one named memory database per test so parallel suites never share state
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*User)(nil)).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*RefreshSession)(nil)).Exec(ctx)
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *bun.DB, username, email, password string, enabled bool, roles ...Role) *User {
	t.Helper()

	hash, err := HashPassword(password)
	require.NoError(t, err)

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Enabled:      enabled,
		Roles:        roles,
	}

	user, err = NewUsersRepository(db).Register(context.Background(), user)
	require.NoError(t, err)

	return user
}

type testIdentity struct {
	id       string
	username string
	email    string
	roles    []Role
}

func (i testIdentity) ID() string       { return i.id }
func (i testIdentity) Username() string { return i.username }
func (i testIdentity) Email() string    { return i.email }
func (i testIdentity) Roles() []Role    { return i.roles }

func identityWithRoles(roles ...Role) Identity {
	return testIdentity{
		id:       "7f9c430e-44f5-4a9f-9b3a-6f1a7f2f9a10",
		username: "tester",
		email:    "tester@example.com",
		roles:    roles,
	}
}
