package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleListScan(t *testing.T) {
	t.Run("round trips through its column value", func(t *testing.T) {
		original := RoleList{RoleAuthor, RoleEditor}

		value, err := original.Value()
		require.NoError(t, err)
		assert.Equal(t, "AUTHOR,EDITOR", value)

		var decoded RoleList
		require.NoError(t, decoded.Scan(value))
		assert.Equal(t, original, decoded)
	})

	t.Run("empty column yields empty list", func(t *testing.T) {
		var decoded RoleList
		require.NoError(t, decoded.Scan(""))
		assert.Empty(t, decoded)

		require.NoError(t, decoded.Scan(nil))
		assert.Empty(t, decoded)
	})

	t.Run("unknown role fails the scan", func(t *testing.T) {
		var decoded RoleList
		assert.Error(t, decoded.Scan("USER,SUPERUSER"))
	})
}

func TestUserEffectiveRoles(t *testing.T) {
	user := &User{}
	assert.Equal(t, RoleList{RoleUser}, user.EffectiveRoles())

	user.Roles = RoleList{RoleEditor}
	assert.Equal(t, RoleList{RoleEditor}, user.EffectiveRoles())
}

func TestHashPassword(t *testing.T) {
	t.Run("rejects empty passwords", func(t *testing.T) {
		_, err := HashPassword("")
		assert.ErrorIs(t, err, ErrNoEmptyString)
	})

	t.Run("hash verifies and rejects the wrong password", func(t *testing.T) {
		hash, err := HashPassword("wubba lubba dub dub")
		require.NoError(t, err)

		assert.NoError(t, ComparePasswordAndHash("wubba lubba dub dub", hash))
		assert.ErrorIs(t, ComparePasswordAndHash("nope", hash), ErrMismatchedHashAndPassword)
	})
}
