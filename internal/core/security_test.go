// AngelaMos | 2026
// security_test.go

package core

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")
	assert.NotContains(t, hash, "123456")

	ok, err := VerifyPassword("123456", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("1234567", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts differ")
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, h := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$a$b",
		"$argon2id$v=1$m=1,t=1,p=1$YQ$Yg",
		"$argon2id$v=19$m=x,t=1,p=1$YQ$Yg",
		"$argon2id$v=19$m=1,t=1,p=1$!!$Yg",
	} {
		_, err := VerifyPassword("x", h)
		assert.ErrorIs(t, err, ErrMalformedHash, h)
	}
}

func weakHash(t *testing.T, password string) string {
	t.Helper()
	salt := make([]byte, saltLength)
	_, err := rand.Read(salt)
	require.NoError(t, err)

	key := argon2.IDKey([]byte(password), salt, 1, 8*1024, 1, currentParams.keyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 8*1024, 1, 1,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func TestCheckPasswordUpgradesOldParameters(t *testing.T) {
	old := weakHash(t, "secreto")
	assert.True(t, needsRehash(old))

	check, err := CheckPassword("secreto", old)
	require.NoError(t, err)
	assert.True(t, check.Match)
	require.NotEmpty(t, check.Rehash)
	assert.False(t, needsRehash(check.Rehash))

	check, err = CheckPassword("secreto", check.Rehash)
	require.NoError(t, err)
	assert.Equal(t, PasswordCheck{Match: true}, check)

	check, err = CheckPassword("otro", old)
	require.NoError(t, err)
	assert.Equal(t, PasswordCheck{}, check)

	_, err = CheckPassword("secreto", "")
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestBurnPasswordCheckUsesAValidHash(t *testing.T) {
	assert.False(t, needsRehash(unknownAccountHash()))
	assert.NotPanics(t, func() { BurnPasswordCheck("123456") })
}
