// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

var ErrMalformedHash = errors.New("malformed password hash")

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// currentParams is what new hashes are written with. Stored hashes with
// other parameters are upgraded on the next successful login.
var currentParams = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

func (p argonParams) encode(salt, key []byte) string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory,
		p.time,
		p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// HashPassword returns the PHC-style argon2id encoding of password. The
// clear text never leaves this function.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return currentParams.encode(salt, currentParams.derive(password, salt)), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	params, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(key, params.derive(password, salt)) == 1, nil
}

// PasswordCheck is the outcome of a login attempt against a stored hash.
type PasswordCheck struct {
	Match bool
	// Rehash is set when the stored hash used outdated parameters and
	// should be replaced.
	Rehash string
}

func CheckPassword(password, encodedHash string) (PasswordCheck, error) {
	match, err := VerifyPassword(password, encodedHash)
	if err != nil || !match {
		return PasswordCheck{}, err
	}

	check := PasswordCheck{Match: true}
	if needsRehash(encodedHash) {
		// a failed upgrade must not fail the login
		if fresh, hashErr := HashPassword(password); hashErr == nil {
			check.Rehash = fresh
		}
	}
	return check, nil
}

var unknownAccountHash = sync.OnceValue(func() string {
	hash, err := HashPassword("cuenta-inexistente")
	if err != nil {
		panic(fmt.Sprintf("security: hash for unknown accounts: %v", err))
	}
	return hash
})

// BurnPasswordCheck spends the same argon2 work as a real check. Login calls
// it for unknown emails so response time does not reveal which accounts
// exist.
func BurnPasswordCheck(password string) {
	//nolint:errcheck // result is discarded on purpose
	_, _ = VerifyPassword(password, unknownAccountHash())
}

func decodeHash(encodedHash string) (argonParams, []byte, []byte, error) {
	var params argonParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: version: %w", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: argon2 version %d", ErrMalformedHash, version)
	}

	_, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&params.memory,
		&params.time,
		&params.threads,
	)
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: params: %w", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: key: %w", ErrMalformedHash, err)
	}

	//nolint:gosec // G115: argon2id keys are 32 bytes
	params.keyLen = uint32(len(key))

	return params, salt, key, nil
}

func needsRehash(encodedHash string) bool {
	params, _, _, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}
	return params != currentParams
}
