package password

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha256Hasher_RoundTrip(t *testing.T) {
	hasher := NewSha256Hasher()

	cred, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.Equal(t, PasswordV1, cred.Version)

	salt, err := base64.StdEncoding.DecodeString(cred.Salt)
	require.NoError(t, err)
	assert.Len(t, salt, sha256SaltLength)

	ok, err := hasher.Verify("secret123", cred)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("Secret123", cred)
	require.NoError(t, err)
	assert.False(t, ok)
}

// The digest must be SHA-256(salt || password) re-hashed for a total of
// 1024 rounds, matching hashes imported from the legacy system.
func TestSha256Hasher_LegacyDigest(t *testing.T) {
	hasher := NewSha256Hasher()

	salt := []byte("0123456789abcdef")
	sum := sha256.Sum256(append(salt, []byte("secret123")...))
	digest := sum[:]
	for i := 1; i < 1024; i++ {
		next := sha256.Sum256(digest)
		digest = next[:]
	}

	cred := Credential{
		Hash:    base64.StdEncoding.EncodeToString(digest),
		Salt:    base64.StdEncoding.EncodeToString(salt),
		Version: PasswordV1,
	}

	ok, err := hasher.Verify("secret123", cred)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSha256Hasher_IterationFloor(t *testing.T) {
	hasher := NewSha256HasherWithIterations(1)
	assert.Equal(t, Sha256MinIterations, hasher.iterations)

	hasher = NewSha256HasherWithIterations(4096)
	assert.Equal(t, 4096, hasher.iterations)
}

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	hasher := NewArgon2Hasher()

	cred, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.Equal(t, PasswordV2, cred.Version)
	assert.NotEqual(t, "secret123", cred.Hash)

	ok, err := hasher.Verify("secret123", cred)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("secret1234", cred)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2Hasher_InvalidEncoding(t *testing.T) {
	hasher := NewArgon2Hasher()

	_, err := hasher.Verify("secret123", Credential{Hash: "!!!", Salt: "!!!", Version: PasswordV2})
	assert.Error(t, err)
}

func TestHasherFactory(t *testing.T) {
	factory := NewHasherFactory()

	v1, err := factory.GetHasher(PasswordV1)
	require.NoError(t, err)
	assert.Equal(t, PasswordV1, v1.Version())

	v2, err := factory.GetHasher(PasswordV2)
	require.NoError(t, err)
	assert.Equal(t, PasswordV2, v2.Version())

	assert.Equal(t, CurrentPasswordVersion, factory.GetCurrentHasher().Version())

	_, err = factory.GetHasher(99)
	assert.Error(t, err)
}
