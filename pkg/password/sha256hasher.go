package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// Sha256MinIterations is the floor for the iteration count. The legacy
	// admin system hashed with exactly this count, so it is both the
	// default and the minimum.
	Sha256MinIterations = 1024

	sha256SaltLength = 16
)

// Sha256Hasher implements PasswordHasher using iterated salted SHA-256.
// The digest is SHA-256(salt || password), re-hashed until the iteration
// count is reached. Matches the hashes produced by the legacy system, which
// is the only reason to keep it; new credentials use Argon2id.
type Sha256Hasher struct {
	iterations int
}

// NewSha256Hasher creates a Sha256Hasher with the legacy iteration count
func NewSha256Hasher() *Sha256Hasher {
	return &Sha256Hasher{iterations: Sha256MinIterations}
}

// NewSha256HasherWithIterations creates a Sha256Hasher with a custom
// iteration count, clamped to Sha256MinIterations
func NewSha256HasherWithIterations(iterations int) *Sha256Hasher {
	if iterations < Sha256MinIterations {
		iterations = Sha256MinIterations
	}
	return &Sha256Hasher{iterations: iterations}
}

// Hash implements PasswordHasher.Hash
func (h *Sha256Hasher) Hash(password string) (Credential, error) {
	if password == "" {
		return Credential{}, errors.New("password cannot be empty")
	}

	salt := make([]byte, sha256SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return Credential{}, err
	}

	digest := h.digest([]byte(password), salt)

	return Credential{
		Hash:    base64.StdEncoding.EncodeToString(digest),
		Salt:    base64.StdEncoding.EncodeToString(salt),
		Version: PasswordV1,
	}, nil
}

// Verify implements PasswordHasher.Verify
func (h *Sha256Hasher) Verify(password string, cred Credential) (bool, error) {
	if password == "" || cred.Hash == "" {
		return false, errors.New("password and credential hash cannot be empty")
	}

	salt, err := base64.StdEncoding.DecodeString(cred.Salt)
	if err != nil {
		return false, fmt.Errorf("invalid salt encoding: %w", err)
	}
	stored, err := base64.StdEncoding.DecodeString(cred.Hash)
	if err != nil {
		return false, fmt.Errorf("invalid hash encoding: %w", err)
	}

	computed := h.digest([]byte(password), salt)
	return subtle.ConstantTimeCompare(stored, computed) == 1, nil
}

// Version implements PasswordHasher.Version
func (h *Sha256Hasher) Version() PasswordVersion {
	return PasswordV1
}

func (h *Sha256Hasher) digest(password, salt []byte) []byte {
	hashed := sha256.New()
	hashed.Write(salt)
	hashed.Write(password)
	digest := hashed.Sum(nil)

	for i := 1; i < h.iterations; i++ {
		next := sha256.Sum256(digest)
		digest = next[:]
	}
	return digest
}
