package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2Hasher implements PasswordHasher using Argon2id
type Argon2Hasher struct {
	// Argon2 parameters
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// NewArgon2Hasher creates a new Argon2Hasher with default parameters
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		memory:      64 * 1024, // 64MB
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
	}
}

// Hash implements PasswordHasher.Hash
func (h *Argon2Hasher) Hash(password string) (Credential, error) {
	if password == "" {
		return Credential{}, errors.New("password cannot be empty")
	}

	salt := make([]byte, h.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return Credential{}, err
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.iterations,
		h.memory,
		h.parallelism,
		h.keyLength,
	)

	return Credential{
		Hash:    base64.StdEncoding.EncodeToString(key),
		Salt:    base64.StdEncoding.EncodeToString(salt),
		Version: PasswordV2,
	}, nil
}

// Verify implements PasswordHasher.Verify
func (h *Argon2Hasher) Verify(password string, cred Credential) (bool, error) {
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

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		h.iterations,
		h.memory,
		h.parallelism,
		uint32(len(stored)),
	)

	return subtle.ConstantTimeCompare(stored, computed) == 1, nil
}

// Version implements PasswordHasher.Version
func (h *Argon2Hasher) Version() PasswordVersion {
	return PasswordV2
}
