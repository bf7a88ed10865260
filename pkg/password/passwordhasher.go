package password

import "fmt"

// PasswordVersion represents the version of the password hashing algorithm
type PasswordVersion int

const (
	// PasswordV1 is the legacy iterated SHA-256 implementation, kept for
	// compatibility with credentials imported from the old admin system
	PasswordV1 PasswordVersion = 1

	// PasswordV2 uses Argon2id
	PasswordV2 PasswordVersion = 2

	// CurrentPasswordVersion is the version used for new credentials
	CurrentPasswordVersion = PasswordV2
)

// Credential is the stored representation of a password: a base64 hash, the
// base64 salt it was derived with, and the hasher version that produced it.
// The plaintext is never stored.
type Credential struct {
	Hash    string          `json:"hash"`
	Salt    string          `json:"salt"`
	Version PasswordVersion `json:"version"`
}

// PasswordHasher defines the interface for password hashing implementations
type PasswordHasher interface {
	// Hash derives a credential from a plaintext password using a fresh
	// random salt
	Hash(password string) (Credential, error)

	// Verify checks if the provided password matches the stored credential.
	// A mismatch is (false, nil); errors are reserved for malformed input.
	Verify(password string, cred Credential) (bool, error)

	// Version reports which PasswordVersion this hasher produces
	Version() PasswordVersion
}

// HasherFactory creates password hashers based on version
type HasherFactory struct {
	hasherMap map[PasswordVersion]PasswordHasher
}

// NewHasherFactory creates a factory with all supported hashers registered
func NewHasherFactory() *HasherFactory {
	factory := &HasherFactory{
		hasherMap: make(map[PasswordVersion]PasswordHasher),
	}

	factory.hasherMap[PasswordV1] = NewSha256Hasher()
	factory.hasherMap[PasswordV2] = NewArgon2Hasher()

	return factory
}

// GetHasher returns a password hasher for the specified version
func (f *HasherFactory) GetHasher(version PasswordVersion) (PasswordHasher, error) {
	hasher, ok := f.hasherMap[version]
	if !ok {
		return nil, fmt.Errorf("unsupported password version: %d", version)
	}
	return hasher, nil
}

// GetCurrentHasher returns the hasher used for new credentials
func (f *HasherFactory) GetCurrentHasher() PasswordHasher {
	return f.hasherMap[CurrentPasswordVersion]
}
