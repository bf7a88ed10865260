package password

import (
	"fmt"

	"github.com/tendant/simple-account/pkg/errors"
)

// CredentialManager handles credential derivation and verification. It does
// no I/O of its own; persisting the resulting Credential is the caller's job.
type CredentialManager struct {
	factory *HasherFactory
	version PasswordVersion
	policy  *PasswordPolicy
}

// NewCredentialManager creates a CredentialManager that derives credentials
// with the current hasher version and accepts any non-empty password.
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		factory: NewHasherFactory(),
		version: CurrentPasswordVersion,
		policy:  NoOpPasswordPolicy(),
	}
}

// WithPolicy sets the password complexity policy
func (m *CredentialManager) WithPolicy(policy *PasswordPolicy) *CredentialManager {
	if policy != nil {
		m.policy = policy
	}
	return m
}

// WithVersion sets the hasher version used for new credentials
func (m *CredentialManager) WithVersion(version PasswordVersion) *CredentialManager {
	m.version = version
	return m
}

// CreateCredential derives a credential from a plaintext password with a
// fresh random salt. The plaintext must be non-empty and satisfy the policy.
func (m *CredentialManager) CreateCredential(password string) (Credential, error) {
	if password == "" {
		return Credential{}, errors.InvalidInput("password", "cannot be empty")
	}
	if err := m.policy.Check(password); err != nil {
		return Credential{}, err
	}

	hasher, err := m.factory.GetHasher(m.version)
	if err != nil {
		return Credential{}, err
	}
	return hasher.Hash(password)
}

// Verify checks a plaintext password against a stored credential, dispatching
// on the credential's version. A mismatch is (false, nil).
func (m *CredentialManager) Verify(password string, cred Credential) (bool, error) {
	if password == "" {
		return false, nil
	}

	hasher, err := m.factory.GetHasher(cred.Version)
	if err != nil {
		return false, fmt.Errorf("cannot verify credential: %w", err)
	}
	return hasher.Verify(password, cred)
}
