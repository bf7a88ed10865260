// Package password provides credential derivation and verification for
// account passwords.
//
// A Credential is the stored (hash, salt, version) triple. New credentials
// are derived with Argon2id; the iterated SHA-256 hasher exists only to
// verify credentials imported from the legacy admin system.
//
//	manager := password.NewCredentialManager().WithPolicy(password.DefaultPasswordPolicy())
//	cred, err := manager.CreateCredential("S3cret!pass")
//	ok, err := manager.Verify("S3cret!pass", cred)
//
// The package performs no I/O; callers persist the Credential themselves.
package password
