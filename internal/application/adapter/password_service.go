// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// PasswordService defines the interface for password hashing and verification.
type PasswordService interface {
	// HashPassword hashes a plain text password.
	HashPassword(password string) (string, error)

	// VerifyPassword compares a plain text password with a hashed password.
	// A mismatch is reported as an error.
	VerifyPassword(hashedPassword, password string) error

	// ValidatePasswordStrength checks the password against the length bounds.
	ValidatePasswordStrength(password string) error
}
