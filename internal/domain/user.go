package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyPasswordHash is returned when a user has no stored credential.
var ErrEmptyPasswordHash = errors.New("password hash cannot be empty")

// PasswordHasher derives a one-way digest from a plaintext password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// User represents a registered account.
// The password hash is write-only: it is set through SetPassword and never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser validates the given registration data and returns a User whose
// password has already been hashed with hasher. The ID is assigned by the store.
func NewUser(username, email, password string, hasher PasswordHasher) (*User, error) {
	name, err := ValidateName(username, NameContextUser)
	if err != nil {
		return nil, err
	}

	addr, err := ValidateEmail(email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		Username:  name,
		Email:     addr,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.SetPassword(hasher, password); err != nil {
		return nil, err
	}

	return user, nil
}

// SetPassword validates plaintext and stores only its digest.
func (u *User) SetPassword(hasher PasswordHasher, plaintext string) error {
	if err := ValidatePassword(plaintext); err != nil {
		return err
	}

	digest, err := hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.PasswordHash = digest
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if _, err := ValidateName(u.Username, NameContextUser); err != nil {
		return err
	}
	if _, err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	return nil
}
