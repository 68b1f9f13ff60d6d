package mocks

import (
	"strings"
	"sync"

	"github.com/phrazzld/shoplist-api/internal/service/auth"
)

const mockDigestPrefix = "mock-digest:"

// MockPasswordHasher implements auth.PasswordHasher without a slow hash.
// By default Hash prefixes the plaintext and Verify checks that prefix.
type MockPasswordHasher struct {
	// HashFn allows for custom hashing logic in tests
	HashFn func(password string) (string, error)

	// VerifyFn allows for custom comparison logic in tests
	VerifyFn func(password, digest string) bool

	mu sync.Mutex
	// VerifyCalls stores the digests passed to Verify, in order
	VerifyCalls []string
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return mockDigestPrefix + password, nil
}

// Verify implements auth.PasswordHasher
func (m *MockPasswordHasher) Verify(password, digest string) bool {
	m.mu.Lock()
	m.VerifyCalls = append(m.VerifyCalls, digest)
	m.mu.Unlock()

	if m.VerifyFn != nil {
		return m.VerifyFn(password, digest)
	}
	return strings.HasPrefix(digest, mockDigestPrefix) && digest == mockDigestPrefix+password
}

// VerifyCallCount returns how many times Verify was called.
func (m *MockPasswordHasher) VerifyCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.VerifyCalls)
}
