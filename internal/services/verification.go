package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sync"
	"time"
)

// CodeAlphabet is the character set verification codes are drawn from.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	ErrCodeNotFound = errors.New("no pending code for this email")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("verification code does not match")
)

type pendingCode struct {
	code      string
	expiresAt time.Time
}

// CodeStore holds the pending one-time codes, keyed by email. Issuing a
// new code for an email replaces any pending one. Codes are single-use:
// a successful Consume removes the entry, a mismatch leaves it intact.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]pendingCode
}

func NewCodeStore() *CodeStore {
	return &CodeStore{codes: make(map[string]pendingCode)}
}

// Issue stores code for email with the given lifetime, overwriting any
// pending code for that email.
func (s *CodeStore) Issue(email, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = pendingCode{code: code, expiresAt: time.Now().Add(ttl)}
}

// Get returns the pending code for email, if any
func (s *CodeStore) Get(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[email]
	if !ok {
		return "", false
	}
	return entry.code, true
}

// Consume validates the submitted code against the pending entry for
// email and invalidates it on success. Comparison is exact and
// case-sensitive.
func (s *CodeStore) Consume(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return ErrCodeNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.codes, email)
		return ErrCodeExpired
	}
	if entry.code != code {
		return ErrCodeMismatch
	}

	delete(s.codes, email)
	return nil
}

// GenerateCode returns a random code of the given length drawn from
// alphabet, using crypto/rand.
func GenerateCode(length int, alphabet string) (string, error) {
	size := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
