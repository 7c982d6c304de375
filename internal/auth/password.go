package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/carematch/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the number of input bytes bcrypt takes into account.
const maxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost. Zero selects bcrypt.DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// normalize keeps at most the first 72 bytes of p and drops a multi-byte
// sequence that the cut left incomplete.
func normalize(p string) string {
	if len(p) <= maxPasswordBytes {
		return p
	}
	return strings.ToValidUTF8(p[:maxPasswordBytes], "")
}

// Hash returns the encoded bcrypt hash of the normalized password.
func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(normalize(password)), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. Surrounding whitespace is
// trimmed from password before comparing. A mismatch is (false, nil); a hash
// that cannot be parsed returns apperr.ErrCredentialFormat.
func (h *Hasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(normalize(strings.TrimSpace(password))))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", apperr.ErrCredentialFormat, err)
	}
}
