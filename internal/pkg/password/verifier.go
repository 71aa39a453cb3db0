package password

import (
	"fmt"
	"strings"
)

// Algorithm names accepted by New.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

// Options selects and tunes the hashing algorithm.
type Options struct {
	Algorithm  string
	Argon2     Argon2Params
	BcryptCost int
}

// Hasher hashes new passwords with the configured algorithm and verifies
// any supported hash format.
type Hasher struct {
	primary interface{ Hash(string) (string, error) }
	argon2  *Argon2id
	bcrypt  *Bcrypt
}

// New builds a Hasher. An empty algorithm selects argon2id.
func New(opts Options) (*Hasher, error) {
	h := &Hasher{
		argon2: NewArgon2id(opts.Argon2),
		bcrypt: NewBcrypt(opts.BcryptCost),
	}
	switch strings.ToLower(opts.Algorithm) {
	case "", AlgorithmArgon2id:
		h.primary = h.argon2
	case AlgorithmBcrypt:
		h.primary = h.bcrypt
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, opts.Algorithm)
	}
	return h, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

// Verify dispatches on the hash prefix.
func (h *Hasher) Verify(hash, password string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return h.argon2.Verify(hash, password)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return h.bcrypt.Verify(hash, password)
	default:
		return false, ErrUnknownScheme
	}
}
