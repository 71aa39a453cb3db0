// Package password derives and verifies credential hashes.
//
// Hashes are self-describing strings: argon2id hashes use the PHC format
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// and bcrypt hashes use the modular crypt format ($2a$, $2b$, $2y$). The
// Verifier accepts both so the configured algorithm can change without
// invalidating stored hashes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Prefix  = "$argon2id$"
	saltLength    = 16
	argon2KeySize = 32

	// Upper bounds for parameters read back from stored hashes.
	maxArgon2Memory     = 1 << 20 // KiB
	maxArgon2Iterations = 64
	maxArgon2KeySize    = 1024
)

var (
	ErrEmptyPassword = errors.New("password is empty")
	ErrMalformedHash = errors.New("malformed password hash")
	ErrUnknownScheme = errors.New("unknown password hash scheme")
)

// Argon2Params tunes argon2id. Memory is in KiB.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultArgon2Params follows the RFC 9106 second recommended option.
var DefaultArgon2Params = Argon2Params{Memory: 64 * 1024, Iterations: 3, Parallelism: 2}

// Argon2id hashes with a random salt per password.
type Argon2id struct {
	params Argon2Params
}

func NewArgon2id(p Argon2Params) *Argon2id {
	if p.Memory == 0 {
		p.Memory = DefaultArgon2Params.Memory
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultArgon2Params.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = DefaultArgon2Params.Parallelism
	}
	return &Argon2id{params: p}
}

func (a *Argon2id) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, a.params.Iterations, a.params.Memory, a.params.Parallelism, argon2KeySize)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix,
		argon2.Version,
		a.params.Memory, a.params.Iterations, a.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the parameters stored in hash and compares
// in constant time.
func (a *Argon2id) Verify(hash, password string) (bool, error) {
	p, salt, key, err := decodeArgon2(hash)
	if err != nil {
		return false, err
	}
	other := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func decodeArgon2(hash string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: argon2 version %d", ErrMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	// argon2.IDKey panics on t=0 or p=0.
	if p.Iterations < 1 || p.Iterations > maxArgon2Iterations ||
		p.Parallelism < 1 ||
		p.Memory < 8*uint32(p.Parallelism) || p.Memory > maxArgon2Memory {
		return p, nil, nil, fmt.Errorf("%w: parameters out of range", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxArgon2KeySize {
		return p, nil, nil, ErrMalformedHash
	}
	return p, salt, key, nil
}
