// Package password implements one-way credential hashing with argon2id.
// Hashes are serialized in PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash), so parameters travel with
// the hash and verification works across cost upgrades.
//
// The same hasher is used for user passwords and for refresh-token secrets:
// raw refresh tokens are never stored at rest, only their hashes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

const algorithmID = "argon2id"

// maxMemoryKiB caps the memory cost accepted from a PHC string (4 GiB).
// Verify derives a key with whatever parameters the string carries, so an
// unbounded m would let a crafted hash drive an arbitrarily large allocation.
const maxMemoryKiB uint32 = 4 * 1024 * 1024

// Default parameters follow the OWASP argon2id baseline: 19 MiB memory,
// two passes, one lane.
const (
	DefaultMemoryKiB   uint32 = 19456
	DefaultTime        uint32 = 2
	DefaultParallelism uint8  = 1
	DefaultSaltLength  uint32 = 16
	DefaultKeyLength   uint32 = 32
)

// Params holds the argon2id cost parameters. Instances are set up once at
// startup and treated as immutable afterwards.
type Params struct {
	MemoryKiB   uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns the baseline cost parameters.
func DefaultParams() Params {
	return Params{
		MemoryKiB:   DefaultMemoryKiB,
		Time:        DefaultTime,
		Parallelism: DefaultParallelism,
		SaltLength:  DefaultSaltLength,
		KeyLength:   DefaultKeyLength,
	}
}

// Argon2 hashes and verifies secrets. Safe for concurrent use; each call
// derives keys on the calling goroutine without shared state.
type Argon2 struct {
	params Params
}

// NewArgon2 validates the parameters and returns a hasher.
func NewArgon2(p Params) (*Argon2, error) {
	if p.MemoryKiB < 8*1024 {
		return nil, errors.New("argon2: memory cost below 8 MiB")
	}
	if p.Time < 1 {
		return nil, errors.New("argon2: time cost must be at least 1")
	}
	if p.Parallelism < 1 {
		return nil, errors.New("argon2: parallelism must be at least 1")
	}
	if p.SaltLength < 16 {
		return nil, errors.New("argon2: salt must be at least 16 bytes")
	}
	if p.KeyLength < 16 {
		return nil, errors.New("argon2: key must be at least 16 bytes")
	}
	return &Argon2{params: p}, nil
}

// Hash derives an argon2id hash of secret under a fresh random salt and
// returns it PHC-encoded. Two calls with the same secret produce different
// strings; use Verify to compare.
func (a *Argon2) Hash(secret string) (string, error) {
	salt := make([]byte, a.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashing, err)
	}

	key := argon2.IDKey(
		[]byte(secret),
		salt,
		a.params.Time,
		a.params.MemoryKiB,
		a.params.Parallelism,
		a.params.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		a.params.MemoryKiB,
		a.params.Time,
		a.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether secret re-hashes to encoded. A malformed encoded
// hash yields false, not an error: verification failure is a normal outcome
// for the callers, never an error path.
func (a *Argon2) Verify(secret, encoded string) bool {
	parsed, err := parsePHC(encoded)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		[]byte(secret),
		parsed.salt,
		parsed.time,
		parsed.memoryKiB,
		parsed.parallelism,
		uint32(len(parsed.key)),
	)

	return subtle.ConstantTimeCompare(computed, parsed.key) == 1
}

type phcHash struct {
	memoryKiB   uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parsePHC(encoded string) (*phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	var p phcHash
	var parallelism uint32
	n, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memoryKiB, &p.time, &parallelism)
	if err != nil || n != 3 {
		return nil, errors.New("invalid parameter block")
	}
	if parallelism == 0 || parallelism > 255 {
		return nil, errors.New("invalid parallelism")
	}
	p.parallelism = uint8(parallelism)

	// argon2.IDKey panics on a zero time cost, so reject it here; a memory
	// cost beyond the cap is likewise never one we issued.
	if p.time == 0 {
		return nil, errors.New("invalid time cost")
	}
	if p.memoryKiB == 0 || p.memoryKiB > maxMemoryKiB {
		return nil, errors.New("invalid memory cost")
	}

	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, errors.New("invalid hash encoding")
	}
	if len(p.salt) < 8 || len(p.key) < 16 {
		return nil, errors.New("salt or hash too short")
	}

	return &p, nil
}
