package password

import (
	"strings"
	"testing"
)

// fastParams keeps the tests quick; production costs are exercised only
// through the defaults test below.
func fastParams() Params {
	return Params{
		MemoryKiB:   8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
}

func newHasher(t *testing.T) *Argon2 {
	t.Helper()
	h, err := NewArgon2(fastParams())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	return h
}

func TestHashVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	h := newHasher(t)

	secret := "GoodPass123"
	encoded, err := h.Hash(secret)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected encoding: %q", encoded)
	}
	if !h.Verify(secret, encoded) {
		t.Fatalf("Verify returned false for matching secret")
	}
	if h.Verify("WrongPass123", encoded) {
		t.Fatalf("Verify returned true for non-matching secret")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	t.Parallel()
	h := newHasher(t)

	first, err := h.Hash("same-secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := h.Hash("same-secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if first == second {
		t.Fatalf("two hashes of the same secret must differ (random salt)")
	}
	if !h.Verify("same-secret", first) || !h.Verify("same-secret", second) {
		t.Fatalf("verification must be stable across salts")
	}
}

func TestVerify_MalformedHashIsFalse(t *testing.T) {
	t.Parallel()
	h := newHasher(t)

	malformed := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=8192,t=1,p=1$short",
		"$argon2i$v=19$m=8192,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=18$m=8192,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=abc,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$AAAAAAAAAAAAAAAAAAAAAA",
		// Parameter blocks that parse but would panic or exhaust memory if
		// fed to the key derivation.
		"$argon2id$v=19$m=8192,t=0,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=0,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=4294967295,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=8192,t=1,p=0$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
	}

	for _, enc := range malformed {
		if h.Verify("whatever", enc) {
			t.Fatalf("Verify(%q) = true, want false", enc)
		}
	}
}

func TestVerify_CrossParameterHashes(t *testing.T) {
	t.Parallel()

	// A hash produced under one parameter set must verify with a hasher
	// configured differently, because parameters are read from the PHC string.
	low := newHasher(t)
	encoded, err := low.Hash("portable-secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	high, err := NewArgon2(Params{
		MemoryKiB:   16 * 1024,
		Time:        2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	if !high.Verify("portable-secret", encoded) {
		t.Fatalf("hash should verify regardless of the verifier's own params")
	}
}

func TestNewArgon2_RejectsWeakParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"low memory", func(p *Params) { p.MemoryKiB = 1024 }},
		{"zero time", func(p *Params) { p.Time = 0 }},
		{"zero parallelism", func(p *Params) { p.Parallelism = 0 }},
		{"short salt", func(p *Params) { p.SaltLength = 8 }},
		{"short key", func(p *Params) { p.KeyLength = 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fastParams()
			tt.mutate(&p)
			if _, err := NewArgon2(p); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	if p.MemoryKiB != 19456 || p.Time != 2 || p.Parallelism != 1 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if _, err := NewArgon2(p); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
