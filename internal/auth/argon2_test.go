package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestArgon2idHasher_Format(t *testing.T) {
	t.Parallel()

	hash, err := Argon2idHasher{}.Hash("admin-password-123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=4$") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("Hash should have 6 parts, got: %d", len(parts))
	}
}

func TestArgon2idHasher_SaltedAndVerifies(t *testing.T) {
	t.Parallel()

	h := Argon2idHasher{}
	hash1, _ := h.Hash("same-password")
	hash2, _ := h.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Same password should produce different hashes due to random salt")
	}

	for _, hash := range []string{hash1, hash2} {
		ok, err := h.Verify("same-password", hash)
		if err != nil || !ok {
			t.Errorf("Verify failed: ok=%v err=%v", ok, err)
		}
	}

	// Wrong password should not verify (but no error)
	ok, err := h.Verify("other-password", hash1)
	if err != nil {
		t.Fatalf("Verify should not return error for wrong password: %v", err)
	}
	if ok {
		t.Error("Wrong password should not match")
	}
}

func TestArgon2idHasher_InvalidHashFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"wrong format", "not-a-hash"},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=65536"},
		{"bad params", "$argon2id$v=19$junk$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Argon2idHasher{}.Verify("password", tt.hash)
			if !errors.Is(err, ErrInvalidHash) {
				t.Errorf("Verify(%q) error = %v, want ErrInvalidHash", tt.hash, err)
			}
		})
	}
}

func TestArgon2idHasher_WrongVersion(t *testing.T) {
	t.Parallel()

	// v=18 simulates a hash written by an incompatible argon2 release.
	invalidVersionHash := "$argon2id$v=18$m=65536,t=3,p=4$c29tZXNhbHRoZXJl$c29tZWhhc2hoZXJl"

	match, err := Argon2idHasher{}.Verify("password", invalidVersionHash)
	if !errors.Is(err, ErrIncompatibleVersion) {
		t.Errorf("Expected ErrIncompatibleVersion, got: %v", err)
	}
	if match {
		t.Error("Should not match with incompatible version")
	}
}
