// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("encoded hash %q lacks argon2id prefix", encoded)
	}

	ok, err := VerifyPassword("hunter2hunter2", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword() error: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = VerifyPassword("hunter3hunter3", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword() error: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same-password-twice")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	second, err := HashPassword("same-password-twice")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	malformed := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$short",
		"$bcrypt$whatever",
	}
	for _, hash := range malformed {
		if _, err := VerifyPassword("anything", hash); err == nil {
			t.Errorf("VerifyPassword(%q) accepted a malformed hash", hash)
		}
	}
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	t.Parallel()

	ok, err := VerifyPasswordTimingSafe("anything", nil)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe(nil) error: %v", err)
	}
	if ok {
		t.Fatal("nil hash must never verify")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	t.Parallel()

	token, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error: %v", err)
	}
	if len(token) == 0 {
		t.Fatal("empty refresh token")
	}

	hash := HashToken(token)
	if hash == token {
		t.Fatal("token stored unhashed")
	}
	if HashToken(token) != hash {
		t.Fatal("token hash is not deterministic")
	}

	if !CompareTokenHash(token, hash) {
		t.Fatal("CompareTokenHash rejected its own hash")
	}
	if CompareTokenHash("different-token", hash) {
		t.Fatal("CompareTokenHash accepted a foreign token")
	}
}

func TestGenerateSecureTokenUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for range 32 {
		token, err := GenerateSecureToken(32)
		if err != nil {
			t.Fatalf("GenerateSecureToken() error: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}
