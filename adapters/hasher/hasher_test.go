package hasher_test

import (
	"testing"

	"github.com/codybmenefee/custodian-integration-tool/adapters/hasher"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost) // min cost for speed in tests

	password := "mySecretPassword"
	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if len(hash) == 0 || hash[0] != '$' {
		t.Errorf("hash = %q, want bcrypt format", hash)
	}

	if !h.Compare(hash, password) {
		t.Error("Compare should accept the original password")
	}
	if h.Compare(hash, "wrongPassword") {
		t.Error("Compare should reject a wrong password")
	}
}

func TestBcrypt_SaltedHashes(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	hash1, _ := h.Hash("password")
	hash2, _ := h.Hash("password")

	// Bcrypt salts, so equal inputs give different hashes.
	if string(hash1) == string(hash2) {
		t.Error("same password should produce different hashes")
	}
}

func TestBcrypt_InvalidCostDefaults(t *testing.T) {
	for _, cost := range []int{-1, 1, 100} {
		if h := hasher.NewBcrypt(cost); h == nil {
			t.Errorf("NewBcrypt(%d) should fall back to default cost", cost)
		}
	}
}

func TestBcrypt_Compare_InvalidHash(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	if h.Compare([]byte("not-a-hash"), "password") {
		t.Error("Compare should reject an invalid hash")
	}
	if h.Compare(nil, "password") {
		t.Error("Compare should reject an empty hash")
	}
}

func TestFake_RoundTrip(t *testing.T) {
	h := hasher.Fake{}

	hash, err := h.Hash("plaintext")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(hash) != "plaintext" {
		t.Errorf("fake hash = %q, want plaintext", hash)
	}
	if !h.Compare(hash, "plaintext") {
		t.Error("Compare should accept matching values")
	}
	if h.Compare(hash, "other") {
		t.Error("Compare should reject different values")
	}
}
