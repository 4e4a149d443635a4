package crypto

import (
	"encoding/hex"
	"testing"
)

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() unexpected error: %v", err)
	}
	if len(token) != 2*ResetTokenBytes {
		t.Fatalf("GenerateResetToken() length = %d, want %d", len(token), 2*ResetTokenBytes)
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("GenerateResetToken() not hex: %v", err)
	}
}

func TestGenerateResetTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateResetToken()
		if err != nil {
			t.Fatalf("GenerateResetToken() unexpected error: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}

func TestDigestToken(t *testing.T) {
	a := DigestToken("abc")
	if a != DigestToken("abc") {
		t.Error("DigestToken() not deterministic")
	}
	if a == DigestToken("abd") {
		t.Error("DigestToken() collided for different input")
	}
	if a == "abc" {
		t.Error("DigestToken() returned the input")
	}
	if len(a) != 64 {
		t.Errorf("DigestToken() length = %d, want 64", len(a))
	}
}
