package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordClampsBadCost(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 0)
	if err != nil {
		t.Fatalf("HashPassword with cost 0: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}
