// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("NewID() = %q is not a UUID: %v", id, err)
		}
		if seen[id] {
			t.Errorf("NewID() produced duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		electionID string
		salt       string
	}{
		{"standard", "election123", "secret-salt"},
		{"empty election id", "", "salt"},
		{"empty salt", "election456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.electionID, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			if key != GenerateAdminKey(tt.electionID, tt.salt) {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			if tt.electionID != "" && tt.salt != "" {
				if key == GenerateAdminKey(tt.electionID+"x", tt.salt) {
					t.Error("GenerateAdminKey() produced same key for different election IDs")
				}
			}

			// Should be URL-safe (no padding)
			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	electionID := "test-election-123"
	salt := "test-salt"
	validKey := GenerateAdminKey(electionID, salt)

	tests := []struct {
		name       string
		electionID string
		adminKey   string
		salt       string
		wantErr    bool
	}{
		{"valid key", electionID, validKey, salt, false},
		{"wrong key", electionID, "wrong-key", salt, true},
		{"wrong election id", "different-election", validKey, salt, true},
		{"wrong salt", electionID, validKey, "different-salt", true},
		{"empty key", electionID, "", salt, true},
		{"share slug is not an admin key", electionID, GenerateShareSlug(electionID, salt), salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.electionID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want ErrInvalidAdminKey", err)
			}
		})
	}
}

func TestGenerateShareSlug(t *testing.T) {
	slug := GenerateShareSlug("election-abc-123", "slug-salt")

	if slug == "" {
		t.Fatal("GenerateShareSlug() returned empty string")
	}
	if slug != GenerateShareSlug("election-abc-123", "slug-salt") {
		t.Error("GenerateShareSlug() is not deterministic")
	}
	if len(slug) > 11 {
		t.Errorf("GenerateShareSlug() too long: %d chars", len(slug))
	}
	for _, c := range slug {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			t.Errorf("GenerateShareSlug() contains non-alphanumeric char: %c", c)
		}
	}

	if GenerateShareSlug("e1", "salt") == GenerateShareSlug("e2", "salt") {
		t.Error("GenerateShareSlug() produced same slug for different election IDs")
	}
	if GenerateShareSlug("e1", "salt1") == GenerateShareSlug("e1", "salt2") {
		t.Error("GenerateShareSlug() produced same slug for different salts")
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"zero bytes", []byte{0, 0, 0, 0}, "0"},
		{"one", []byte{0, 0, 0, 1}, "1"},
		{"sixty-two", []byte{62}, "10"},
		{"max uint64", []byte{255, 255, 255, 255, 255, 255, 255, 255}, "lYGhA16ahyf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base62Encode(tt.input); got != tt.expected {
				t.Errorf("base62Encode(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHashIP(t *testing.T) {
	h1 := HashIP("192.168.1.1", "ip-salt")
	if len(h1) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(h1))
	}
	if h1 != HashIP("192.168.1.1", "ip-salt") {
		t.Error("HashIP() is not deterministic")
	}
	if h1 == HashIP("192.168.1.2", "ip-salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}
}
