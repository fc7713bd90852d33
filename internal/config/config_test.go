package config

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"empty", "", ""},
		{"short fully masked", "abc123", maskedValue},
		{"exactly eight fully masked", "12345678", maskedValue},
		{"long shows edges", "my_long_secret_key_123", "my<" + maskedValue + ">23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskSecret(tt.secret); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestMarshalJSON_MasksAPIKey(t *testing.T) {
	c := validConfig()
	c.APIKey = "AIzaSyFakeKeyForTesting123"

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(data)
	if strings.Contains(s, "FakeKeyForTesting") {
		t.Errorf("marshaled config leaks API key: %s", s)
	}
	if !strings.Contains(s, maskedValue) {
		t.Errorf("marshaled config missing mask placeholder: %s", s)
	}
	// Non-sensitive fields survive unmasked
	if !strings.Contains(s, "gemini-2.5-flash") {
		t.Errorf("marshaled config missing model name: %s", s)
	}
}
