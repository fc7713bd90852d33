package mcp

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/darshil0/FinAgent-Pro/internal/history"
	"github.com/darshil0/FinAgent-Pro/internal/log"
	"github.com/darshil0/FinAgent-Pro/internal/query"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Name:    "test-server",
		Version: "1.0.0",
		Query:   query.NewService(nil, log.NewNop()),
		History: history.NewStore(filepath.Join(t.TempDir(), "history.json"), log.NewNop()),
	}
}

func TestNewServer_Success(t *testing.T) {
	server, err := NewServer(validConfig(t))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if server.name != "test-server" {
		t.Errorf("server.name = %q, want %q", server.name, "test-server")
	}
	if server.version != "1.0.0" {
		t.Errorf("server.version = %q, want %q", server.version, "1.0.0")
	}
	if server.mcpServer == nil {
		t.Error("server.mcpServer is nil")
	}
	if server.service == nil {
		t.Error("server.service is nil")
	}
	if server.store == nil {
		t.Error("server.store is nil")
	}
}

func TestNewServer_ValidationErrors(t *testing.T) {
	valid := validConfig(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing name", func(c *Config) { c.Name = "" }, "server name is required"},
		{"missing version", func(c *Config) { c.Version = "" }, "server version is required"},
		{"missing query service", func(c *Config) { c.Query = nil }, "query service is required"},
		{"missing history store", func(c *Config) { c.History = nil }, "history store is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			_, err := NewServer(cfg)
			if err == nil {
				t.Fatal("NewServer succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewServer error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRegisterTools_AllToolsRegistered(t *testing.T) {
	server, err := NewServer(validConfig(t))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	// Tools register in the constructor; a nil-free server means both
	// financeQuery and searchHistory registered without schema errors.
	if server.mcpServer == nil {
		t.Fatal("mcpServer is nil")
	}
}
