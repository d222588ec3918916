package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"ptask/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")
	dir := t.TempDir()

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != config.DefaultAPIURL {
		t.Errorf("expected %q, got %q", config.DefaultAPIURL, cfg.APIURL)
	}
	if cfg.SessionPath() != filepath.Join(dir, "session.json") {
		t.Errorf("unexpected session path %q", cfg.SessionPath())
	}
}

func TestNew_ReadsConfigFile(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")
	dir := t.TempDir()
	yaml := "api_url: https://tasks.example.com\ndebug: true\n"
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "https://tasks.example.com" {
		t.Errorf("unexpected api url %q", cfg.APIURL)
	}
	if !cfg.Debug {
		t.Error("expected debug from config file")
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("api_url: https://file.example.com\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvAPIURL, "http://env.example.com:9000")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://env.example.com:9000" {
		t.Errorf("unexpected api url %q", cfg.APIURL)
	}
}

func TestNew_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("api_url: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := config.New(dir); err == nil {
		t.Error("expected an error for malformed config.yaml")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := config.DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "ptask") {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestSetAPIURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "http://localhost:8080", false},
		{"https://tasks.example.com/", "https://tasks.example.com", false},
		{"  https://tasks.example.com//  ", "https://tasks.example.com", false},
		{"localhost:8080", "", true},
		{"ftp://example.com", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cfg := &config.Config{APIURL: config.DefaultAPIURL}
			err := cfg.SetAPIURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetAPIURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.APIURL != tt.want {
				t.Errorf("expected %q, got %q", tt.want, cfg.APIURL)
			}
		})
	}
}
