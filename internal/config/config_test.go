package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOMECART_PORT", "")
	t.Setenv("HOMECART_DB_PATH", "")
	t.Setenv("HOMECART_LOG_LEVEL", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DBPath != "homecart.db" {
		t.Errorf("db path = %q, want homecart.db", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HOMECART_PORT", "9090")
	t.Setenv("HOMECART_DB_PATH", "/tmp/test.db")
	t.Setenv("HOMECART_LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("db path = %q, want /tmp/test.db", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
}
