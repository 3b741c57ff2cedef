package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Limit != 20 {
		t.Errorf("expected Limit=20, got %d", cfg.Limit)
	}
	if cfg.ExcelPath != "linkedin-data.xlsx" {
		t.Errorf("expected ExcelPath=linkedin-data.xlsx, got %s", cfg.ExcelPath)
	}
	if cfg.Message == "" {
		t.Error("expected a default message")
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("LINKREACH_EMAIL", "")
	t.Setenv("LINKREACH_PASSWORD", "")

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Email = "me@example.com"
	cfg.Limit = 5
	cfg.Headless = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Email != "me@example.com" {
		t.Errorf("expected Email=me@example.com, got %s", loaded.Email)
	}
	if loaded.Limit != 5 {
		t.Errorf("expected Limit=5, got %d", loaded.Limit)
	}
	if !loaded.Headless {
		t.Error("expected Headless=true")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LINKREACH_EMAIL", "env@example.com")
	t.Setenv("LINKREACH_PASSWORD", "env-secret")

	cfg := DefaultConfig()
	cfg.Email = "file@example.com"
	cfg.ApplyEnvOverrides()

	if cfg.Email != "env@example.com" {
		t.Errorf("expected env email override, got %s", cfg.Email)
	}
	if cfg.Password != "env-secret" {
		t.Errorf("expected env password override, got %s", cfg.Password)
	}
}

func TestLoadOrDefault_MissingFileFallsBack(t *testing.T) {
	t.Setenv("LINKREACH_EMAIL", "")
	t.Setenv("LINKREACH_PASSWORD", "")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Limit != 20 {
		t.Errorf("expected default Limit=20, got %d", cfg.Limit)
	}
}

func TestLoadOrDefault_EmptyPathFallsBack(t *testing.T) {
	t.Setenv("LINKREACH_EMAIL", "env@example.com")

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Email != "env@example.com" {
		t.Errorf("expected env override on defaults, got %s", cfg.Email)
	}
}

func TestLoadOrDefault_FileValuesWithEnvPrecedence(t *testing.T) {
	t.Setenv("LINKREACH_EMAIL", "env@example.com")
	t.Setenv("LINKREACH_PASSWORD", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Email = "file@example.com"
	cfg.Password = "file-secret"
	cfg.Limit = 7
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if loaded.Email != "env@example.com" {
		t.Errorf("env must win over the file, got %s", loaded.Email)
	}
	if loaded.Password != "file-secret" {
		t.Errorf("file value must survive without an env override, got %s", loaded.Password)
	}
	if loaded.Limit != 7 {
		t.Errorf("expected file Limit=7, got %d", loaded.Limit)
	}
}

func TestLoadOrDefault_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limit: [not an int"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without credentials")
	}

	cfg.Email = "me@example.com"
	cfg.Password = "hunter2"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Limit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive limit")
	}
}

func TestResolvedExcelPath_AbsolutePassesThrough(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcelPath = "/data/outreach.xlsx"
	got, err := cfg.ResolvedExcelPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/data/outreach.xlsx" {
		t.Errorf("expected absolute path unchanged, got %s", got)
	}
}

func TestResolvedExcelPath_RelativeUsesExecutableDir(t *testing.T) {
	cfg := DefaultConfig()
	got, err := cfg.ResolvedExcelPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute resolved path, got %s", got)
	}
	if filepath.Base(got) != "linkedin-data.xlsx" {
		t.Errorf("expected workbook filename preserved, got %s", got)
	}
}
