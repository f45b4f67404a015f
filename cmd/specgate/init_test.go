package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "specgate.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	// Verify content
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	expectedSections := []string{
		"tools",
		"git",
		"analysis",
		"performance",
		"output",
		"target_branch",
		"min_severity",
	}

	for _, section := range expectedSections {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}
}

func TestInitCommand_ExistingFileWithoutForce(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "specgate.yaml")

	if err := os.WriteFile(configPath, []byte("existing"), 0644); err != nil {
		t.Fatalf("Failed to seed config file: %v", err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected an error when the config file already exists")
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing" {
		t.Error("Existing config file was overwritten without --force")
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "specgate.yaml")

	if err := os.WriteFile(configPath, []byte("existing"), 0644); err != nil {
		t.Fatalf("Failed to seed config file: %v", err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath, "--force"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) == "existing" {
		t.Error("Config file was not overwritten with --force")
	}
}

func TestInitCommand_MinimalTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "specgate.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath, "--minimal"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	full := initCmd()
	fullPath := filepath.Join(tmpDir, "full.yaml")
	full.SetArgs([]string{"--config", fullPath})
	if err := full.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	minimal, _ := os.ReadFile(configPath)
	fullContent, _ := os.ReadFile(fullPath)
	if len(minimal) >= len(fullContent) {
		t.Error("Minimal template should be smaller than the full one")
	}
}

func TestInitCommand_MissingParentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "does-not-exist", "specgate.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected an error for a missing parent directory")
	}
}
