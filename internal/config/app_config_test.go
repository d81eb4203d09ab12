package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/promptpack/internal/config"
)

func writeConfigFile(t *testing.T, filePath string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadApplicationConfigurationLocalOverridesGlobal(t *testing.T) {
	homeDirectory := t.TempDir()
	workingDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)

	writeConfigFile(t, filepath.Join(homeDirectory, ".promptpack", ".promptpack.yaml"), `
assemble:
  skip_related: true
  truncate_lines: 250
  tokens:
    model: gpt-4o
`)
	writeConfigFile(t, filepath.Join(workingDirectory, ".promptpack.yaml"), `
assemble:
  skip_related: false
  exclude:
    - vendor
`)

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
	})
	if loadError != nil {
		t.Fatalf("load configuration: %v", loadError)
	}

	if loaded.Assemble.SkipRelated == nil || *loaded.Assemble.SkipRelated {
		t.Fatal("expected local skip_related=false to override the global value")
	}
	if loaded.Assemble.TruncateLines == nil || *loaded.Assemble.TruncateLines != 250 {
		t.Fatal("expected global truncate_lines to survive the merge")
	}
	if loaded.Assemble.Tokens.Model != "gpt-4o" {
		t.Fatalf("expected global token model retained, got %q", loaded.Assemble.Tokens.Model)
	}
	if len(loaded.Assemble.Exclude) != 1 || loaded.Assemble.Exclude[0] != "vendor" {
		t.Fatalf("expected local exclude list, got %v", loaded.Assemble.Exclude)
	}
}

func TestLoadApplicationConfigurationMissingFilesYieldDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: t.TempDir(),
	})
	if loadError != nil {
		t.Fatalf("load configuration: %v", loadError)
	}
	if loaded.Assemble.SkipRelated != nil || loaded.Assemble.TruncateLines != nil {
		t.Fatal("expected unset optional fields when no configuration file exists")
	}
}

func TestLoadApplicationConfigurationExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	explicitPath := filepath.Join(workingDirectory, "custom.yaml")
	writeConfigFile(t, explicitPath, `
assemble:
  include_hidden: true
`)

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: "custom.yaml",
	})
	if loadError != nil {
		t.Fatalf("load configuration: %v", loadError)
	}
	if loaded.Assemble.IncludeHidden == nil || !*loaded.Assemble.IncludeHidden {
		t.Fatal("expected include_hidden from the explicit configuration file")
	}
}

func TestMergeOverlaysOnlySetFields(t *testing.T) {
	baseSkip := true
	baseLines := 100
	base := config.ApplicationConfiguration{
		Assemble: config.AssembleConfiguration{
			SkipRelated:   &baseSkip,
			TruncateLines: &baseLines,
			Exclude:       []string{"vendor"},
		},
	}
	overrideLines := 50
	override := config.ApplicationConfiguration{
		Assemble: config.AssembleConfiguration{
			TruncateLines: &overrideLines,
		},
	}

	merged := base.Merge(override)
	if merged.Assemble.SkipRelated == nil || !*merged.Assemble.SkipRelated {
		t.Fatal("expected unset override to leave skip_related intact")
	}
	if merged.Assemble.TruncateLines == nil || *merged.Assemble.TruncateLines != 50 {
		t.Fatal("expected override truncate_lines to win")
	}
	if len(merged.Assemble.Exclude) != 1 || merged.Assemble.Exclude[0] != "vendor" {
		t.Fatalf("expected base exclude list retained, got %v", merged.Assemble.Exclude)
	}
}
