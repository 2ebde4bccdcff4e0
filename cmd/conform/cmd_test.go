package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conformal-tools/conform/domain"
)

func TestValidateCmd_FlagsExist(t *testing.T) {
	cmd := validateCmd()

	expectedFlags := []string{
		"path", "config", "format", "json", "threshold", "iteration",
		"max-iterations", "profile-cache", "auto-build", "refresh",
		"verbose", "output",
	}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestValidateCmd_ShortFlags(t *testing.T) {
	cmd := validateCmd()

	shortFlags := map[string]string{
		"p": "path",
		"c": "config",
		"f": "format",
		"v": "verbose",
		"o": "output",
	}

	for short, long := range shortFlags {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestCheckCmd_FlagsExist(t *testing.T) {
	cmd := checkCmd()

	expectedFlags := []string{"path", "config", "threshold", "json", "verbose", "refresh"}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestCheckExitError_Error(t *testing.T) {
	err := &CheckExitError{Code: 1, Message: "test error"}
	if err.Error() != "test error" {
		t.Errorf("Error() should return message, got '%s'", err.Error())
	}
}

func TestProfileCmd_FlagsExist(t *testing.T) {
	cmd := profileCmd()

	expectedFlags := []string{"config", "format", "cache", "max-files", "refresh", "output"}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestProfileCmd_DefaultValues(t *testing.T) {
	cmd := profileCmd()

	formatFlag := cmd.Flags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("format flag not found")
	}
	if formatFlag.DefValue != "json" {
		t.Errorf("Expected default format to be 'json', got '%s'", formatFlag.DefValue)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		json       bool
		configured string
		expected   domain.OutputFormat
		wantErr    bool
	}{
		{"default", "", false, "", domain.OutputFormatNarrativeDetailed, false},
		{"json shorthand wins", "summary", true, "", domain.OutputFormatStructured, false},
		{"summary", "summary", false, "", domain.OutputFormatNarrativeSummary, false},
		{"json by name", "json", false, "", domain.OutputFormatStructured, false},
		{"yaml", "yaml", false, "", domain.OutputFormatYAML, false},
		{"yml alias", "yml", false, "", domain.OutputFormatYAML, false},
		{"configured default", "", false, "narrative-summary", domain.OutputFormatNarrativeSummary, false},
		{"flag beats config", "json", false, "narrative-summary", domain.OutputFormatStructured, false},
		{"unknown", "csv", false, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.flag, tt.json, tt.configured)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("resolveFormat() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestVersionCmd_ShortFlag(t *testing.T) {
	cmd := versionCmd()

	flag := cmd.Flags().ShorthandLookup("v")
	if flag == nil {
		t.Error("Missing short flag -v for --verbose")
	}
}

func TestInitCmd_CreatesConfig(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "conform.yml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestInitCmd_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "conform.yml")
	if err := os.WriteFile(target, []byte("validation:\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", target})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "conform.yml")
	if err := os.WriteFile(target, []byte("validation:\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", target, "--force"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(content) < 100 {
		t.Errorf("expected a generated template, got %d bytes", len(content))
	}
}

func TestInitCmd_MissingParentDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nope", "conform.yml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", target})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for missing parent directory")
	}
}
