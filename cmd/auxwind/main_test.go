package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunConfigValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	good := `roles:
  scratch:
    title: Scratch
    width: 500
    height: 300
`
	if err := os.WriteFile(path, []byte(good), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if rc := runConfig([]string{"validate", "--path", path}); rc != 0 {
		t.Fatalf("validate rc=%d, want 0", rc)
	}

	bad := `roles:
  scratch:
    title: Scratch
    width: 0
    height: 300
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if rc := runConfig([]string{"validate", "--path", path}); rc != 1 {
		t.Fatalf("validate rc=%d for invalid config, want 1", rc)
	}
}

func TestRunConfigValidateRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := `roles:
  scratch:
    title: Scratch
    widht: 500
    height: 300
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if rc := runConfig([]string{"validate", "--path", path}); rc != 1 {
		t.Fatalf("validate rc=%d for misspelled key, want 1", rc)
	}
}

func TestValidateDimension(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"400", false},
		{" 500 ", false},
		{"0", true},
		{"-1", true},
		{"abc", true},
		{"", true},
	}
	for _, tc := range cases {
		err := validateDimension(tc.in)
		if tc.wantErr && err == nil {
			t.Errorf("validateDimension(%q): expected error", tc.in)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("validateDimension(%q): %v", tc.in, err)
		}
	}
}
