package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledLoggerIsSafe(t *testing.T) {
	l, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Log(ActionShow, "about", map[string]interface{}{"window": 42})
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A nil logger must also be safe.
	var nilLogger *Logger
	nilLogger.Log(ActionShow, "about", nil)
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestLogWritesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := New(Config{Enabled: true, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	l.Log(ActionCreate, "about", map[string]interface{}{
		"window": 7,
		"title":  "About",
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "[CREATE]") {
		t.Fatalf("missing action in %q", line)
	}
	if !strings.Contains(line, "role=about") {
		t.Fatalf("missing role in %q", line)
	}
	// Details in sorted key order: title before window.
	if strings.Index(line, "title=") > strings.Index(line, "window=") {
		t.Fatalf("expected sorted detail keys in %q", line)
	}
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := New(Config{Enabled: true, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	// Force the size over the limit so the next Log rotates.
	l.currentSize = 2 * 1024 * 1024
	l.Log(ActionShow, "about", nil)

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log after rotation: %v", err)
	}
	if !strings.Contains(string(data), "[SHOW]") {
		t.Fatalf("expected entry in fresh file, got %q", string(data))
	}
}
