package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupLevel(t *testing.T) {
	defer Setup("info", "production")

	Setup("debug", "production")
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}

	Setup("not-a-level", "production")
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("unknown level should fall back to info, got %v", log.GetLevel())
	}
}

func TestFieldsAreStructured(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithActivity("Running, 6 mph").WithField("rows", 3).Warn("repaired labels")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["activity"] != "Running, 6 mph" {
		t.Errorf("activity field = %v", entry["activity"])
	}
	if entry["level"] != "warning" {
		t.Errorf("level field = %v, want warning", entry["level"])
	}
	if entry["msg"] != "repaired labels" {
		t.Errorf("msg field = %v", entry["msg"])
	}
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "metriburn.log")
	closer, err := ToFile(path)
	if err != nil {
		t.Fatalf("ToFile() error = %v", err)
	}
	Info("hello file")
	closer.Close()
	SetOutput(os.Stderr)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Errorf("log file does not contain message: %q", string(data))
	}
}
