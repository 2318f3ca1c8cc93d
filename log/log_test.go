package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevel(t *testing.T) {
	defer std.SetLevel(logrus.InfoLevel)

	if err := Init(Config{Level: "debug"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if std.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", std.GetLevel())
	}

	if err := Init(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if std.GetLevel() != logrus.DebugLevel {
		t.Fatalf("bad level changed logger to %v", std.GetLevel())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithFields(Fields{"map": "a.tmx", "state": "Complete"}).Info("loaded")

	out := buf.String()
	for _, want := range []string{"map=a.tmx", "state=Complete", "loaded"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmx.log")
	if err := Init(Config{Level: "info", File: path, MaxSizeMB: 1}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer SetOutput(os.Stderr)

	Infof("to %s", "file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("log file = %q", data)
	}
}
