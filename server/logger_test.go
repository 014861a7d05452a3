package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitLoggerWritesFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "slime.log")
	if err := InitLogger(LogConfig{File: path, Level: "info", MaxSizeMB: 1}); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	Log.Debugf("hidden %d", 1)
	Log.Infof("visible %d", 2)
	SyncLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "visible 2") {
		t.Fatalf("expected info line in log, got %q", out)
	}
	if strings.Contains(out, "hidden 1") {
		t.Fatalf("debug line should be filtered at info level")
	}
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })
	if err := InitLogger(LogConfig{Level: "chatty"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	SetLogger(zap.NewNop())
}
