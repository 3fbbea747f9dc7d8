package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hsrv/checkhttp/internal/logging"
)

func TestNew_disabled(t *testing.T) {
	logger, cleanup, err := logging.New(logging.Options{})
	if err != nil {
		t.Fatalf("failed to build logger: %s", err)
	}
	defer cleanup()

	// Must not panic or write anywhere.
	logger.Info("hello")
}

func TestNew_logFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "check.log")

	logger, cleanup, err := logging.New(logging.Options{LogFile: path})
	if err != nil {
		t.Fatalf("failed to build logger: %s", err)
	}

	logger.Info("probe finished", zap.String("target", "https://example.com"))
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %s", err)
	}

	line := string(data)
	for _, want := range []string{`"msg":"probe finished"`, `"target":"https://example.com"`, `"ts":`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line should contain %s: %s", want, line)
		}
	}
}
