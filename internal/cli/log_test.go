package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("Loaded graph", "nodes", 3)

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("log line %q should start with an HH:MM:SS.cc timestamp", line)
	}
	if !strings.Contains(line, "nodes=3") {
		t.Errorf("log line %q should carry key/value pairs", line)
	}
}

func TestVerboseLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     log.Level
		wantDebug bool
	}{
		{"default", log.InfoLevel, false},
		{"verbose", log.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("render cache hit")
			logger.Warn("pass failed")

			out := buf.String()
			if got := strings.Contains(out, "render cache hit"); got != tt.wantDebug {
				t.Errorf("debug output present = %v, want %v", got, tt.wantDebug)
			}
			if !strings.Contains(out, "pass failed") {
				t.Error("warnings are always shown")
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.start = prog.start.Add(-1500 * time.Millisecond)

	prog.done("Ran 3 passes")

	out := buf.String()
	if !strings.Contains(out, "Ran 3 passes (1.5") {
		t.Errorf("progress output %q should report the message and elapsed time", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "s)") {
		t.Errorf("progress output %q should end with a duration", out)
	}
}

func TestProgressHiddenBelowInfo(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.WarnLevel)).done("Ran 1 passes")
	if buf.Len() != 0 {
		t.Errorf("progress should be silent at warn level, got %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should yield log.Default()")
	}

	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	ctx, cancel := context.WithCancel(withLogger(context.Background(), logger))
	defer cancel()

	if loggerFromContext(ctx) != logger {
		t.Fatal("derived contexts should keep the attached logger")
	}
	loggerFromContext(ctx).With("pass", "dce").Info("observing")
	if !strings.Contains(buf.String(), "pass=dce") {
		t.Errorf("output %q should go through the attached logger", buf.String())
	}
}
