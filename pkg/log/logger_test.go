package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Notice)
	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Notice("visible notice")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug/info to be filtered at notice level, got %q", out)
	}
	if !strings.Contains(out, "visible notice") || !strings.Contains(out, "[test]") {
		t.Errorf("Expected notice message tagged with module, got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("scanlines remaining: %d", 3)
	if !strings.Contains(buf.String(), "scanlines remaining: 3") {
		t.Errorf("Expected debug output after raising verbosity, got %q", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	defer SetLevel(Notice)

	SetLevel(Info)
	if !Enabled(Info) || !Enabled(Error) {
		t.Error("Expected info and error enabled at info level")
	}
	if Enabled(Debug) {
		t.Error("Expected debug disabled at info level")
	}
}

func TestSetSinkPreservesLevel(t *testing.T) {
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	SetLevel(Debug)
	var buf bytes.Buffer
	SetSink(&buf)
	if !Enabled(Debug) {
		t.Error("Expected SetSink to keep the debug level")
	}
}
