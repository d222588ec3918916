package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	New(&buf, false).Warn("shown", "k", "v")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug message leaked without --debug: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), "k=v") {
		t.Errorf("expected warning with attrs, got %q", buf.String())
	}

	buf.Reset()
	New(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug message with --debug, got %q", buf.String())
	}
}
