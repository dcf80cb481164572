package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sysdesign/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("log output = %q", out)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("Seeded 3 locations")

	if !strings.Contains(buf.String(), "Seeded 3 locations (") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestRegisterHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	var buf bytes.Buffer
	registerHooks(newLogger(&buf, log.DebugLevel))
	ctx := context.Background()

	observability.Overlay().OnOpen(observability.KindModal, "dialog-1")
	observability.Overlay().OnPosition(observability.KindDropdown, "menu", "top", true)
	observability.Search().OnLookup(ctx, "ber", 3, time.Millisecond)
	observability.Search().OnLookupError(ctx, "ber", fmt.Errorf("boom"))
	observability.Cache().OnCacheMiss(ctx, "lookup")
	observability.HTTP().OnResponse(ctx, "GET", "localhost", "/api/locations", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"overlay open", "dialog-1",
		"overlay position", "flipped=true",
		"lookup", "results=3",
		"lookup failed", "boom",
		"cache miss",
		"http response", "status=200",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
