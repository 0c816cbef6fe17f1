package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// decodeLines parses the JSON lines written to buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("log line %q is not JSON: %v", raw, err)
		}
		lines = append(lines, line)
	}
	return lines
}

// restoreGlobal puts the global logger and level back after a test.
func restoreGlobal(t *testing.T) {
	t.Helper()
	logger, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	})
}

func TestSetup_ServiceField(t *testing.T) {
	restoreGlobal(t)
	buf := &bytes.Buffer{}

	Setup(Config{Level: LevelInfo, Output: buf})
	log.Info().Msg("dashboard started")

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0]["service"] != ServiceName {
		t.Errorf("service = %v, want %q", lines[0]["service"], ServiceName)
	}
	if _, ok := lines[0]["time"]; !ok {
		t.Error("missing time field")
	}
}

func TestComponentLoggers(t *testing.T) {
	restoreGlobal(t)
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelDebug, Output: buf})

	web := NewLogger("web")
	web.Info().Msg("request")
	screen := ForScreen("grid", "orders")
	screen.Debug().Uint64("generation", 3).Msg("Issuing fetch")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	if lines[0]["component"] != "web" {
		t.Errorf("component = %v, want web", lines[0]["component"])
	}
	if _, ok := lines[0]["screen"]; ok {
		t.Error("NewLogger must not add a screen field")
	}

	want := map[string]any{"service": ServiceName, "component": "grid", "screen": "orders", "generation": float64(3)}
	for k, v := range want {
		if lines[1][k] != v {
			t.Errorf("%s = %v, want %v", k, lines[1][k], v)
		}
	}
}

func TestSetup_LevelFromConfig(t *testing.T) {
	restoreGlobal(t)
	buf := &bytes.Buffer{}
	Setup(Config{Level: "WARN", Output: buf})

	logger := ForScreen("fetcher", "users")
	logger.Info().Msg("List fetched")
	logger.Warn().Msg("List fetch failed")

	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0]["message"] != "List fetch failed" {
		t.Errorf("lines = %v, want only the warning", lines)
	}
}

func TestSetup_UnknownLevelLogsInfo(t *testing.T) {
	restoreGlobal(t)
	Setup(Config{Level: "verbose", Output: &bytes.Buffer{}})

	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level = %v, want info", got)
	}
}

func TestSetup_Pretty(t *testing.T) {
	restoreGlobal(t)
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})

	serve := NewLogger("serve")
	serve.Info().Str("addr", ":8080").Msg("Starting dashboard server")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("pretty output is JSON: %q", out)
	}
	for _, want := range []string{"Starting dashboard server", "addr=:8080", "component=serve"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("pretty output to a buffer must not be coloured: %q", out)
	}
}

func TestSetup_NilOutputUsesStderr(t *testing.T) {
	restoreGlobal(t)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	orig := os.Stderr
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = orig })

	Setup(Config{Level: LevelInfo})
	log.Info().Msg("to stderr")
	w.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	if !strings.Contains(buf.String(), `"message":"to stderr"`) {
		t.Errorf("stderr = %q", buf.String())
	}
}

func TestValidLevel(t *testing.T) {
	tests := map[string]bool{
		"debug":   true,
		"INFO":    true,
		" warn ":  true,
		"warning": true,
		"error":   true,
		"":        false,
		"trace":   false,
		"fatal":   false,
	}
	for in, want := range tests {
		if got := ValidLevel(in); got != want {
			t.Errorf("ValidLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
