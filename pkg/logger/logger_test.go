package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesJSONWithServiceAndComponent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf, Service: "user-registry"})

	audit := Component("audit")
	audit.Debug().Str("username", "admin").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry["service"] != "user-registry" || entry["component"] != "audit" {
		t.Fatalf("missing fields: %v", entry)
	}
	if entry["level"] != "debug" || entry["message"] != "hello" || entry["username"] != "admin" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "error", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	l := Get()
	l.Error().Msg("kept")
	l.Info().Msg("filtered")

	if second.Len() != 0 {
		t.Fatalf("second Init must not replace the logger")
	}
	if !bytes.Contains(first.Bytes(), []byte("kept")) || bytes.Contains(first.Bytes(), []byte("filtered")) {
		t.Fatalf("unexpected output: %s", first.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
