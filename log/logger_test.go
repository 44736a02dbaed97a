package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	type spec struct {
		name string
		exp  Level
	}
	specs := []spec{
		{"debug", Debug},
		{"Info", Info},
		{"notice", Notice},
		{"warn", Warning},
		{"WARNING", Warning},
		{"error", Error},
	}

	for index, s := range specs {
		got, err := ParseLevel(s.name)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if got != s.exp {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.exp, got)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestSetLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)
	defer SetLevel(Notice)

	logger := New("level test")
	SetLevel(Warning)
	logger.Info("hidden")
	logger.Warning("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected log output %q", out)
	}
}
