// File: internal/logging/logging_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_ConsoleRespectsVerbosity(t *testing.T) {
	var console bytes.Buffer
	log := New(&console, nil, NewLevels(0))
	log.Info("visible")
	log.V(1).Info("hidden")
	out := console.String()
	if !strings.Contains(out, "visible") {
		t.Errorf("Expected info line, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected V(1) line to be filtered, got %q", out)
	}
}

func TestNew_FileIsJSONAndMoreVerbose(t *testing.T) {
	var console, file bytes.Buffer
	log := New(&console, &file, NewLevels(0))
	log.V(1).Info("Worker hop", "from", 5, "to", 9)

	if strings.Contains(console.String(), "Worker hop") {
		t.Errorf("Expected console to drop V(1)")
	}
	line := strings.TrimSpace(file.String())
	if line == "" {
		t.Fatal("Expected a file entry")
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Expected JSON entry, got %q: %v", line, err)
	}
	if entry["from"] != float64(5) || entry["to"] != float64(9) {
		t.Errorf("Unexpected fields %v", entry)
	}
}

func TestNewLevels_Clamp(t *testing.T) {
	l := NewLevels(500)
	if int8(l.Console.Level()) != -127 {
		t.Errorf("Expected console clamped to -127, got %d", l.Console.Level())
	}
	if int8(NewLevels(-3).Console.Level()) != 0 {
		t.Errorf("Expected negative verbosity clamped to 0")
	}
}
