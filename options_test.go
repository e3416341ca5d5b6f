package lpglsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ledfx/lpglsl/builtin"
)

func TestLoadOptionsFileOverridesNumericFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lpglsl.toml")
	toml := `
max_memory_bytes = 1048576
max_instructions = 500000
log_level = "debug"
error_limit = 4
`
	if err := os.WriteFile(path, []byte(toml), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	opts, err := LoadOptionsFile(path)
	if err != nil {
		t.Fatalf("LoadOptionsFile: %v", err)
	}
	if opts.MaxMemoryBytes != 1048576 {
		t.Errorf("MaxMemoryBytes = %d, want 1048576", opts.MaxMemoryBytes)
	}
	if opts.MaxInstructions != 500000 {
		t.Errorf("MaxInstructions = %d, want 500000", opts.MaxInstructions)
	}
	if opts.ErrorLimit != 4 {
		t.Errorf("ErrorLimit = %d, want 4", opts.ErrorLimit)
	}
	// RunMode/DecimalFormat are toml:"-" and must stay at their defaults
	// regardless of what the file contains.
	if opts.RunMode != RunModeHostJit {
		t.Errorf("RunMode = %v, want RunModeHostJit (not file-configurable)", opts.RunMode)
	}
	if opts.DecimalFormat != builtin.DecimalFormatQ32 {
		t.Errorf("DecimalFormat = %v, want DecimalFormatQ32 (not file-configurable)", opts.DecimalFormat)
	}
}

func TestSlogLevelMapsKnownStrings(t *testing.T) {
	opts := DefaultOptions()
	opts.LogLevel = "warn"
	level, ok := opts.SlogLevel()
	if !ok {
		t.Fatal("expected \"warn\" to map to a known level")
	}
	if level.String() != "WARN" {
		t.Errorf("level = %v, want WARN", level)
	}
}

func TestSlogLevelRejectsUnknownString(t *testing.T) {
	opts := DefaultOptions()
	opts.LogLevel = "off"
	if _, ok := opts.SlogLevel(); ok {
		t.Fatal("\"off\" must not map to a logging level")
	}
}

func TestRunModeString(t *testing.T) {
	if RunModeHostJit.String() != "host_jit" {
		t.Errorf("RunModeHostJit.String() = %q", RunModeHostJit.String())
	}
	if RunModeEmulator.String() != "emulator" {
		t.Errorf("RunModeEmulator.String() = %q", RunModeEmulator.String())
	}
}
