package lpglsl

import (
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/builtin"
)

// RunMode selects the execution backend a compiled Executable targets,
// per spec.md §6's "HostJit" / "Emulator{...}" option.
type RunMode int

const (
	RunModeHostJit RunMode = iota
	RunModeEmulator
)

func (m RunMode) String() string {
	if m == RunModeEmulator {
		return "emulator"
	}
	return "host_jit"
}

// CompileOptions is spec.md §6's "options" parameter to compile(). Field
// tags let cmd/lpglslc load a project-level override file with
// BurntSushi/toml (the teacher's own config-loading library), the way a
// shader pipeline's build tool typically layers a TOML profile on top of
// hardcoded defaults rather than requiring every flag on the command
// line.
type CompileOptions struct {
	RunMode RunMode `toml:"-"`

	DecimalFormat builtin.DecimalFormat `toml:"-"`

	MaxMemoryBytes  int    `toml:"max_memory_bytes"`
	StackSizeBytes  int    `toml:"stack_size_bytes"`
	MaxInstructions int    `toml:"max_instructions"`
	LogLevel        string `toml:"log_level"`
	ErrorLimit      int    `toml:"error_limit"`
}

// DefaultOptions is compile()'s baseline: host JIT target, Q32 decimal
// format (the only format Compile accepts, for either run mode),
// a generous but bounded instruction budget, and a 32-diagnostic cap per
// spec.md §7.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		RunMode:         RunModeHostJit,
		DecimalFormat:   builtin.DecimalFormatQ32,
		MaxMemoryBytes:  4 * 1024 * 1024,
		StackSizeBytes:  64 * 1024,
		MaxInstructions: 10_000_000,
		LogLevel:        "off",
		ErrorLimit:      32,
	}
}

// LoadOptionsFile layers a TOML override file on top of DefaultOptions,
// for CLI entry points that accept a project config instead of (or in
// addition to) flags. Only the tagged numeric/log fields are
// file-configurable; RunMode and DecimalFormat are always set
// programmatically by the caller (a TOML file mis-toggling the emulator
// target is exactly the kind of surprise-at-a-distance this keeps out).
func LoadOptionsFile(path string) (CompileOptions, error) {
	opts := DefaultOptions()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return opts, errors.Wrapf(err, "loading options file %q", path)
	}
	return opts, nil
}

// SlogLevel maps LogLevel's string form to a *slog.Logger level, for the
// emulator executable's Machine.Logging wiring.
func (o CompileOptions) SlogLevel() (slog.Level, bool) {
	switch o.LogLevel {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
