// Package lpglsl is the root compile() facade spec.md §6 describes:
// parse -> semantic analysis -> IR lowering -> Q32 transform -> target
// emission, producing an Executable runnable either on the host JIT or
// the RV32 emulator. Ambient concerns (logging via log/slog, error
// wrapping via github.com/pkg/errors, config loading via
// github.com/BurntSushi/toml) are wired at this boundary rather than
// scattered through the compiler passes themselves, the way the
// teacher's own top-level package documents its pipeline.
package lpglsl

import (
	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/builtin"
	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/glsl/semantic"
	"github.com/ledfx/lpglsl/ir"
	"github.com/ledfx/lpglsl/lower"
	"github.com/ledfx/lpglsl/q32xform"
	"github.com/ledfx/lpglsl/rv32elf"
	"github.com/ledfx/lpglsl/target"
)

// builtinsImage is the baked-in "builtins executable" ELF blob spec.md
// §6 describes ("baked into the binary at build time"). It starts nil;
// a build step (or a test fixture) calls SetBuiltinsImage to install it
// before any RunModeEmulator compile is attempted. A nil image makes
// every emulator-target compile fail with the clear diagnostic spec.md
// §6 asks for, rather than a panic deep in the loader.
var builtinsImage []byte

// SetBuiltinsImage installs the prebuilt builtins ELF blob emulator
// compiles link against. Exposed as a package-level setter (rather than
// a CompileOptions field) because the blob is build-time, binary-wide
// state, not a per-compile choice.
func SetBuiltinsImage(blob []byte) { builtinsImage = blob }

// Compile runs the full pipeline spec.md §4 lays out and returns a ready
// Executable. Front-end errors (parse/semantic) are returned as
// *semantic.GlslDiagnostics (itself a valid error), distinguished from
// the terminal IR/linking failures (E03xx/E04xx, spec.md §7) which
// compile returns as plain wrapped errors — a caller that only checks
// "err != nil" still works, but one that wants to render a diagnostics
// block with carets can type-assert.
func Compile(source string, opts CompileOptions) (Executable, error) {
	if opts.DecimalFormat == builtin.DecimalFormatFloat {
		return nil, errors.Errorf("E0400: Float format is not yet supported (run mode %v)", opts.RunMode)
	}

	lexer := glsl.NewLexer(source)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, errors.Wrap(err, "E0100: lexing source")
	}

	parser := glsl.NewParser(tokens, source)
	astModule, err := parser.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "E0100: parsing source")
	}

	shader, diags := semantic.Analyze(astModule, source, opts.ErrorLimit)
	if diags.HasErrors() {
		return nil, diags
	}

	target_ := ir.TargetDesc{ISA: ir.ISAHost, PointerWidth: 8, DefaultCC: ir.SystemV}
	if opts.RunMode == RunModeEmulator {
		target_ = ir.TargetDesc{ISA: ir.ISARV32, PointerWidth: 4, DefaultCC: ir.SystemV}
	}

	mod, err := lower.Lower(shader, "shader", target_)
	if err != nil {
		return nil, errors.Wrap(err, "E0301: lowering to IR")
	}

	if opts.DecimalFormat == builtin.DecimalFormatQ32 {
		mod, err = q32xform.Transform(mod)
		if err != nil {
			return nil, errors.Wrap(err, "E0301: Q32 transform")
		}
	}

	switch opts.RunMode {
	case RunModeHostJit:
		return compileHostJit(mod, opts)
	case RunModeEmulator:
		return compileEmulator(mod, opts)
	default:
		return nil, errors.Errorf("E0400: unknown run mode %v", opts.RunMode)
	}
}

func compileHostJit(mod *ir.Module, opts CompileOptions) (Executable, error) {
	host := map[string]target.HostFn{
		"__host_log": func(args []int32) ([]int32, error) { return nil, nil },
	}
	img, err := target.NewJitImage(mod, host, opts.DecimalFormat)
	if err != nil {
		return nil, errors.Wrap(err, "E0400: building JIT image")
	}
	return img, nil
}

func compileEmulator(mod *ir.Module, opts CompileOptions) (Executable, error) {
	if len(builtinsImage) == 0 {
		return nil, errors.New("E0400: builtins image is empty; install one with SetBuiltinsImage before compiling for the emulator target")
	}

	obj, err := target.NewRv32Object(mod)
	if err != nil {
		return nil, errors.Wrap(err, "E0400: emitting RV32 object")
	}

	loaded, err := rv32elf.Load(builtinsImage, obj.Bytes, builtin.AllSymbols())
	if err != nil {
		return nil, errors.Wrap(err, "E0400: loading RV32 object into emulator image")
	}

	return NewEmulatorExecutable(loaded, mod, opts), nil
}
