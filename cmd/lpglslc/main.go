// Command lpglslc is the lpglsl shader compiler CLI.
//
// Usage:
//
//	lpglslc [options] <input.glsl>
//
// Examples:
//
//	lpglslc shader.glsl                    # Compile and run main() on the host JIT
//	lpglslc -target emulator shader.glsl   # Compile to RV32 and run it on the emulator
//	lpglslc -call f -args 1.5 shader.glsl  # Call an arbitrary exported function
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	lpglsl "github.com/ledfx/lpglsl"
	"github.com/ledfx/lpglsl/q32"
)

var (
	targetFlag  = flag.String("target", "host_jit", "run target: host_jit or emulator")
	configFlag  = flag.String("config", "", "path to a TOML options override file")
	callFlag    = flag.String("call", "main", "function to invoke after compiling")
	argsFlag    = flag.String("args", "", "comma-separated float arguments to the called function")
	budgetFlag  = flag.Int("max-instructions", 0, "instruction budget override (emulator target only; 0 = use config default)")
	versionFlag = flag.Bool("version", false, "print version")
)

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("lpglslc version %s\n", version())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	opts := lpglsl.DefaultOptions()
	if *configFlag != "" {
		opts, err = lpglsl.LoadOptionsFile(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
	switch *targetFlag {
	case "host_jit":
		opts.RunMode = lpglsl.RunModeHostJit
	case "emulator":
		opts.RunMode = lpglsl.RunModeEmulator
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown -target %q (want host_jit or emulator)\n", *targetFlag)
		os.Exit(1)
	}
	if *budgetFlag > 0 {
		opts.MaxInstructions = *budgetFlag
	}

	exe, err := lpglsl.Compile(string(source), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
		os.Exit(1)
	}

	callArgs, err := parseArgs(*argsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -args: %v\n", err)
		os.Exit(1)
	}

	result, err := exe.Call(*callFlag, callArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}

	for i, r := range result {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(q32.ToFloat32(r))
	}
	fmt.Println()
}

// parseArgs decodes comma-separated float literals into Q32-encoded
// int32 call arguments — the Executable.Call boundary always speaks Q32,
// per spec.md §6, regardless of what decimal_format the source GLSL
// compiled under.
func parseArgs(s string) ([]int32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out[i] = q32.FromFloat32(float32(f))
	}
	return out, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: lpglslc [options] <input.glsl>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  lpglslc shader.glsl                     Compile and run on the host JIT\n")
	fmt.Fprintf(os.Stderr, "  lpglslc -target emulator shader.glsl     Compile and run on the RV32 emulator\n")
	fmt.Fprintf(os.Stderr, "  lpglslc -call f -args 1.5 shader.glsl    Call an exported function\n")
}
