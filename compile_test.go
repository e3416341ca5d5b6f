package lpglsl

import (
	"testing"

	"github.com/ledfx/lpglsl/builtin"
	"github.com/ledfx/lpglsl/q32"
)

func TestCompileHostJitRunsSquare(t *testing.T) {
	src := `
float square(float x) {
    return x * x;
}
`
	exe, err := Compile(src, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	result, err := exe.Call("square", []int32{q32.FromFloat32(3)})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("got %d results, want 1", len(result))
	}
	got := q32.ToFloat32(result[0])
	if got < 8.99 || got > 9.01 {
		t.Fatalf("square(3) = %v, want ~9", got)
	}
}

func TestCompileRejectsSyntaxError(t *testing.T) {
	_, err := Compile("float broken(", DefaultOptions())
	if err == nil {
		t.Fatal("expected a parse error, got nil")
	}
}

func TestCompileRejectsSemanticError(t *testing.T) {
	src := `
void main() {
    float y = doesNotExist(1.0);
}
`
	_, err := Compile(src, DefaultOptions())
	if err == nil {
		t.Fatal("expected a semantic-analysis error, got nil")
	}
}

func TestCompileRejectsEmulatorFloatFormat(t *testing.T) {
	opts := DefaultOptions()
	opts.RunMode = RunModeEmulator
	opts.DecimalFormat = builtin.DecimalFormatFloat
	_, err := Compile("float f(float x) { return x; }", opts)
	if err == nil {
		t.Fatal("expected emulator+float to be rejected up front")
	}
}

func TestCompileRejectsEmulatorWithoutBuiltinsImage(t *testing.T) {
	opts := DefaultOptions()
	opts.RunMode = RunModeEmulator
	_, err := Compile("float f(float x) { return x; }", opts)
	if err == nil {
		t.Fatal("expected a missing-builtins-image error")
	}
}
