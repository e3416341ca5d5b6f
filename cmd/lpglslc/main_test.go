package main

import (
	"testing"

	"github.com/ledfx/lpglsl/q32"
)

func TestParseArgsEmptyStringYieldsNoArgs(t *testing.T) {
	args, err := parseArgs("")
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if args != nil {
		t.Fatalf("args = %v, want nil", args)
	}
}

func TestParseArgsDecodesCommaSeparatedFloats(t *testing.T) {
	args, err := parseArgs("1.5, -2.25,0")
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if len(args) != 3 {
		t.Fatalf("got %d args, want 3", len(args))
	}
	want := []float32{1.5, -2.25, 0}
	for i, w := range want {
		got := q32.ToFloat32(args[i])
		if got != w {
			t.Errorf("arg %d = %v, want %v", i, got, w)
		}
	}
}

func TestParseArgsRejectsGarbage(t *testing.T) {
	if _, err := parseArgs("not-a-number"); err == nil {
		t.Fatal("expected an error for a non-numeric argument")
	}
}
