// Package builtin is the closed registry of every __lp_q32_* and
// __lpfx_*_q32 runtime symbol the Q32 transform (q32xform) may call into,
// and the GLSL-name -> symbol table semantic analysis and lowering use to
// recognize builtin calls (spec.md §4.4). It is the single place that
// binds a builtin's external symbol name to its actual Go implementation,
// so the JIT interpreter (target) and the RV32 emulator's builtin-ecall
// trampoline (emu) share one tested code path per builtin instead of two.
//
// The BuiltinId enum and the two lookup tables below are hand-authored in
// the shape cmd/lpglsl-builtin-gen would emit from the //lpfx:impl
// annotations on lpfx's Go functions (ported from the original source's
// lpfx_impl_macro/lp-builtin-gen annotation-driven registry generator);
// see zz_generated_registry.go.
package builtin

import (
	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/q32"
)

// BuiltinId is a dense, stable identifier for one runtime builtin. The
// underlying type and ordering are never relied on for anything other
// than being a valid Fn/Symbol/DecimalFormat table index.
type BuiltinId uint16

// Fn is a builtin's calling convention at the registry boundary: every
// argument and result is a raw Q16.16 int32, matching the RV32 ABI and
// the JIT interpreter's value representation once the Q32 transform has
// run. Builtins with a vector result return every component in the
// result slice; ResultWidth reports how many that is.
type Fn func(args []int32) []int32

// DecimalFormat mirrors ir-level compile options: which numeric encoding
// a module's builtins resolve against (spec.md §6).
type DecimalFormat int

const (
	// DecimalFormatFloat is intentionally left without a populated
	// BuiltinId table: decimal_format=Float is rejected at compile() time
	// (SPEC_FULL.md §6, §9 Open Questions) rather than ever reaching a
	// builtin call, since this registry only ever stores fixed-point
	// implementations.
	DecimalFormatFloat DecimalFormat = iota
	DecimalFormatQ32
)

// ErrUnknownBuiltin is wrapped into the error Call returns for an id this
// registry does not recognize; Lookup and ResolveGLSLName report a miss
// through their bool result instead.
var ErrUnknownBuiltin = errors.New("builtin: unknown symbol")

// These tables are populated by zz_generated_registry.go's
// init(), keeping this file free of the (long, mechanical) per-builtin
// listing.
var (
	symbolByID   = map[BuiltinId]string{}
	idBySymbol   = map[string]BuiltinId{}
	fnByID       = map[BuiltinId]Fn{}
	resultWidth  = map[BuiltinId]int{}
	glslNameToID = map[string]BuiltinId{} // Q32 decimal format only
)

// register is called only from zz_generated_registry.go's init(); it
// panics on a duplicate id or symbol since that indicates a generator
// bug, not a runtime condition callers should recover from.
func register(id BuiltinId, symbol string, results int, fn Fn) {
	if _, dup := symbolByID[id]; dup {
		panic("builtin: duplicate BuiltinId " + symbol)
	}
	if _, dup := idBySymbol[symbol]; dup {
		panic("builtin: duplicate symbol " + symbol)
	}
	symbolByID[id] = symbol
	idBySymbol[symbol] = id
	fnByID[id] = fn
	resultWidth[id] = results
}

// bindGLSLName records that glslName (e.g. "sin", "lpfx_hue2rgb"), called
// under decimal_format=Q32, resolves to id.
func bindGLSLName(glslName string, id BuiltinId) {
	glslNameToID[glslName] = id
}

// Symbol returns id's external linkage name (e.g. "__lp_q32_sin").
func Symbol(id BuiltinId) (string, bool) {
	s, ok := symbolByID[id]
	return s, ok
}

// ResultWidth returns how many flattened i32 words id's call convention
// returns (1 for scalars, 3/4 for vec3/vec4 via the hidden output
// pointer).
func ResultWidth(id BuiltinId) int { return resultWidth[id] }

// Lookup resolves an external symbol name (as it appears on an
// ir.Instruction's Callee field after q32xform has rewritten it) to its
// BuiltinId.
func Lookup(symbol string) (BuiltinId, bool) {
	id, ok := idBySymbol[symbol]
	return id, ok
}

// ResolveGLSLName resolves a GLSL-level builtin call name (e.g. "sin",
// "atan", "lpfx_hue2rgb") to the BuiltinId it compiles to under the given
// decimal format. DecimalFormatFloat never resolves, by construction —
// decimal_format=Float is rejected before any builtin call is lowered.
func ResolveGLSLName(format DecimalFormat, name string) (BuiltinId, bool) {
	if format != DecimalFormatQ32 {
		return 0, false
	}
	id, ok := glslNameToID[name]
	return id, ok
}

// AllSymbols returns every registered builtin's external linkage name, for
// rv32elf's post-load verification that the merged symbol map defines
// every symbol the registry promises (spec.md §4.6's "required builtin
// symbol" check).
func AllSymbols() []string {
	out := make([]string, 0, len(symbolByID))
	for _, s := range symbolByID {
		out = append(out, s)
	}
	return out
}

// EcallBase is the first guest syscall number reserved for builtin
// dispatch: a0..a6 carry the builtin's arguments (mirroring the plain
// ecall ABI's x10..x16), x17 carries EcallBase+id, and emu's ecall
// handler routes it straight to Call rather than treating it as one of
// spec.md §6's fixed LOG/WRITE/.../PANIC syscall numbers. Kept well
// above the highest of those (40) so the two ranges never collide.
const EcallBase = 0x1000

// EcallNumber returns the guest syscall number a builtin stub's ecall
// uses to reach id.
func EcallNumber(id BuiltinId) int32 { return EcallBase + int32(id) }

// LookupEcall resolves a guest syscall number back to a BuiltinId, for
// emu's ecall dispatch.
func LookupEcall(nr int32) (BuiltinId, bool) {
	if nr < EcallBase {
		return 0, false
	}
	id := BuiltinId(nr - EcallBase)
	if _, ok := symbolByID[id]; !ok {
		return 0, false
	}
	return id, true
}

// AllIDs returns every registered BuiltinId, for target.BuildBuiltinsObject
// to synthesize one guest-callable stub per builtin.
func AllIDs() []BuiltinId {
	out := make([]BuiltinId, 0, len(symbolByID))
	for id := range symbolByID {
		out = append(out, id)
	}
	return out
}

// Call invokes id's Go implementation directly (used by the JIT
// interpreter's host path and, via the emulator's builtin-ecall
// trampoline, by code running "on" RV32 — see emu's ecall dispatch and
// DESIGN.md's note on why the RV32 builtins blob is stub trampolines
// rather than hand-written RV32 machine code).
func Call(id BuiltinId, args []int32) ([]int32, error) {
	fn, ok := fnByID[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBuiltin, "id %d", id)
	}
	return fn(args), nil
}

// wrap1, wrap2 and wrap3 adapt a fixed-arity int32 function to Fn, so
// each registration line in the generated table stays one call.
func wrap1(f func(int32) int32) Fn {
	return func(args []int32) []int32 { return []int32{f(args[0])} }
}
func wrap2(f func(int32, int32) int32) Fn {
	return func(args []int32) []int32 { return []int32{f(args[0], args[1])} }
}
func wrap3(f func(int32, int32, int32) int32) Fn {
	return func(args []int32) []int32 { return []int32{f(args[0], args[1], args[2])} }
}

func vec3Result(r q32.Vec3) []int32 { return []int32{r.X, r.Y, r.Z} }
