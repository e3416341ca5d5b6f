// Package q32 implements the Q16.16 fixed-point arithmetic the Q32 decimal
// format compiles down to (spec.md §4.4): every __lp_q32_* builtin the
// q32xform transform rewrites a function's float arithmetic into. These are
// plain int32 functions — there is no floating-point hardware on the RV32
// target this format exists for, so every transcendental below is computed
// with the same saturating fixed-point primitives a bare-metal target would
// use, ported from the libfixmath/fpm algorithms the original lp-glsl
// builtins crate itself ports (see _examples/original_source/lp-glsl/crates
// /lp-builtins/src/builtins/q32 and .../fixed32).
//
// chewxy/math32 is used only at the float32 boundary, by FromFloat32, which
// the Q32 transform's constant folding goes through. No builtin below calls
// into it.
package q32

import "github.com/chewxy/math32"

// One is the Q16.16 encoding of 1.0.
const One int32 = 1 << 16

// MaxFixed and MinFixed bound the representable range: they are the int32
// maximum and minimum, the saturation limits add.rs/sub.rs/mul.rs clamp
// against.
const MaxFixed int32 = 0x7FFFFFFF
const MinFixed int32 = -1 << 31

// FromFloat32 rounds f to its nearest Q16.16 encoding, saturating at the
// representable range (spec.md §4.3: "q = round(f * 65536), saturating").
func FromFloat32(f float32) int32 {
	const scale = 65536.0
	maxFloat := float32(MaxFixed) / scale
	minFloat := float32(MinFixed) / scale
	if f >= maxFloat {
		return MaxFixed
	}
	if f < minFloat {
		return MinFixed
	}
	return int32(math32.Round(f * scale))
}

// ToFloat32 decodes a Q16.16 value back to float32.
func ToFloat32(q int32) float32 {
	return float32(q) / 65536.0
}

func clamp64(wide int64) int32 {
	if wide > int64(MaxFixed) {
		return MaxFixed
	}
	if wide < int64(MinFixed) {
		return MinFixed
	}
	return int32(wide)
}

func absInt32(x int32) int32 {
	mask := x >> 31
	return (x + mask) ^ mask
}

// Abs returns the absolute value of a Q16.16 value.
func Abs(x int32) int32 { return absInt32(x) }

// Clamp saturates x to [lo, hi].
func Clamp(x, lo, hi int32) int32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Floor truncates toward negative infinity, matching GLSL's floor() over
// the Q16.16 encoding (arithmetic right-then-left shift, rounding toward
// -inf for negative values exactly as a native int32 right shift does).
func Floor(x int32) int32 { return (x >> 16) << 16 }

// Fract returns the fractional part of x, always non-negative, matching
// GLSL's fract() = x - floor(x).
func Fract(x int32) int32 { return Sub(x, Floor(x)) }
