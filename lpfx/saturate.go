package lpfx

import "github.com/ledfx/lpglsl/q32"

// Saturate clamps a Q32 scalar to [0,1], ported from original_source
// lpfx/math/saturate_q32.rs.
func Saturate(x int32) int32 { return q32.Clamp(x, 0, q32.One) }

// Saturate3 clamps each component of v to [0,1].
func Saturate3(v q32.Vec3) q32.Vec3 {
	return q32.Vec3{X: Saturate(v.X), Y: Saturate(v.Y), Z: Saturate(v.Z)}
}

// Saturate4 clamps each component of v to [0,1].
func Saturate4(v q32.Vec4) q32.Vec4 {
	return q32.Vec4{X: Saturate(v.X), Y: Saturate(v.Y), Z: Saturate(v.Z), W: Saturate(v.W)}
}

// Mix is GLSL's linear interpolation, mix(a,b,t) = a + (b-a)*t, implemented
// over the Q32 encoding the way every other q32 primitive composes: via
// the saturating Add/Sub/Mul builtins rather than raw int32 arithmetic.
func Mix(a, b, t int32) int32 {
	return q32.Add(a, q32.Mul(q32.Sub(b, a), t))
}
