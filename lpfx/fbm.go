package lpfx

import "github.com/ledfx/lpglsl/q32"

// fbm octave constants, ported from original_source
// lpfx/generative/fbm/fbm2_q32.rs: each octave doubles frequency and
// halves amplitude, the standard fractal-brownian-motion recurrence.
var (
	fbmAmplitudeInitial = q32.FromFloat32(0.5)
	fbmScaleScalar       = q32.FromFloat32(2.0)
	fbmAmplitudeScalar   = q32.FromFloat32(0.5)
)

// FBM2 sums `octaves` layers of SNoise2 at doubling frequency and halving
// amplitude.
func FBM2(p q32.Vec2, octaves int32, seed uint32) int32 {
	value := int32(0)
	amplitude := fbmAmplitudeInitial
	st := p
	for i := int32(0); i < octaves; i++ {
		value = q32.Add(value, q32.Mul(amplitude, SNoise2(st, seed)))
		st = q32.Vec2{X: q32.Mul(st.X, fbmScaleScalar), Y: q32.Mul(st.Y, fbmScaleScalar)}
		amplitude = q32.Mul(amplitude, fbmAmplitudeScalar)
	}
	return value
}

// FBM3 is FBM2's 3D counterpart, layering PSRDNoise3 instead of SNoise2.
func FBM3(p q32.Vec3, period q32.Vec3, octaves int32, seed uint32) int32 {
	value := int32(0)
	amplitude := fbmAmplitudeInitial
	st := p
	for i := int32(0); i < octaves; i++ {
		value = q32.Add(value, q32.Mul(amplitude, PSRDNoise3(st, period, seed)))
		st = q32.Vec3{
			X: q32.Mul(st.X, fbmScaleScalar),
			Y: q32.Mul(st.Y, fbmScaleScalar),
			Z: q32.Mul(st.Z, fbmScaleScalar),
		}
		amplitude = q32.Mul(amplitude, fbmAmplitudeScalar)
	}
	return value
}
