// Package lpfx implements the GLSL-callable shader helper library (hue2rgb,
// hsv2rgb/rgb2hsv, the random/noise/fbm generators) spec.md §4.4 calls the
// "lpfx_*" builtins, in both a high-level Q32 form and a flattened extern-C
// ABI the Q32-transformed IR calls into (matching the lower/ package's
// hidden-output-pointer convention for multi-component returns). Grounded
// in original_source/lp-glsl/crates/{lp-builtins,lp-glsl-builtins}/src
// /builtins/lpfx.
package lpfx

import "github.com/ledfx/lpglsl/q32"

var (
	two   = q32.FromFloat32(2)
	three = q32.FromFloat32(3)
	four  = q32.FromFloat32(4)
	six   = q32.FromFloat32(6)
)

// Hue2RGB converts a hue in [0,1] to an RGB color, ported from
// original_source lpfx/color/space/hue2rgb_q32.rs's lygia-derived formula:
// R = |hue*6-3|-1, G = 2-|hue*6-2|, B = 2-|hue*6-4|, each saturated.
func Hue2RGB(hue int32) q32.Vec3 {
	hueTimesSix := q32.Mul(hue, six)
	r := q32.Sub(q32.Abs(q32.Sub(hueTimesSix, three)), q32.One)
	g := q32.Sub(two, q32.Abs(q32.Sub(hueTimesSix, two)))
	b := q32.Sub(two, q32.Abs(q32.Sub(hueTimesSix, four)))
	return Saturate3(q32.Vec3{X: r, Y: g, Z: b})
}

// HSV2RGB converts an (h,s,v) triple to RGB via Hue2RGB, the standard
// lerp-toward-white-then-scale-by-value identity: rgb = mix(1, hue2rgb(h),
// s) * v.
func HSV2RGB(hsv q32.Vec3) q32.Vec3 {
	base := Hue2RGB(hsv.X)
	mixed := q32.Vec3{
		X: Mix(q32.One, base.X, hsv.Y),
		Y: Mix(q32.One, base.Y, hsv.Y),
		Z: Mix(q32.One, base.Z, hsv.Y),
	}
	return q32.Vec3{
		X: q32.Mul(mixed.X, hsv.Z),
		Y: q32.Mul(mixed.Y, hsv.Z),
		Z: q32.Mul(mixed.Z, hsv.Z),
	}
}

// RGB2HSV is the inverse of HSV2RGB, the classic six-way-max/min formula.
func RGB2HSV(rgb q32.Vec3) q32.Vec3 {
	r, g, b := rgb.X, rgb.Y, rgb.Z
	maxC := maxI32(r, maxI32(g, b))
	minC := minI32(r, minI32(g, b))
	delta := q32.Sub(maxC, minC)

	v := maxC
	var s int32
	if maxC != 0 {
		s = q32.Div(delta, maxC)
	}

	var h int32
	switch {
	case delta == 0:
		h = 0
	case maxC == r:
		h = q32.Mod(q32.Div(q32.Sub(g, b), delta), six)
	case maxC == g:
		h = q32.Add(q32.Div(q32.Sub(b, r), delta), two)
	default:
		h = q32.Add(q32.Div(q32.Sub(r, g), delta), four)
	}
	h = q32.Div(h, six)
	if h < 0 {
		h = q32.Add(h, q32.One)
	}
	return q32.Vec3{X: h, Y: s, Z: v}
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
