// Code generated by cmd/lpglsl-builtin-gen from //lpfx:impl annotations in
// package q32 and package lpfx. DO NOT EDIT.
//
// Regenerate with: go run ./cmd/lpglsl-builtin-gen ./q32 ./lpfx
package builtin

import (
	"github.com/ledfx/lpglsl/lpfx"
	"github.com/ledfx/lpglsl/q32"
)

const (
	IDQ32Add BuiltinId = iota + 1
	IDQ32Sub
	IDQ32Mul
	IDQ32Div
	IDQ32Mod
	IDQ32Neg
	IDQ32Sqrt
	IDQ32Sin
	IDQ32Cos
	IDQ32Atan2
	IDQ32Exp
	IDQ32Exp2
	IDQ32Log
	IDQ32Log2
	IDQ32Pow
	IDQ32Ldexp
	IDQ32Round
	IDQ32RoundEven
	IDQ32Fma

	IDLpfxHue2RGB
	IDLpfxHSV2RGB
	IDLpfxRGB2HSV
	IDLpfxSaturate
	IDLpfxSaturate3
	IDLpfxRandom1
	IDLpfxRandom2
	IDLpfxRandom3
	IDLpfxGNoise2
	IDLpfxGNoise3
	IDLpfxGNoise3Tile
	IDLpfxSRandom3Tile
	IDLpfxSNoise2
	IDLpfxPSRDNoise3
	IDLpfxFBM2
)

func init() {
	register(IDQ32Add, "__lp_q32_add", 1, wrap2(q32.Add))
	register(IDQ32Sub, "__lp_q32_sub", 1, wrap2(q32.Sub))
	register(IDQ32Mul, "__lp_q32_mul", 1, wrap2(q32.Mul))
	register(IDQ32Div, "__lp_q32_div", 1, wrap2(q32.Div))
	register(IDQ32Mod, "__lp_q32_mod", 1, wrap2(q32.Mod))
	register(IDQ32Neg, "__lp_q32_neg", 1, wrap1(q32.Neg))
	register(IDQ32Sqrt, "__lp_q32_sqrt", 1, wrap1(q32.Sqrt))
	register(IDQ32Sin, "__lp_q32_sin", 1, wrap1(q32.Sin))
	register(IDQ32Cos, "__lp_q32_cos", 1, wrap1(q32.Cos))
	register(IDQ32Atan2, "__lp_q32_atan2", 1, wrap2(q32.Atan2))
	register(IDQ32Exp, "__lp_q32_exp", 1, wrap1(q32.Exp))
	register(IDQ32Exp2, "__lp_q32_exp2", 1, wrap1(q32.Exp2))
	register(IDQ32Log, "__lp_q32_log", 1, wrap1(q32.Log))
	register(IDQ32Log2, "__lp_q32_log2", 1, wrap1(q32.Log2))
	register(IDQ32Pow, "__lp_q32_pow", 1, wrap2(q32.Pow))
	register(IDQ32Ldexp, "__lp_q32_ldexp", 1, wrap2(q32.Ldexp))
	register(IDQ32Round, "__lp_q32_round", 1, wrap1(q32.Round))
	register(IDQ32RoundEven, "__lp_q32_roundeven", 1, wrap1(q32.RoundEven))
	register(IDQ32Fma, "__lp_q32_fma", 1, wrap3(q32.Fma))

	register(IDLpfxHue2RGB, "__lpfx_hue2rgb_q32", 3, func(a []int32) []int32 {
		return vec3Result(lpfx.Hue2RGB(a[0]))
	})
	register(IDLpfxHSV2RGB, "__lpfx_hsv2rgb_q32", 3, func(a []int32) []int32 {
		return vec3Result(lpfx.HSV2RGB(q32.Vec3{X: a[0], Y: a[1], Z: a[2]}))
	})
	register(IDLpfxRGB2HSV, "__lpfx_rgb2hsv_q32", 3, func(a []int32) []int32 {
		return vec3Result(lpfx.RGB2HSV(q32.Vec3{X: a[0], Y: a[1], Z: a[2]}))
	})
	register(IDLpfxSaturate, "__lpfx_saturate_q32", 1, wrap1(lpfx.Saturate))
	register(IDLpfxSaturate3, "__lpfx_saturate_vec3_q32", 3, func(a []int32) []int32 {
		return vec3Result(lpfx.Saturate3(q32.Vec3{X: a[0], Y: a[1], Z: a[2]}))
	})
	register(IDLpfxRandom1, "__lpfx_random1_q32", 1, func(a []int32) []int32 {
		return []int32{lpfx.Random1(a[0], uint32(a[1]))}
	})
	register(IDLpfxRandom2, "__lpfx_random2_q32", 1, func(a []int32) []int32 {
		return []int32{lpfx.Random2(q32.Vec2{X: a[0], Y: a[1]}, uint32(a[2]))}
	})
	register(IDLpfxRandom3, "__lpfx_random3_q32", 1, func(a []int32) []int32 {
		return []int32{lpfx.Random3(q32.Vec3{X: a[0], Y: a[1], Z: a[2]}, uint32(a[3]))}
	})
	register(IDLpfxGNoise2, "__lpfx_gnoise2_q32", 1, func(a []int32) []int32 {
		return []int32{lpfx.GNoise2(q32.Vec2{X: a[0], Y: a[1]}, uint32(a[2]))}
	})
	register(IDLpfxGNoise3, "__lpfx_gnoise3_q32", 1, func(a []int32) []int32 {
		return []int32{lpfx.GNoise3(q32.Vec3{X: a[0], Y: a[1], Z: a[2]}, uint32(a[3]))}
	})
	register(IDLpfxGNoise3Tile, "__lpfx_gnoise3_tile_q32", 1, func(a []int32) []int32 {
		return []int32{lpfx.GNoise3Tile(q32.Vec3{X: a[0], Y: a[1], Z: a[2]}, a[3], uint32(a[4]))}
	})
	register(IDLpfxSRandom3Tile, "__lpfx_srandom3_tile_q32", 3, func(a []int32) []int32 {
		return vec3Result(lpfx.SRandom3Tile(q32.Vec3{X: a[0], Y: a[1], Z: a[2]}, a[3], uint32(a[4])))
	})
	register(IDLpfxSNoise2, "__lpfx_snoise2_q32", 1, func(a []int32) []int32 {
		return []int32{lpfx.SNoise2(q32.Vec2{X: a[0], Y: a[1]}, uint32(a[2]))}
	})
	register(IDLpfxPSRDNoise3, "__lpfx_psrdnoise3_q32", 1, func(a []int32) []int32 {
		p := q32.Vec3{X: a[0], Y: a[1], Z: a[2]}
		period := q32.Vec3{X: a[3], Y: a[4], Z: a[5]}
		return []int32{lpfx.PSRDNoise3(p, period, uint32(a[6]))}
	})
	register(IDLpfxFBM2, "__lpfx_fbm_q32", 1, func(a []int32) []int32 {
		return []int32{lpfx.FBM2(q32.Vec2{X: a[0], Y: a[1]}, a[2], uint32(a[3]))}
	})

	bindGLSLName("sin", IDQ32Sin)
	bindGLSLName("cos", IDQ32Cos)
	bindGLSLName("atan", IDQ32Atan2)
	bindGLSLName("pow", IDQ32Pow)
	bindGLSLName("sqrt", IDQ32Sqrt)
	bindGLSLName("exp", IDQ32Exp)
	bindGLSLName("exp2", IDQ32Exp2)
	bindGLSLName("log", IDQ32Log)
	bindGLSLName("log2", IDQ32Log2)
	bindGLSLName("mod", IDQ32Mod)
	bindGLSLName("round", IDQ32Round)

	bindGLSLName("lpfx_hue2rgb", IDLpfxHue2RGB)
	bindGLSLName("lpfx_hsv2rgb", IDLpfxHSV2RGB)
	bindGLSLName("lpfx_rgb2hsv", IDLpfxRGB2HSV)
	bindGLSLName("lpfx_saturate", IDLpfxSaturate)
	bindGLSLName("lpfx_random1", IDLpfxRandom1)
	bindGLSLName("lpfx_random2", IDLpfxRandom2)
	bindGLSLName("lpfx_random3", IDLpfxRandom3)
	bindGLSLName("lpfx_gnoise2", IDLpfxGNoise2)
	bindGLSLName("lpfx_gnoise3", IDLpfxGNoise3)
	bindGLSLName("lpfx_gnoise3_tile", IDLpfxGNoise3Tile)
	bindGLSLName("lpfx_srandom3_tile", IDLpfxSRandom3Tile)
	bindGLSLName("lpfx_snoise2", IDLpfxSNoise2)
	bindGLSLName("lpfx_psrdnoise3", IDLpfxPSRDNoise3)
	bindGLSLName("lpfx_fbm", IDLpfxFBM2)
}
