package lpfx

import "github.com/ledfx/lpglsl/q32"

// randomMult is about 43759.17 in Q16.16, ported from original_source
// lpfx/generative/random/random{1,2,3}_q32.rs; it stands in for the classic
// 43758.5453 sin-hash constant GLSL shaders borrow from The Book of Shaders.
const randomMult int64 = 2867801088

// dotX, dotY, dotZ are the per-axis dot-product weights the 2D/3D random
// hashes combine coordinates with before hashing, ported from the same
// files: about 12.992, 78.219 and 37.714 in Q16.16, close to the classic
// vec2(12.9898, 78.233) / vec3(12.9898, 78.233, 37.719) weights.
const dotX int32 = 851456
const dotY int32 = 5126144
const dotZ int32 = 2471604

func sinHash(combined int32) int32 {
	sinVal := q32.Sin(combined)
	multiplied := int32((int64(sinVal) * randomMult) >> 16)
	return q32.Fract(multiplied)
}

// Random1 hashes a scalar coordinate plus seed to a value in [0,1].
func Random1(x int32, seed uint32) int32 {
	combined := x + int32(seed)
	return sinHash(combined)
}

// Random2 hashes a 2D coordinate plus seed to a value in [0,1] via
// dot(p, vec2(12.9898,78.233)).
func Random2(p q32.Vec2, seed uint32) int32 {
	dot := int32((int64(p.X)*int64(dotX))>>16) + int32((int64(p.Y)*int64(dotY))>>16)
	return sinHash(dot + int32(seed))
}

// Random3 hashes a 3D coordinate plus seed to a value in [0,1] via
// dot(p, vec3(12.9898,78.233,37.719)).
func Random3(p q32.Vec3, seed uint32) int32 {
	dot := int32((int64(p.X)*int64(dotX))>>16) +
		int32((int64(p.Y)*int64(dotY))>>16) +
		int32((int64(p.Z)*int64(dotZ))>>16)
	return sinHash(dot + int32(seed))
}

// SRandom3Tile returns a pseudo-random unit-ish 3D vector for p that
// repeats with period `tile` along each axis, ported from
// original_source lpfx/generative/srandom/srandom3_tile_q32.rs's
// approach of folding p into [0,tile) before hashing each axis with a
// distinct seed offset so the three outputs decorrelate.
func SRandom3Tile(p q32.Vec3, tile int32, seed uint32) q32.Vec3 {
	wrapped := q32.Vec3{
		X: wrapTile(p.X, tile),
		Y: wrapTile(p.Y, tile),
		Z: wrapTile(p.Z, tile),
	}
	return q32.Vec3{
		X: q32.Sub(q32.Mul(Random3(wrapped, seed), two), q32.One),
		Y: q32.Sub(q32.Mul(Random3(wrapped, seed+1), two), q32.One),
		Z: q32.Sub(q32.Mul(Random3(wrapped, seed+2), two), q32.One),
	}
}

func wrapTile(x, tile int32) int32 {
	if tile == 0 {
		return x
	}
	return q32.Mod(x, tile)
}
