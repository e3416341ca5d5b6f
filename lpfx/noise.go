package lpfx

import "github.com/ledfx/lpglsl/q32"

// cubic is the smoothstep-style cubic interpolant libfixmath-derived noise
// uses in place of GLSL's built-in smoothstep, f*f*(3-2f), ported from the
// cubic_vec2 helper original_source lpfx/generative/gnoise references.
func cubic(f int32) int32 {
	threeMinus2f := q32.Sub(three, q32.Mul(two, f))
	return q32.Mul(q32.Mul(f, f), threeMinus2f)
}

func cubicVec2(v q32.Vec2) q32.Vec2 {
	return q32.Vec2{X: cubic(v.X), Y: cubic(v.Y)}
}

// GNoise2 is 2D value noise: hash the four corners of the cell containing
// p and bilinearly interpolate with a cubic smoothing kernel, ported from
// original_source lpfx/generative/gnoise/gnoise2_q32.rs.
func GNoise2(p q32.Vec2, seed uint32) int32 {
	i := q32.Vec2{X: q32.Floor(p.X), Y: q32.Floor(p.Y)}
	f := q32.Vec2{X: q32.Fract(p.X), Y: q32.Fract(p.Y)}

	a := Random2(i, seed)
	b := Random2(q32.Vec2{X: q32.Add(i.X, q32.One), Y: i.Y}, seed)
	c := Random2(q32.Vec2{X: i.X, Y: q32.Add(i.Y, q32.One)}, seed)
	d := Random2(q32.Vec2{X: q32.Add(i.X, q32.One), Y: q32.Add(i.Y, q32.One)}, seed)

	u := cubicVec2(f)

	ab := Mix(a, b, u.X)
	ca := q32.Sub(c, a)
	db := q32.Sub(d, b)
	oneMinusUX := q32.Sub(q32.One, u.X)
	return q32.Add(ab, q32.Add(q32.Mul(q32.Mul(ca, u.Y), oneMinusUX), q32.Mul(q32.Mul(db, u.X), u.Y)))
}

// GNoise3 is the 3D extension of GNoise2: trilinear interpolation across
// the eight corners of the containing cell.
func GNoise3(p q32.Vec3, seed uint32) int32 {
	i := q32.Vec3{X: q32.Floor(p.X), Y: q32.Floor(p.Y), Z: q32.Floor(p.Z)}
	f := q32.Vec3{X: q32.Fract(p.X), Y: q32.Fract(p.Y), Z: q32.Fract(p.Z)}

	corner := func(dx, dy, dz int32) int32 {
		return Random3(q32.Vec3{
			X: q32.Add(i.X, dx), Y: q32.Add(i.Y, dy), Z: q32.Add(i.Z, dz),
		}, seed)
	}

	c000, c100 := corner(0, 0, 0), corner(q32.One, 0, 0)
	c010, c110 := corner(0, q32.One, 0), corner(q32.One, q32.One, 0)
	c001, c101 := corner(0, 0, q32.One), corner(q32.One, 0, q32.One)
	c011, c111 := corner(0, q32.One, q32.One), corner(q32.One, q32.One, q32.One)

	ux, uy, uz := cubic(f.X), cubic(f.Y), cubic(f.Z)

	x00 := Mix(c000, c100, ux)
	x10 := Mix(c010, c110, ux)
	x01 := Mix(c001, c101, ux)
	x11 := Mix(c011, c111, ux)

	y0 := Mix(x00, x10, uy)
	y1 := Mix(x01, x11, uy)

	return Mix(y0, y1, uz)
}

// GNoise3Tile is GNoise3 over coordinates wrapped to a repeating tile, so
// the result is periodic along every axis (original_source's tile-noise
// family exists precisely so seamless textures can be generated).
func GNoise3Tile(p q32.Vec3, tile int32, seed uint32) int32 {
	wrapped := q32.Vec3{X: wrapTile(p.X, tile), Y: wrapTile(p.Y, tile), Z: wrapTile(p.Z, tile)}
	return GNoise3(wrapped, seed)
}

// SNoise2 is simplex-flavored 2D noise, approximated here as GNoise2
// recentered to [-1,1] (spec.md §9 records that a true simplex lattice
// skew/unskew is out of scope for this pass — see DESIGN.md).
func SNoise2(p q32.Vec2, seed uint32) int32 {
	return q32.Sub(q32.Mul(GNoise2(p, seed), two), q32.One)
}

// PSRDNoise3 is periodic tiled 3D noise with a pseudo-random-direction
// gradient flavor; approximated here as GNoise3Tile recentered to [-1,1]
// (see DESIGN.md for the same simplification this and SNoise2 share).
func PSRDNoise3(p q32.Vec3, period q32.Vec3, seed uint32) int32 {
	tile := period.X
	if period.Y > tile {
		tile = period.Y
	}
	if period.Z > tile {
		tile = period.Z
	}
	return q32.Sub(q32.Mul(GNoise3Tile(p, tile, seed), two), q32.One)
}
