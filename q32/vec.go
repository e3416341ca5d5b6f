package q32

// Vec2, Vec3 and Vec4 mirror gtype's vector shapes in the Q32 encoding: the
// lpfx helpers operate on these rather than on raw []int32 slices so their
// Go signatures read the same way the GLSL source does (spec.md §4.4).
type Vec2 struct{ X, Y int32 }
type Vec3 struct{ X, Y, Z int32 }
type Vec4 struct{ X, Y, Z, W int32 }

func Vec2FromFloat32(x, y float32) Vec2 { return Vec2{FromFloat32(x), FromFloat32(y)} }
func Vec3FromFloat32(x, y, z float32) Vec3 {
	return Vec3{FromFloat32(x), FromFloat32(y), FromFloat32(z)}
}
func Vec4FromFloat32(x, y, z, w float32) Vec4 {
	return Vec4{FromFloat32(x), FromFloat32(y), FromFloat32(z), FromFloat32(w)}
}

func (v Vec2) ToFloat32() (float32, float32) { return ToFloat32(v.X), ToFloat32(v.Y) }
func (v Vec3) ToFloat32() (float32, float32, float32) {
	return ToFloat32(v.X), ToFloat32(v.Y), ToFloat32(v.Z)
}
func (v Vec4) ToFloat32() (float32, float32, float32, float32) {
	return ToFloat32(v.X), ToFloat32(v.Y), ToFloat32(v.Z), ToFloat32(v.W)
}
