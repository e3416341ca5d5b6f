package lower

import (
	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/gtype"
	"github.com/ledfx/lpglsl/typed"
)

var lowerScalarNames = map[string]gtype.Type{
	"bool": gtype.Bool, "int": gtype.Int, "uint": gtype.UInt, "float": gtype.Float,
	"void": gtype.Void,
}

var lowerVectorNames = map[string]struct {
	build func(int) gtype.Type
	size  int
}{
	"vec2": {gtype.Vec, 2}, "vec3": {gtype.Vec, 3}, "vec4": {gtype.Vec, 4},
	"ivec2": {gtype.IVec, 2}, "ivec3": {gtype.IVec, 3}, "ivec4": {gtype.IVec, 4},
	"uvec2": {gtype.UVec, 2}, "uvec3": {gtype.UVec, 3}, "uvec4": {gtype.UVec, 4},
	"bvec2": {gtype.BVec, 2}, "bvec3": {gtype.BVec, 3}, "bvec4": {gtype.BVec, 4},
}

var lowerMatrixNames = map[string][2]int{
	"mat2": {2, 2}, "mat3": {3, 3}, "mat4": {4, 4},
	"mat2x2": {2, 2}, "mat3x3": {3, 3}, "mat4x4": {4, 4},
}

// resolveLowerType re-resolves a parsed type reference against the typed
// shader's already-validated struct table. The front-end (glsl/semantic)
// does the equivalent resolution during validation; lowering needs its own
// copy since a ConstructExpr's parsed *glsl.Type never carries a resolved
// gtype.Type through to this stage.
func resolveLowerType(t *glsl.Type, shader *typed.Shader) (gtype.Type, bool) {
	var base gtype.Type
	if sc, ok := lowerScalarNames[t.Name]; ok {
		base = sc
	} else if v, ok := lowerVectorNames[t.Name]; ok {
		base = v.build(v.size)
	} else if m, ok := lowerMatrixNames[t.Name]; ok {
		base = gtype.Mat(m[0], m[1])
	} else if _, ok := shader.Structs[t.Name]; ok {
		base = gtype.Struct(t.Name)
	} else {
		return gtype.Type{}, false
	}
	if t.ArrayLen == nil {
		return base, true
	}
	n, ok := constIntLen(t.ArrayLen, shader)
	if !ok {
		return gtype.Type{}, false
	}
	return gtype.Array(base, n), true
}

func constIntLen(e glsl.Expr, shader *typed.Shader) (int, bool) {
	lit, ok := e.(*glsl.Literal)
	if ok && lit.Kind == glsl.TokenIntLiteral {
		n := 0
		for _, ch := range lit.Value {
			if ch < '0' || ch > '9' {
				break
			}
			n = n*10 + int(ch-'0')
		}
		return n, true
	}
	if id, ok := e.(*glsl.Ident); ok {
		if cv, ok := shader.Consts[id.Name]; ok && len(cv.Components) > 0 {
			return int(cv.Components[0]), true
		}
	}
	return 0, false
}
