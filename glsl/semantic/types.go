package semantic

import (
	"strconv"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/gtype"
)

var scalarNames = map[string]gtype.Type{
	"bool": gtype.Bool, "int": gtype.Int, "uint": gtype.UInt, "float": gtype.Float,
	"void": gtype.Void,
}

var vectorNames = map[string]struct {
	build func(int) gtype.Type
	size  int
}{
	"vec2": {gtype.Vec, 2}, "vec3": {gtype.Vec, 3}, "vec4": {gtype.Vec, 4},
	"ivec2": {gtype.IVec, 2}, "ivec3": {gtype.IVec, 3}, "ivec4": {gtype.IVec, 4},
	"uvec2": {gtype.UVec, 2}, "uvec3": {gtype.UVec, 3}, "uvec4": {gtype.UVec, 4},
	"bvec2": {gtype.BVec, 2}, "bvec3": {gtype.BVec, 3}, "bvec4": {gtype.BVec, 4},
}

var matrixNames = map[string][2]int{
	"mat2": {2, 2}, "mat3": {3, 3}, "mat4": {4, 4},
	"mat2x2": {2, 2}, "mat3x3": {3, 3}, "mat4x4": {4, 4},
}

// resolveType converts a parsed glsl.Type into a gtype.Type, consulting
// structNames for user-defined names declared by an earlier struct pass.
// evalConstInt evaluates a compile-time array-length expression (the
// Global Const pass supplies the full evaluator; the Function Registry
// pass, which runs first and has no const environment yet, passes
// literalInt, which only accepts integer literals).
func resolveType(t *glsl.Type, structNames map[string]bool, evalConstInt func(glsl.Expr) (int, bool)) (gtype.Type, bool) {
	var base gtype.Type
	if sc, ok := scalarNames[t.Name]; ok {
		base = sc
	} else if v, ok := vectorNames[t.Name]; ok {
		base = v.build(v.size)
	} else if m, ok := matrixNames[t.Name]; ok {
		base = gtype.Mat(m[0], m[1])
	} else if structNames[t.Name] {
		base = gtype.Struct(t.Name)
	} else {
		return gtype.Type{}, false
	}
	if t.ArrayLen == nil {
		return base, true
	}
	n, ok := evalConstInt(t.ArrayLen)
	if !ok {
		return gtype.Type{}, false
	}
	return gtype.Array(base, n), true
}

// literalInt evaluates an integer literal expression without a const
// environment — the only array-length form the Function Registry pass
// (which runs before Global Const evaluation) can resolve on its own.
func literalInt(e glsl.Expr) (int, bool) {
	lit, ok := e.(*glsl.Literal)
	if !ok || lit.Kind != glsl.TokenIntLiteral {
		return 0, false
	}
	n, err := strconv.Atoi(trimIntSuffix(lit.Value))
	if err != nil {
		return 0, false
	}
	return n, true
}

func trimIntSuffix(s string) string {
	if len(s) > 0 && (s[len(s)-1] == 'u' || s[len(s)-1] == 'U') {
		return s[:len(s)-1]
	}
	return s
}
