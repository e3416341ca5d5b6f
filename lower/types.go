// Package lower turns a typed.Shader into an ir.Module: one ir.Function per
// GLSL function, SSA-constructed through ir.FunctionBuilder exactly as
// wgsl/lower.go threads a single Lowerer through a function body, adapted
// from naga's expression-tree IR to this module's block/instruction SSA IR
// (spec.md §4.2).
package lower

import (
	"github.com/ledfx/lpglsl/gtype"
	"github.com/ledfx/lpglsl/ir"
)

// componentType returns the IR scalar type one component of t lowers to.
// Vectors and matrices are homogeneous in component type, so this covers
// every shape gtype.Type can describe except arrays/structs, whose
// components are resolved per-element/per-field by the caller.
func componentType(t gtype.Type) ir.Type {
	switch t.Kind() {
	case gtype.KindBool, gtype.KindBVec:
		return ir.I8
	case gtype.KindInt, gtype.KindUInt, gtype.KindIVec, gtype.KindUVec:
		return ir.I32
	case gtype.KindFloat, gtype.KindVec, gtype.KindMat:
		return ir.F32
	default:
		return ir.TypeInvalid
	}
}

// isAggregate reports whether t is stored in an addressable stack slot
// rather than as a flat list of SSA variables (spec.md §4.2: arrays need
// addressable storage because a runtime index can select any element;
// scalars/vectors/matrices don't, since GLSL never indexes them with a
// non-constant subscript into independent SSA slots the way it does arrays).
func isAggregate(t gtype.Type) bool {
	return t.IsArray() || t.Kind() == gtype.KindStruct
}

// flattenedSize returns how many scalar words (each componentType-sized,
// uniformly treated as 4 bytes here for simplicity — bool arrays/struct
// fields are rare in shader code and this module doesn't pack sub-word
// fields) an aggregate occupies.
func flattenedSize(t gtype.Type) int {
	return t.ComponentCount()
}

const wordSize = 4
