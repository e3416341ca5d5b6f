// Package gtype implements the GLSL type lattice: scalar, vector, matrix
// and array types, plus the implicit-conversion rules spec.md §3 requires.
package gtype

import "fmt"

// Kind identifies the shape of a Type without needing a type switch at
// every call site; Type itself carries the extra data (element type,
// dimensions) a Kind alone can't.
type Kind uint8

const (
	Invalid Kind = iota
	KindBool
	KindInt
	KindUInt
	KindFloat
	KindVec
	KindIVec
	KindUVec
	KindBVec
	KindMat
	KindArray
	KindVoid
	KindStruct
)

// Type is an immutable value describing a GLSL type. Vector/matrix/array
// types are built with the constructors below rather than struct literals.
// Array types hold a pointer to their element type, so compare types with
// Equal rather than ==.
type Type struct {
	kind Kind
	// Size is the vector component count (2,3,4) or matrix column count.
	size int
	// rows is the matrix row count; zero for non-matrix types.
	rows int
	// elem is the array element type, for KindArray.
	elem *Type
	// arrayLen is the array's declared length. A zero length is not
	// rejected when the type is resolved.
	arrayLen int
	// name is the struct type's declared name, for KindStruct.
	name string
}

var (
	Bool  = Type{kind: KindBool}
	Int   = Type{kind: KindInt}
	UInt  = Type{kind: KindUInt}
	Float = Type{kind: KindFloat}
	Void  = Type{kind: KindVoid}
)

// Vec returns the float vector type of the given size (2, 3 or 4).
func Vec(size int) Type { return Type{kind: KindVec, size: size} }

// IVec returns the signed-integer vector type of the given size.
func IVec(size int) Type { return Type{kind: KindIVec, size: size} }

// UVec returns the unsigned-integer vector type of the given size.
func UVec(size int) Type { return Type{kind: KindUVec, size: size} }

// BVec returns the boolean vector type of the given size.
func BVec(size int) Type { return Type{kind: KindBVec, size: size} }

// Mat returns the column-major float matrix type with the given column
// and row counts (e.g. Mat(4,4) is mat4).
func Mat(cols, rows int) Type { return Type{kind: KindMat, size: cols, rows: rows} }

// Array returns an array type of elem with the given compile-time length.
func Array(elem Type, length int) Type {
	e := elem
	return Type{kind: KindArray, elem: &e, arrayLen: length}
}

// Struct returns an opaque reference to a named struct type. Field layout
// lives in the typed-shader's StructType record, not in the lattice
// itself, since struct shape isn't needed for conversion/component rules.
func Struct(name string) Type { return Type{kind: KindStruct, name: name} }

// StructName returns the struct type's declared name.
func (t Type) StructName() string {
	if t.kind != KindStruct {
		panic(fmt.Sprintf("gtype: StructName of non-struct %v", t))
	}
	return t.name
}

func (t Type) Kind() Kind { return t.kind }
func (t Type) IsValid() bool { return t.kind != Invalid }
func (t Type) IsVoid() bool  { return t.kind == KindVoid }

func (t Type) IsScalar() bool {
	switch t.kind {
	case KindBool, KindInt, KindUInt, KindFloat:
		return true
	}
	return false
}

func (t Type) IsVector() bool {
	switch t.kind {
	case KindVec, KindIVec, KindUVec, KindBVec:
		return true
	}
	return false
}

func (t Type) IsMatrix() bool { return t.kind == KindMat }
func (t Type) IsArray() bool  { return t.kind == KindArray }
func (t Type) IsNumeric() bool {
	return t.kind == KindInt || t.kind == KindUInt || t.kind == KindFloat ||
		t.kind == KindVec || t.kind == KindIVec || t.kind == KindUVec || t.kind == KindMat
}
func (t Type) IsIntegral() bool {
	return t.kind == KindInt || t.kind == KindUInt || t.kind == KindIVec || t.kind == KindUVec
}

// ComponentCount returns the number of scalar components: 1 for scalars,
// the vector size for vectors, rows*cols for matrices, and the flattened
// element count for arrays.
func (t Type) ComponentCount() int {
	switch t.kind {
	case KindVec, KindIVec, KindUVec, KindBVec:
		return t.size
	case KindMat:
		return t.size * t.rows
	case KindArray:
		return t.arrayLen * t.elem.ComponentCount()
	case KindVoid, Invalid, KindStruct:
		return 0
	default:
		return 1
	}
}

// VectorBaseType returns the scalar type of a vector's components; it
// panics on a non-vector type, mirroring an invariant the caller is
// expected to have already checked via IsVector.
func (t Type) VectorBaseType() Type {
	switch t.kind {
	case KindVec:
		return Float
	case KindIVec:
		return Int
	case KindUVec:
		return UInt
	case KindBVec:
		return Bool
	}
	panic(fmt.Sprintf("gtype: VectorBaseType of non-vector %v", t))
}

// MatrixDims returns (columns, rows) for a matrix type.
func (t Type) MatrixDims() (cols, rows int) {
	if t.kind != KindMat {
		panic(fmt.Sprintf("gtype: MatrixDims of non-matrix %v", t))
	}
	return t.size, t.rows
}

// MatrixColumnType returns the vec type of one matrix column.
func (t Type) MatrixColumnType() Type {
	_, rows := t.MatrixDims()
	return Vec(rows)
}

// ArrayElementType returns the element type of an array type.
func (t Type) ArrayElementType() Type {
	if t.kind != KindArray {
		panic(fmt.Sprintf("gtype: ArrayElementType of non-array %v", t))
	}
	return *t.elem
}

// ArrayDimensions returns the declared length of an array type.
func (t Type) ArrayDimensions() int {
	if t.kind != KindArray {
		panic(fmt.Sprintf("gtype: ArrayDimensions of non-array %v", t))
	}
	return t.arrayLen
}

func (t Type) String() string {
	switch t.kind {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUInt:
		return "uint"
	case KindFloat:
		return "float"
	case KindVoid:
		return "void"
	case KindVec:
		return fmt.Sprintf("vec%d", t.size)
	case KindIVec:
		return fmt.Sprintf("ivec%d", t.size)
	case KindUVec:
		return fmt.Sprintf("uvec%d", t.size)
	case KindBVec:
		return fmt.Sprintf("bvec%d", t.size)
	case KindMat:
		if t.size == t.rows {
			return fmt.Sprintf("mat%d", t.size)
		}
		return fmt.Sprintf("mat%dx%d", t.size, t.rows)
	case KindArray:
		return fmt.Sprintf("%s[%d]", t.elem, t.arrayLen)
	case KindStruct:
		return t.name
	default:
		return "<invalid>"
	}
}

// Equal reports whether two types are structurally identical.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind || t.size != o.size || t.rows != o.rows || t.arrayLen != o.arrayLen {
		return false
	}
	if t.kind == KindArray {
		return t.elem.Equal(*o.elem)
	}
	if t.kind == KindStruct {
		return t.name == o.name
	}
	return true
}

// ConvertibleTo reports whether a value of type t implicitly converts to
// type target, per the GLSL promotion rules in spec.md §3: int->float,
// int<->uint, uint->float, numeric<->bool for constructors, and
// same-shape vector/matrix conversions whose components convert.
func (t Type) ConvertibleTo(target Type) bool {
	if t.Equal(target) {
		return true
	}
	if t.IsScalar() && target.IsScalar() {
		return scalarConvertible(t, target)
	}
	if t.IsVector() && target.IsVector() {
		if t.ComponentCount() != target.ComponentCount() {
			return false
		}
		return scalarConvertible(t.VectorBaseType(), target.VectorBaseType())
	}
	if t.IsMatrix() && target.IsMatrix() {
		tc, tr := t.MatrixDims()
		oc, or := target.MatrixDims()
		return tc == oc && tr == or
	}
	return false
}

// scalarConvertible implements the scalar half of ConvertibleTo. Bool is
// only reachable in constructor contexts (validator gates this further);
// at the type-lattice level the conversion exists.
func scalarConvertible(from, to Type) bool {
	if from.Equal(to) {
		return true
	}
	switch {
	case from.kind == KindInt && to.kind == KindFloat:
		return true
	case from.kind == KindInt && to.kind == KindUInt:
		return true
	case from.kind == KindUInt && to.kind == KindInt:
		return true
	case from.kind == KindUInt && to.kind == KindFloat:
		return true
	case (from.kind == KindInt || from.kind == KindUInt || from.kind == KindFloat) && to.kind == KindBool:
		return true
	case from.kind == KindBool && (to.kind == KindInt || to.kind == KindUInt || to.kind == KindFloat):
		return true
	}
	return false
}
