// Package typed holds the front-end's output data model: a Typed Shader,
// plainly-structured the way the teacher's ir.Module holds plain-struct
// definitions rather than an interpreted tree.
package typed

import (
	"fmt"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/gtype"
)

// ConstValue is the evaluated value of a global const declaration: one
// float64 per scalar component, reshaped by the declaration's Type.
type ConstValue struct {
	Type       gtype.Type
	Components []float64
}

// Qualifier is a function-parameter direction qualifier.
type Qualifier int

const (
	In Qualifier = iota
	Out
	Inout
)

func (q Qualifier) String() string {
	switch q {
	case Out:
		return "out"
	case Inout:
		return "inout"
	default:
		return "in"
	}
}

// Param is one resolved function parameter.
type Param struct {
	Name      string
	Type      gtype.Type
	Qualifier Qualifier
}

// Signature is a function's resolved parameter/return shape, used as the
// overload key in the FunctionRegistry.
type Signature struct {
	Params     []gtype.Type
	ReturnType gtype.Type
}

// Matches reports whether args exactly matches the signature's parameter
// types (used for the registry's exact-match overload pass).
func (s Signature) Matches(args []gtype.Type) bool {
	if len(args) != len(s.Params) {
		return false
	}
	for i, p := range s.Params {
		if !p.Equal(args[i]) {
			return false
		}
	}
	return true
}

// String renders the signature the way the IR's textual dumper renders a
// function signature, e.g. "(vec3, float) -> float".
func (s Signature) String() string {
	str := "("
	for i, p := range s.Params {
		if i > 0 {
			str += ", "
		}
		str += p.String()
	}
	return str + ") -> " + s.ReturnType.String()
}

// Function is one resolved user function.
type Function struct {
	Name       string
	Params     []Param
	ReturnType gtype.Type
	Body       *glsl.BlockStmt
	Span       glsl.Span
}

// Signature returns the function's overload-registry key.
func (f *Function) Signature() Signature {
	sig := Signature{ReturnType: f.ReturnType, Params: make([]gtype.Type, len(f.Params))}
	for i, p := range f.Params {
		sig.Params[i] = p.Type
	}
	return sig
}

// FunctionRegistry maps a function name to its declared overloads, built by
// the Function Registry pass (spec.md §4.1 pass 1).
type FunctionRegistry struct {
	overloads map[string][]Signature
	defs      map[string][]*Function
}

// NewFunctionRegistry creates an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{overloads: make(map[string][]Signature), defs: make(map[string][]*Function)}
}

// Declare records fn's signature as an overload of its name.
func (r *FunctionRegistry) Declare(fn *Function) {
	sig := fn.Signature()
	r.overloads[fn.Name] = append(r.overloads[fn.Name], sig)
	r.defs[fn.Name] = append(r.defs[fn.Name], fn)
}

// Overloads returns every declared signature for name.
func (r *FunctionRegistry) Overloads(name string) []Signature {
	return r.overloads[name]
}

// Lookup resolves a call by exact-match first, then by every parameter
// implicitly converting, matching spec.md §4.2's "exact match, then by
// implicit convertibility" overload rule.
func (r *FunctionRegistry) Lookup(name string, argTypes []gtype.Type) (*Function, bool) {
	defs := r.defs[name]
	for _, fn := range defs {
		if fn.Signature().Matches(argTypes) {
			return fn, true
		}
	}
	for _, fn := range defs {
		sig := fn.Signature()
		if len(sig.Params) != len(argTypes) {
			continue
		}
		ok := true
		for i, p := range sig.Params {
			if !argTypes[i].ConvertibleTo(p) {
				ok = false
				break
			}
		}
		if ok {
			return fn, true
		}
	}
	return nil, false
}

// Shader is the front-end's complete output: the user functions, the
// optional entry function, the function registry, and the evaluated
// global-const environment (spec.md §3 "Typed shader").
type Shader struct {
	Main      *Function
	Functions []*Function
	Registry  *FunctionRegistry
	Structs   map[string]*StructType
	Consts    map[string]ConstValue
}

// StructType is a resolved struct type: an ordered field list, each with
// its GLSL type, used to size stack slots and resolve member accesses.
type StructType struct {
	Name   string
	Fields []StructField
}

// StructField is one member of a resolved struct type.
type StructField struct {
	Name string
	Type gtype.Type
}

// FieldType returns the type of the named field, or a zero Type and false.
func (s *StructType) FieldType(name string) (gtype.Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return gtype.Type{}, false
}

// NewShader creates an empty Shader ready for the semantic passes to fill.
func NewShader() *Shader {
	return &Shader{
		Registry: NewFunctionRegistry(),
		Structs:  make(map[string]*StructType),
		Consts:   make(map[string]ConstValue),
	}
}

// AddFunction registers fn in both the function list and the overload
// registry, and records it as Main when its name is "main".
func (s *Shader) AddFunction(fn *Function) {
	s.Functions = append(s.Functions, fn)
	s.Registry.Declare(fn)
	if fn.Name == "main" {
		s.Main = fn
	}
}

func (s *Shader) String() string {
	return fmt.Sprintf("shader{%d functions, %d consts, %d structs}", len(s.Functions), len(s.Consts), len(s.Structs))
}
