package semantic

import "github.com/ledfx/lpglsl/gtype"

// builtinShape classifies a GLSL standard-library math function by how many
// arguments it takes and whether its result is a scalar regardless of its
// arguments' shape (length, dot, distance) or follows the shape of its
// (shape-matched) arguments (sin, pow, clamp, mix, ...). This lets the
// validator check call arity and shape without a full per-function
// signature table — every listed function is either purely elementwise or
// a pure reduction.
type builtinShape struct {
	argc    int
	reduces bool
}

var mathBuiltins = map[string]builtinShape{
	"sin": {1, false}, "cos": {1, false}, "tan": {1, false},
	"asin": {1, false}, "acos": {1, false},
	"sqrt": {1, false}, "inversesqrt": {1, false},
	"exp": {1, false}, "exp2": {1, false},
	"log": {1, false}, "log2": {1, false},
	"abs": {1, false}, "sign": {1, false},
	"floor": {1, false}, "ceil": {1, false}, "fract": {1, false},
	"radians": {1, false}, "degrees": {1, false},
	"normalize": {1, false}, "round": {1, false},

	"atan": {2, false}, "pow": {2, false}, "mod": {2, false},
	"min": {2, false}, "max": {2, false}, "step": {2, false},
	"cross": {2, false}, "reflect": {2, false},
	"distance": {2, true}, "dot": {2, true},

	"clamp": {3, false}, "mix": {3, false}, "smoothstep": {3, false},
	"faceforward": {3, false}, "refract": {3, false},

	"length": {1, true},
}

func isInlineBuiltin(name string) bool {
	_, ok := mathBuiltins[name]
	return ok
}

// isExternMathBuiltin exists alongside isInlineBuiltin so the validator's
// dispatch reads the same way it will once the lowering pass distinguishes
// intrinsics it inlines (abs, min, max, clamp) from ones it emits as calls
// into the q32 runtime (sin, pow, ...); validation itself doesn't care.
func isExternMathBuiltin(name string) bool { return false }

// builtinResultType resolves a validated standard-intrinsic call's result
// type. It assumes arity was already checked against mathBuiltins[name].argc
// and that every shaped argument agrees in component count (the caller
// enforces both before calling this).
func builtinResultType(name string, argTypes []gtype.Type) gtype.Type {
	b := mathBuiltins[name]
	if b.reduces {
		return gtype.Float
	}
	widest := argTypes[0]
	for _, a := range argTypes[1:] {
		if a.IsVector() {
			widest = a
		}
	}
	return widest
}

// builtinArgsShapeOK reports whether argTypes are pairwise either identical
// in vector shape or scalar, the rule GLSL applies when broadcasting a
// scalar argument against vector ones in calls like clamp(v, 0.0, 1.0).
func builtinArgsShapeOK(argTypes []gtype.Type) bool {
	size := 0
	for _, a := range argTypes {
		if !a.IsScalar() && !a.IsVector() {
			return false
		}
		if a.IsVector() {
			if size == 0 {
				size = a.ComponentCount()
			} else if size != a.ComponentCount() {
				return false
			}
		}
	}
	return true
}

// lpfxSignature is a fixed (non-overloaded) lpfx helper signature, used for
// the arity/shape check spec.md §4.1 requires for lpfx_-prefixed calls. The
// validator checks lpfx_ calls against this table only; the builtin registry
// is not consulted. This table covers the helpers spec.md §7 names.
var lpfxSignatures = map[string]lpfxSig{
	"lpfx_hsv2rgb":       {[]gtype.Type{gtype.Vec(3)}, gtype.Vec(3)},
	"lpfx_rgb2hsv":       {[]gtype.Type{gtype.Vec(3)}, gtype.Vec(3)},
	"lpfx_hue2rgb":       {[]gtype.Type{gtype.Float, gtype.Float, gtype.Float}, gtype.Float},
	"lpfx_saturate":      {[]gtype.Type{gtype.Float}, gtype.Float},
	"lpfx_random1":       {[]gtype.Type{gtype.Float}, gtype.Float},
	"lpfx_random2":       {[]gtype.Type{gtype.Vec(2)}, gtype.Float},
	"lpfx_random3":       {[]gtype.Type{gtype.Vec(3)}, gtype.Float},
	"lpfx_gnoise2":       {[]gtype.Type{gtype.Vec(2)}, gtype.Float},
	"lpfx_gnoise3":       {[]gtype.Type{gtype.Vec(3)}, gtype.Float},
	"lpfx_gnoise3_tile":  {[]gtype.Type{gtype.Vec(3), gtype.Float}, gtype.Float},
	"lpfx_srandom3_tile": {[]gtype.Type{gtype.Vec(3), gtype.Float}, gtype.Vec(3)},
	"lpfx_snoise2":       {[]gtype.Type{gtype.Vec(2)}, gtype.Float},
	"lpfx_psrdnoise3":    {[]gtype.Type{gtype.Vec(3)}, gtype.Float},
	"lpfx_fbm":           {[]gtype.Type{gtype.Vec(2)}, gtype.Float},
}

type lpfxSig struct {
	Params []gtype.Type
	Return gtype.Type
}

func (s lpfxSig) String() string {
	str := "("
	for i, p := range s.Params {
		if i > 0 {
			str += ", "
		}
		str += p.String()
	}
	return str + ") -> " + s.Return.String()
}

func lookupLpfxSignature(name string) (lpfxSig, bool) {
	sig, ok := lpfxSignatures[name]
	return sig, ok
}
