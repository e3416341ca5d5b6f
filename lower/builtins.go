package lower

import "github.com/ledfx/lpglsl/gtype"

// inlineMathBuiltins names the standard GLSL math intrinsics this pass
// recognizes by name (glsl/semantic/builtins.go carries the parallel,
// arity-checking table the validator uses; this one only needs to answer
// "is this a builtin call" during lowering).
var inlineMathBuiltins = map[string]bool{
	"sin": true, "cos": true, "tan": true, "asin": true, "acos": true, "atan": true,
	"sqrt": true, "inversesqrt": true, "exp": true, "exp2": true, "log": true, "log2": true,
	"abs": true, "sign": true, "floor": true, "ceil": true, "fract": true, "round": true,
	"radians": true, "degrees": true, "normalize": true, "pow": true, "mod": true,
	"min": true, "max": true, "step": true, "cross": true, "reflect": true,
	"distance": true, "dot": true, "clamp": true, "mix": true, "smoothstep": true,
	"faceforward": true, "refract": true, "length": true,
}

func isInlineMathBuiltin(name string) bool { return inlineMathBuiltins[name] }

// scalarResultBuiltins are the standard GLSL intrinsics that reduce a
// vector argument to a single float, as opposed to producing a value
// shaped like their input (spec.md §4.2's builtin-call lowering rule:
// "most builtins take their first argument's shape; dot/length/distance
// don't").
var scalarResultBuiltins = map[string]bool{
	"dot": true, "length": true, "distance": true,
}

// lpfxReturnType names the result shape of each lpfx_ helper this module
// knows how to call (glsl/semantic/builtins.go carries the parallel,
// argument-checking half of this list for validation).
var lpfxReturnType = map[string]gtype.Type{
	"lpfx_hsv2rgb":      gtype.Vec(3),
	"lpfx_rgb2hsv":      gtype.Vec(3),
	"lpfx_hue2rgb":      gtype.Float,
	"lpfx_saturate":     gtype.Float,
	"lpfx_random1":      gtype.Float,
	"lpfx_random2":      gtype.Float,
	"lpfx_random3":      gtype.Float,
	"lpfx_gnoise2":      gtype.Float,
	"lpfx_gnoise3":      gtype.Float,
	"lpfx_gnoise3_tile": gtype.Float,
	"lpfx_srandom3_tile": gtype.Vec(3),
	"lpfx_snoise2":      gtype.Float,
	"lpfx_psrdnoise3":   gtype.Float,
	"lpfx_fbm":          gtype.Float,
}

// builtinCallee returns the imported-function symbol a builtin call
// lowers to: math intrinsics become "__glsl_<name>" and lpfx_ helpers keep
// their name under a "__" prefix, matching ir.ImportedFunction's doc
// comment describing the module's "__lpfx_*"/host-function naming.
func builtinCallee(name string) string {
	if len(name) > 5 && name[:5] == "lpfx_" {
		return "__" + name
	}
	return "__glsl_" + name
}

// builtinResultShape returns how many flattened F32 words a builtin call
// produces, given its first argument's component count.
func builtinResultShape(name string, firstArgComponents int) int {
	if scalarResultBuiltins[name] {
		return 1
	}
	if rt, ok := lpfxReturnType[name]; ok {
		n := rt.ComponentCount()
		if n == 0 {
			n = 1
		}
		return n
	}
	return firstArgComponents
}
