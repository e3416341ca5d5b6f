package lpglsl

import "github.com/ledfx/lpglsl/ir"

// Executable is spec.md §6's compile() result: "call(name, args, ret_type)
// plus signatures() and call_conv()". Both *target.JitImage (the
// host-JIT path) and *EmulatorExecutable (the RV32 emulator path)
// satisfy it, so callers written against this interface never branch on
// which RunMode produced their Executable.
type Executable interface {
	Call(name string, args []int32) ([]int32, error)
	Signatures() map[string]*ir.Signature
	CallConv() ir.CallConv
}
