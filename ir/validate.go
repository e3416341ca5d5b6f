package ir

import "fmt"

// ValidationError reports one structural problem found by Validate.
type ValidationError struct {
	Function string
	Block    Block
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("function %s, block%d: %s", e.Function, e.Block, e.Message)
}

// Validate walks m and checks the structural invariants every IR module
// must hold regardless of target: every block target's argument count
// matches the target's parameter count, and no block appears in the
// layout more than once. It does not check that instruction operands are
// defined in the function or that blocks are reachable.
func Validate(m *Module) []ValidationError {
	var errs []ValidationError
	for _, f := range m.Functions() {
		errs = append(errs, validateFunction(f)...)
	}
	return errs
}

func validateFunction(f *Function) []ValidationError {
	var errs []ValidationError
	seen := make(map[Block]bool, len(f.Layout))
	for _, b := range f.Layout {
		if seen[b] {
			errs = append(errs, ValidationError{f.Name, b, "block appears twice in layout"})
		}
		seen[b] = true
		for _, inst := range f.Insts(b) {
			for _, target := range inst.Targets {
				want := len(f.BlockParams(target.Block))
				got := len(target.Args)
				if want != got {
					errs = append(errs, ValidationError{f.Name, b, fmt.Sprintf(
						"jump to block%d passes %d args, block has %d params", target.Block, got, want)})
				}
			}
		}
	}
	return errs
}

// NoFloatValues reports every value in f whose type is F32 or whose
// opcode is a float operation — the invariant the Q32 transform's output
// must satisfy for every function targeting RV32 (spec.md §8: "no SSA
// value has type f32; no instruction opcode is fadd/fsub/fmul/fdiv/
// fneg/fcmp/f32const").
func NoFloatValues(f *Function) []ValidationError {
	var errs []ValidationError
	for _, b := range f.Layout {
		for _, p := range f.BlockParams(b) {
			if p.Type == F32 {
				errs = append(errs, ValidationError{f.Name, b, fmt.Sprintf("block param v%d has type f32", p.Value)})
			}
		}
		for _, inst := range f.Insts(b) {
			switch inst.Op {
			case OpFadd, OpFsub, OpFmul, OpFdiv, OpFneg, OpFcmp, OpF32const,
				OpFcvtFromSint, OpFcvtFromUint, OpFcvtToSint:
				errs = append(errs, ValidationError{f.Name, b, fmt.Sprintf("float opcode %s survived the Q32 transform", opName(inst.Op))})
			}
			if inst.Result != ValueInvalid && f.ValueType(inst.Result) == F32 {
				errs = append(errs, ValidationError{f.Name, b, fmt.Sprintf("value v%d has type f32", inst.Result)})
			}
		}
	}
	return errs
}
