// Package emu is the RV32IMAC emulator spec.md §4.7 describes: a
// deterministic, single-threaded interpreter over a rv32elf.Loaded
// memory image, with trapping, symbolicated backtraces, and a closed
// guest syscall ABI shared with target's builtins-object stubs.
//
// Grounded on
// original_source/lp-riscv/lp-riscv-emu/src/emu/emulator (the Rust
// emulator this spec distills) for the step/trap/backtrace shape, and
// on original_source/lp-riscv/lp-riscv-tools/src/serial for the
// host/guest serial pairing that Serial (serial.go) ports.
package emu

import "fmt"

// EmulatorError is the sum type spec.md §7 names for runtime faults:
// InvalidInstruction, MemoryError (via *rv32elf.MemoryError), Alignment
// (also via *rv32elf.MemoryError, which already distinguishes the two),
// Trap, Panic, InstructionBudget, and UnknownSyscall (returned to the
// host rather than raised, so it isn't a Kind here).
type EmulatorErrorKind int

const (
	ErrInvalidInstruction EmulatorErrorKind = iota
	ErrMemory
	ErrTrap
	ErrPanic
	ErrInstructionBudget
)

// EmulatorError carries the PC and full register snapshot spec.md §7
// requires every runtime error to include, plus a symbolicated
// backtrace string once a Machine formats one.
type EmulatorError struct {
	Kind      EmulatorErrorKind
	PC        uint32
	Regs      [32]uint32
	Reason    string
	Backtrace string
	Cause     error
}

func (e *EmulatorError) Error() string {
	msg := fmt.Sprintf("pc=0x%08x: %s", e.PC, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Backtrace != "" {
		msg += "\n" + e.Backtrace
	}
	return msg
}

func (e *EmulatorError) Unwrap() error { return e.Cause }
