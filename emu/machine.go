package emu

import (
	"log/slog"

	"github.com/ledfx/lpglsl/rv32elf"
)

// Machine is one exclusively-owned emulator run: registers, PC, the
// backing memory image, and the instruction budget/logging knobs
// spec.md §4.7 and §5 describe. Nothing here is shared across runs —
// "the emulator's memory and registers are exclusive to a single run"
// is enforced simply by never aliasing a Machine.
type Machine struct {
	Regs [32]uint32
	PC   uint32

	Mem     *rv32elf.Image
	Symbols rv32elf.SymbolMap
	Serial  *Serial

	// Logging is spec.md §4.7's "two compile-time modes" reinterpreted as
	// a runtime flag: nil means disabled (zero log calls emitted). With a
	// non-nil *slog.Logger, Step logs at Debug level the PC and mnemonic
	// of each non-compressed LUI, AUIPC, JAL, JALR, load, store, OP-IMM,
	// OP/M-extension and FENCE instruction, plus the address of each load
	// and store; branches, AMOs, SYSTEM and compressed instructions are
	// not logged. The guest LOG syscall goes to Info. This module never reaches for a
	// global logger, the teacher's own style (see lower/diag.go) of
	// threading *slog.Logger explicitly rather than calling a package-
	// level log function.
	Logging *slog.Logger

	InstructionBudget int
	instrCount        int

	reservationValid bool
	reservationAddr  uint32

	startedAt int64 // TIME_MS's epoch, stamped by the caller at construction
}

// NewMachine creates a Machine over mem/symbols, with serial wired to an
// in-memory Serial pair (tests substitute their own via the Serial
// field) and TIME_MS's epoch fixed at nowMs (the caller supplies this —
// Machine never calls time.Now() itself, since this package's hosts
// range from tests to a real wall-clock-backed CLI).
func NewMachine(mem *rv32elf.Image, symbols rv32elf.SymbolMap, nowMs int64) *Machine {
	return &Machine{
		Mem:       mem,
		Symbols:   symbols,
		Serial:    NewSerial(),
		startedAt: nowMs,
	}
}

// reg reads register i, enforcing x0 == 0 always.
func (m *Machine) reg(i uint32) uint32 {
	if i == 0 {
		return 0
	}
	return m.Regs[i]
}

// setReg writes register i, silently discarding writes to x0.
func (m *Machine) setReg(i uint32, v uint32) {
	if i != 0 {
		m.Regs[i] = v
	}
}

func (m *Machine) snapshot() [32]uint32 { return m.Regs }

func (m *Machine) fault(kind EmulatorErrorKind, reason string, cause error) *EmulatorError {
	return &EmulatorError{Kind: kind, PC: m.PC, Regs: m.snapshot(), Reason: reason, Cause: cause,
		Backtrace: m.Backtrace()}
}
