package emu

// StepKind is StepResult's discriminant, mirroring the Rust emulator's
// StepResult ∈ {Continue, Halted, Trap, Panic, Syscall}.
type StepKind int

const (
	StepContinue StepKind = iota
	StepHalted
	StepTrap
	StepPanic
	StepSyscall
)

// StepResult is what one Machine.Step call returns: Continue/Halted
// carry nothing extra, Trap carries a code, Panic carries the guest's
// message (and source location, if it supplied one), Syscall carries
// the decoded SyscallInfo for the host to act on.
type StepResult struct {
	Kind    StepKind
	Trap    uint32
	Panic   PanicInfo
	Syscall SyscallInfo
}

// PanicInfo is what the guest's PANIC syscall reports: a message plus
// optional source location, per spec.md §4.7.
type PanicInfo struct {
	Message string
	File    string
	Line    uint32
}

// SyscallInfo is the decoded ECALL the host sees via run_until_ecall:
// the raw number plus the raw a0..a6 argument words, undecoded, since
// only the caller knows which syscall it is looking for.
type SyscallInfo struct {
	Number int32
	Args   [7]uint32
}
