package emu

import (
	"github.com/ledfx/lpglsl/builtin"
)

// Fixed guest syscall numbers, per spec.md §7 — a small closed set the
// host itself must recognize, disjoint from builtin.EcallBase's much
// larger builtin-dispatch range.
const (
	SyscallLog           = 1
	SyscallWrite         = 2
	SyscallSerialWrite   = 10
	SyscallSerialRead    = 11
	SyscallSerialHasData = 12
	SyscallTimeMs        = 20
	SyscallYield         = 30
	SyscallPanic         = 40
)

// handleBuiltinEcall services an ECALL whose number falls in
// builtin.EcallBase's range: it's not a host-visible syscall at all, just
// how a compiled RV32 object reaches the one tested builtin.Call
// implementation (see target.BuildBuiltinsObject's doc and DESIGN.md).
// args are read straight from a0..a6 — builtin.Fn implementations only
// ever index the positions they need, so passing all seven unconditionally
// is safe without this package having to know each builtin's arity.
// Results are written back starting at a0. Reports whether info.Number
// was in fact a builtin ecall.
func (m *Machine) handleBuiltinEcall(info SyscallInfo) (bool, error) {
	id, ok := builtin.LookupEcall(info.Number)
	if !ok {
		return false, nil
	}
	args := make([]int32, len(info.Args))
	for i, a := range info.Args {
		args[i] = int32(a)
	}
	results, err := builtin.Call(id, args)
	if err != nil {
		return true, m.fault(ErrTrap, "builtin call failed", err)
	}
	for i, r := range results {
		m.setReg(uint32(10+i), uint32(r))
	}
	return true, nil
}

// readPanicMessage pulls the guest's PANIC(ptr, len, file_ptr, file_len,
// line) argument convention out of memory for PanicInfo. A malformed or
// out-of-range pointer degrades to an empty string rather than faulting
// the emulator a second time while it is already unwinding a panic.
func (m *Machine) readPanicMessage(info SyscallInfo) PanicInfo {
	return PanicInfo{
		Message: m.readGuestString(info.Args[0], info.Args[1]),
		File:    m.readGuestString(info.Args[2], info.Args[3]),
		Line:    info.Args[4],
	}
}

func (m *Machine) readGuestString(ptr, length uint32) string {
	if length == 0 || length > 4096 {
		return ""
	}
	buf := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		b, err := m.Mem.ReadByte(ptr + i)
		if err != nil {
			return string(buf[:i])
		}
		buf[i] = b
	}
	return string(buf)
}

// runSerialEcall services the SERIAL_WRITE/SERIAL_READ/SERIAL_HAS_DATA
// syscalls against m.Serial's guest-facing buffer, per guest_serial.rs's
// split buffer pair.
func (m *Machine) runSerialEcall(info SyscallInfo) {
	switch info.Number {
	case SyscallSerialWrite:
		ptr, length := info.Args[0], info.Args[1]
		buf := make([]byte, length)
		for i := uint32(0); i < length; i++ {
			b, err := m.Mem.ReadByte(ptr + i)
			if err != nil {
				break
			}
			buf[i] = b
		}
		n := m.Serial.GuestWrite(buf)
		m.setReg(10, uint32(n))
	case SyscallSerialRead:
		ptr, length := info.Args[0], info.Args[1]
		buf := make([]byte, length)
		n := m.Serial.GuestRead(buf)
		for i := int32(0); i < n; i++ {
			_ = m.Mem.WriteByte(ptr+uint32(i), buf[i])
		}
		m.setReg(10, uint32(n))
	case SyscallSerialHasData:
		if m.Serial.GuestHasData() {
			m.setReg(10, 1)
		} else {
			m.setReg(10, 0)
		}
	}
}

// runHostEcall services LOG/WRITE/TIME_MS/YIELD inline — these never
// need to surface to the embedding host, unlike an unrecognized syscall
// number which run_until_ecall hands back verbatim.
func (m *Machine) runHostEcall(info SyscallInfo) {
	switch info.Number {
	case SyscallLog:
		msg := m.readGuestString(info.Args[0], info.Args[1])
		if m.Logging != nil {
			m.Logging.Info("guest log", "msg", msg)
		}
	case SyscallWrite:
		msg := m.readGuestString(info.Args[0], info.Args[1])
		m.Serial.GuestWrite([]byte(msg))
	case SyscallTimeMs:
		m.setReg(10, uint32(m.startedAt))
	case SyscallYield:
		// cooperative yield: nothing to do in a single-threaded emulator.
	}
}

// isHostHandledInline reports whether number is one of the fixed
// syscalls this package resolves without ever returning StepSyscall to
// the caller.
func isHostHandledInline(number int32) bool {
	switch number {
	case SyscallLog, SyscallWrite, SyscallSerialWrite, SyscallSerialRead,
		SyscallSerialHasData, SyscallTimeMs, SyscallYield:
		return true
	}
	return false
}

// dispatchEcall is ECALL's full resolution, called with PC already
// advanced past the ecall word. spec.md §7: recognized numbers — the
// fixed host set, the builtin.EcallBase range, and PANIC — are resolved
// without ever leaving this package; only a genuinely unrecognized
// number surfaces as StepResult{Kind: StepSyscall} for the embedding
// host to interpret (e.g. a test harness's own custom syscalls).
func (m *Machine) dispatchEcall(info SyscallInfo) (StepResult, error) {
	if handled, err := m.handleBuiltinEcall(info); handled {
		if err != nil {
			return StepResult{}, err
		}
		return StepResult{Kind: StepContinue}, nil
	}

	switch {
	case info.Number == SyscallPanic:
		return StepResult{Kind: StepPanic, Panic: m.readPanicMessage(info)}, nil
	case info.Number == SyscallSerialWrite, info.Number == SyscallSerialRead, info.Number == SyscallSerialHasData:
		m.runSerialEcall(info)
		return StepResult{Kind: StepContinue}, nil
	case isHostHandledInline(info.Number):
		m.runHostEcall(info)
		return StepResult{Kind: StepContinue}, nil
	default:
		return StepResult{Kind: StepSyscall, Syscall: info}, nil
	}
}
