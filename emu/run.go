package emu

// RunUntilHalt steps the machine until EBREAK (StepHalted) or a genuine
// host-visible syscall, trap, or panic, per spec.md §4.7/§7. Returns x10
// (the conventional RV32 return-value register) on a clean halt.
func (m *Machine) RunUntilHalt() (uint32, error) {
	for {
		res, err := m.Step()
		if err != nil {
			return 0, err
		}
		switch res.Kind {
		case StepContinue:
			continue
		case StepHalted:
			return m.reg(10), nil
		case StepPanic:
			return 0, m.fault(ErrPanic, res.Panic.Message, nil)
		case StepSyscall:
			return 0, m.fault(ErrTrap, "unrecognized syscall while running to halt", nil)
		default:
			return 0, m.fault(ErrTrap, "unexpected step result", nil)
		}
	}
}

// RunUntilEcall steps the machine until it reaches a genuinely
// host-visible syscall (one dispatchEcall didn't resolve itself) and
// returns the decoded SyscallInfo for the caller to act on and resume
// from, or until EBREAK/trap/panic.
func (m *Machine) RunUntilEcall() (StepResult, error) {
	for {
		res, err := m.Step()
		if err != nil {
			return StepResult{}, err
		}
		switch res.Kind {
		case StepContinue:
			continue
		default:
			return res, nil
		}
	}
}

// CallFunction sets up the SystemV-derived RV32 calling convention
// (args[0:8] in a0..a7, the remainder pushed 4-byte-aligned on the
// stack immediately below the current sp) for a call to entry, runs
// until halt, and returns x10 as the single i32 result — this repo's IR
// never produces multi-result functions (ir's OpReturn takes at most one
// argument, and lower passes any multi-component GLSL result back through
// a hidden output pointer argument instead), so a single register is
// sufficient.
func (m *Machine) CallFunction(entry uint32, args []uint32, returnAddr uint32) (uint32, error) {
	const numArgRegs = 8
	for i := 0; i < numArgRegs && i < len(args); i++ {
		m.setReg(uint32(10+i), args[i])
	}
	if len(args) > numArgRegs {
		sp := m.reg(2)
		extra := args[numArgRegs:]
		sp -= uint32(len(extra)) * 4
		sp &^= 0x3
		for i, v := range extra {
			if err := m.Mem.WriteWord(sp+uint32(i)*4, v); err != nil {
				return 0, m.fault(ErrMemory, "spilling call arguments", err)
			}
		}
		m.setReg(2, sp)
	}
	m.setReg(1, returnAddr)
	m.PC = entry
	return m.RunUntilHalt()
}
