package emu

// Step decodes and executes the instruction at PC in one call — spec.md
// §4.7's "central dispatch decodes an instruction word and executes it
// in one step, avoiding a materialised instruction enum on the hot
// path". Compressed (16-bit) instructions are detected by the low two
// bits and routed to stepCompressed; everything else dispatches on the
// 7-bit opcode in stepFull.
func (m *Machine) Step() (StepResult, error) {
	if m.InstructionBudget > 0 && m.instrCount >= m.InstructionBudget {
		return StepResult{}, m.fault(ErrInstructionBudget, "instruction budget exceeded", nil)
	}
	m.instrCount++

	half, err := m.Mem.ReadHalf(m.PC)
	if err != nil {
		return StepResult{}, m.fault(ErrMemory, "fetching instruction", err)
	}
	if half&0x3 != 0x3 {
		return m.stepCompressed(half)
	}

	word, err := m.Mem.ReadWord(m.PC)
	if err != nil {
		return StepResult{}, m.fault(ErrMemory, "fetching instruction", err)
	}
	return m.stepFull(word)
}

func (m *Machine) logStep(mnemonic string, extra ...any) {
	if m.Logging == nil {
		return
	}
	args := append([]any{"pc", m.PC, "insn", mnemonic}, extra...)
	m.Logging.Debug("step", args...)
}

func (m *Machine) stepFull(w uint32) (StepResult, error) {
	d := decode(w)
	nextPC := m.PC + 4

	switch d.opcode {
	case 0x37: // LUI
		m.setReg(d.rd, uint32(immU(w)))
		m.logStep("lui")
	case 0x17: // AUIPC
		m.setReg(d.rd, m.PC+uint32(immU(w)))
		m.logStep("auipc")

	case 0x6F: // JAL
		m.setReg(d.rd, nextPC)
		nextPC = uint32(int32(m.PC) + immJ(w))
		m.logStep("jal")

	case 0x67: // JALR
		target := (m.reg(d.rs1) + uint32(immI(w))) &^ 1
		m.setReg(d.rd, nextPC)
		nextPC = target
		m.logStep("jalr")

	case 0x63: // BRANCH
		taken, err := m.execBranch(d, w)
		if err != nil {
			return StepResult{}, err
		}
		if taken {
			nextPC = uint32(int32(m.PC) + immB(w))
		}

	case 0x03: // LOAD
		if err := m.execLoad(d, w); err != nil {
			return StepResult{}, err
		}

	case 0x23: // STORE
		if err := m.execStore(d, w); err != nil {
			return StepResult{}, err
		}

	case 0x13: // OP-IMM
		m.execOpImm(d, w)

	case 0x33: // OP (base + M extension)
		m.execOp(d)

	case 0x0F: // FENCE / FENCE.I
		m.logStep("fence")

	case 0x2F: // AMO (RV32A)
		if err := m.execAMO(d); err != nil {
			return StepResult{}, err
		}

	case 0x73: // SYSTEM
		return m.execSystem(d, w, nextPC)

	default:
		return StepResult{}, m.fault(ErrInvalidInstruction, "unknown opcode", nil)
	}

	m.PC = nextPC
	return StepResult{Kind: StepContinue}, nil
}

func (m *Machine) execBranch(d decoded, w uint32) (bool, error) {
	a, b := m.reg(d.rs1), m.reg(d.rs2)
	switch d.funct3 {
	case 0x0:
		return a == b, nil
	case 0x1:
		return a != b, nil
	case 0x4:
		return int32(a) < int32(b), nil
	case 0x5:
		return int32(a) >= int32(b), nil
	case 0x6:
		return a < b, nil
	case 0x7:
		return a >= b, nil
	default:
		return false, m.fault(ErrInvalidInstruction, "bad branch funct3", nil)
	}
}

func (m *Machine) execLoad(d decoded, w uint32) error {
	addr := m.reg(d.rs1) + uint32(immI(w))
	switch d.funct3 {
	case 0x0: // LB
		v, err := m.Mem.ReadByte(addr)
		if err != nil {
			return m.fault(ErrMemory, "LB", err)
		}
		m.setReg(d.rd, uint32(int32(int8(v))))
	case 0x1: // LH
		v, err := m.Mem.ReadHalf(addr)
		if err != nil {
			return m.fault(ErrMemory, "LH", err)
		}
		m.setReg(d.rd, uint32(int32(int16(v))))
	case 0x2: // LW
		v, err := m.Mem.ReadWord(addr)
		if err != nil {
			return m.fault(ErrMemory, "LW", err)
		}
		m.setReg(d.rd, v)
	case 0x4: // LBU
		v, err := m.Mem.ReadByte(addr)
		if err != nil {
			return m.fault(ErrMemory, "LBU", err)
		}
		m.setReg(d.rd, uint32(v))
	case 0x5: // LHU
		v, err := m.Mem.ReadHalf(addr)
		if err != nil {
			return m.fault(ErrMemory, "LHU", err)
		}
		m.setReg(d.rd, uint32(v))
	default:
		return m.fault(ErrInvalidInstruction, "bad load funct3", nil)
	}
	m.logStep("load", "addr", addr)
	return nil
}

func (m *Machine) execStore(d decoded, w uint32) error {
	addr := m.reg(d.rs1) + uint32(immS(w))
	v := m.reg(d.rs2)
	var err error
	switch d.funct3 {
	case 0x0:
		err = m.Mem.WriteByte(addr, byte(v))
	case 0x1:
		err = m.Mem.WriteHalf(addr, uint16(v))
	case 0x2:
		err = m.Mem.WriteWord(addr, v)
	default:
		return m.fault(ErrInvalidInstruction, "bad store funct3", nil)
	}
	if err != nil {
		return m.fault(ErrMemory, "store", err)
	}
	m.logStep("store", "addr", addr)
	return nil
}

func (m *Machine) execOpImm(d decoded, w uint32) {
	a := m.reg(d.rs1)
	imm := immI(w)
	switch d.funct3 {
	case 0x0:
		m.setReg(d.rd, uint32(int32(a)+imm))
	case 0x1:
		m.setReg(d.rd, a<<(uint32(imm)&0x1F))
	case 0x2:
		m.setReg(d.rd, boolToWord(int32(a) < imm))
	case 0x3:
		m.setReg(d.rd, boolToWord(a < uint32(imm)))
	case 0x4:
		m.setReg(d.rd, a^uint32(imm))
	case 0x5:
		if w>>30&1 == 1 {
			m.setReg(d.rd, uint32(int32(a)>>(uint32(imm)&0x1F)))
		} else {
			m.setReg(d.rd, a>>(uint32(imm)&0x1F))
		}
	case 0x6:
		m.setReg(d.rd, a|uint32(imm))
	case 0x7:
		m.setReg(d.rd, a&uint32(imm))
	}
	m.logStep("op-imm")
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (m *Machine) execOp(d decoded) {
	a, b := m.reg(d.rs1), m.reg(d.rs2)
	if d.funct7 == 0x01 { // RV32M
		switch d.funct3 {
		case 0x0: // MUL
			m.setReg(d.rd, a*b)
		case 0x1: // MULH
			m.setReg(d.rd, uint32((int64(int32(a))*int64(int32(b)))>>32))
		case 0x2: // MULHSU
			m.setReg(d.rd, uint32((int64(int32(a))*int64(uint64(b)))>>32))
		case 0x3: // MULHU
			m.setReg(d.rd, uint32((uint64(a)*uint64(b))>>32))
		case 0x4: // DIV
			m.setReg(d.rd, divS(int32(a), int32(b)))
		case 0x5: // DIVU
			m.setReg(d.rd, divU(a, b))
		case 0x6: // REM
			m.setReg(d.rd, remS(int32(a), int32(b)))
		case 0x7: // REMU
			m.setReg(d.rd, remU(a, b))
		}
		m.logStep("m-ext")
		return
	}
	switch d.funct3 {
	case 0x0:
		if d.funct7&0x20 != 0 {
			m.setReg(d.rd, a-b)
		} else {
			m.setReg(d.rd, a+b)
		}
	case 0x1:
		m.setReg(d.rd, a<<(b&0x1F))
	case 0x2:
		m.setReg(d.rd, boolToWord(int32(a) < int32(b)))
	case 0x3:
		m.setReg(d.rd, boolToWord(a < b))
	case 0x4:
		m.setReg(d.rd, a^b)
	case 0x5:
		if d.funct7&0x20 != 0 {
			m.setReg(d.rd, uint32(int32(a)>>(b&0x1F)))
		} else {
			m.setReg(d.rd, a>>(b&0x1F))
		}
	case 0x6:
		m.setReg(d.rd, a|b)
	case 0x7:
		m.setReg(d.rd, a&b)
	}
	m.logStep("op")
}

func divS(a, b int32) uint32 {
	if b == 0 {
		return 0xFFFFFFFF
	}
	if a == -(1<<31) && b == -1 {
		return uint32(a)
	}
	return uint32(a / b)
}
func divU(a, b uint32) uint32 {
	if b == 0 {
		return 0xFFFFFFFF
	}
	return a / b
}
func remS(a, b int32) uint32 {
	if b == 0 {
		return uint32(a)
	}
	if a == -(1<<31) && b == -1 {
		return 0
	}
	return uint32(a % b)
}
func remU(a, b uint32) uint32 {
	if b == 0 {
		return a
	}
	return a % b
}

// execAMO implements the RV32A word-sized atomic set. With a single-
// threaded emulator every AMO is trivially indivisible (spec.md §5), so
// this is a plain read-modify-write rather than any real compare-and-
// swap machinery; LR.W/SC.W still track a one-deep reservation so a
// guest using the standard LR/SC retry idiom behaves correctly.
func (m *Machine) execAMO(d decoded) error {
	addr := m.reg(d.rs1)
	funct5 := d.funct7 >> 2
	switch funct5 {
	case 0x02: // LR.W
		v, err := m.Mem.ReadWord(addr)
		if err != nil {
			return m.fault(ErrMemory, "LR.W", err)
		}
		m.reservationValid = true
		m.reservationAddr = addr
		m.setReg(d.rd, v)
		return nil
	case 0x03: // SC.W
		if m.reservationValid && m.reservationAddr == addr {
			if err := m.Mem.WriteWord(addr, m.reg(d.rs2)); err != nil {
				return m.fault(ErrMemory, "SC.W", err)
			}
			m.setReg(d.rd, 0)
		} else {
			m.setReg(d.rd, 1)
		}
		m.reservationValid = false
		return nil
	}

	old, err := m.Mem.ReadWord(addr)
	if err != nil {
		return m.fault(ErrMemory, "AMO", err)
	}
	rs2 := m.reg(d.rs2)
	var result uint32
	switch funct5 {
	case 0x00:
		result = old + rs2
	case 0x01:
		result = rs2
	case 0x04:
		result = old ^ rs2
	case 0x0C:
		result = old & rs2
	case 0x08:
		result = old | rs2
	case 0x10:
		result = uint32(min32(int32(old), int32(rs2)))
	case 0x14:
		result = uint32(max32(int32(old), int32(rs2)))
	case 0x18:
		result = minU32(old, rs2)
	case 0x1C:
		result = maxU32(old, rs2)
	default:
		return m.fault(ErrInvalidInstruction, "unsupported AMO op", nil)
	}
	if err := m.Mem.WriteWord(addr, result); err != nil {
		return m.fault(ErrMemory, "AMO write", err)
	}
	m.setReg(d.rd, old)
	return nil
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// execSystem handles ECALL/EBREAK and a minimal CSR read/write that
// always reads zero and discards writes — this guest environment has no
// real control/status registers, so CSRRW/CSRRS/CSRRC are accepted
// (rather than trapping) purely so guest startup code that
// unconditionally probes e.g. mhartid doesn't fault.
func (m *Machine) execSystem(d decoded, w uint32, nextPC uint32) (StepResult, error) {
	if d.funct3 == 0 {
		imm := w >> 20
		switch imm {
		case 0: // ECALL
			info := SyscallInfo{Number: int32(m.reg(17))}
			for i := 0; i < 7; i++ {
				info.Args[i] = m.reg(uint32(10 + i))
			}
			m.PC = nextPC
			return m.dispatchEcall(info)
		case 1: // EBREAK
			m.PC = nextPC
			return StepResult{Kind: StepHalted}, nil
		}
		return StepResult{}, m.fault(ErrInvalidInstruction, "unknown SYSTEM/imm12", nil)
	}
	// CSRRW/CSRRS/CSRRC and their immediate forms: read zero, discard write.
	m.setReg(d.rd, 0)
	m.PC = nextPC
	return StepResult{Kind: StepContinue}, nil
}
