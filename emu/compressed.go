package emu

// stepCompressed executes one 16-bit RVC instruction. This module's own
// codegen (target/codegen.go) never emits compressed encodings, but
// spec.md §4.7 asks for general RV32IMAC fidelity, so a foreign or
// hand-assembled guest object using RVC still runs correctly. Quadrants
// 0/1/2 cover the common subset; anything unrecognized faults rather
// than silently misexecuting.
func (m *Machine) stepCompressed(h uint16) (StepResult, error) {
	quadrant := h & 0x3
	funct3 := (h >> 13) & 0x7
	nextPC := m.PC + 2

	switch quadrant {
	case 0x0:
		switch funct3 {
		case 0x0: // C.ADDI4SPN
			imm := cAddi4spnImm(h)
			rd := crReg(h, 2)
			if imm == 0 {
				return StepResult{}, m.fault(ErrInvalidInstruction, "reserved C.ADDI4SPN", nil)
			}
			m.setReg(rd, m.reg(2)+imm)
		case 0x2: // C.LW
			addr := m.reg(crReg(h, 7)) + cLwImm(h)
			v, err := m.Mem.ReadWord(addr)
			if err != nil {
				return StepResult{}, m.fault(ErrMemory, "C.LW", err)
			}
			m.setReg(crReg(h, 2), v)
		case 0x6: // C.SW
			addr := m.reg(crReg(h, 7)) + cLwImm(h)
			if err := m.Mem.WriteWord(addr, m.reg(crReg(h, 2))); err != nil {
				return StepResult{}, m.fault(ErrMemory, "C.SW", err)
			}
		default:
			return StepResult{}, m.fault(ErrInvalidInstruction, "unknown quadrant-0 RVC", nil)
		}

	case 0x1:
		switch funct3 {
		case 0x0: // C.ADDI / C.NOP
			rd := rdFull(h)
			m.setReg(rd, uint32(int32(m.reg(rd))+cImm6(h)))
		case 0x1: // C.JAL (RV32-only form)
			m.setReg(1, nextPC)
			nextPC = uint32(int32(m.PC) + cJImm(h))
		case 0x2: // C.LI
			m.setReg(rdFull(h), uint32(cImm6(h)))
		case 0x3: // C.LUI / C.ADDI16SP
			rd := rdFull(h)
			if rd == 2 {
				m.setReg(2, uint32(int32(m.reg(2))+cAddi16spImm(h)))
			} else {
				imm := cImm6(h)
				if imm == 0 {
					return StepResult{}, m.fault(ErrInvalidInstruction, "reserved C.LUI", nil)
				}
				m.setReg(rd, uint32(imm)<<12)
			}
		case 0x4: // arithmetic: C.SRLI/C.SRAI/C.ANDI/C.SUB/C.XOR/C.OR/C.AND
			if err := m.execCA(h); err != nil {
				return StepResult{}, err
			}
		case 0x5: // C.J
			nextPC = uint32(int32(m.PC) + cJImm(h))
		case 0x6: // C.BEQZ
			if m.reg(crReg(h, 7)) == 0 {
				nextPC = uint32(int32(m.PC) + cBImm(h))
			}
		case 0x7: // C.BNEZ
			if m.reg(crReg(h, 7)) != 0 {
				nextPC = uint32(int32(m.PC) + cBImm(h))
			}
		}

	case 0x2:
		switch funct3 {
		case 0x0: // C.SLLI
			rd := rdFull(h)
			m.setReg(rd, m.reg(rd)<<cShamt(h))
		case 0x2: // C.LWSP
			addr := m.reg(2) + cLwspImm(h)
			v, err := m.Mem.ReadWord(addr)
			if err != nil {
				return StepResult{}, m.fault(ErrMemory, "C.LWSP", err)
			}
			m.setReg(rdFull(h), v)
		case 0x4:
			rd, rs2 := rdFull(h), rs2Full(h)
			bit12 := (h >> 12) & 1
			switch {
			case bit12 == 0 && rs2 == 0: // C.JR
				nextPC = m.reg(rd) &^ 1
			case bit12 == 0: // C.MV
				m.setReg(rd, m.reg(rs2))
			case bit12 == 1 && rd == 0 && rs2 == 0: // C.EBREAK
				m.PC = nextPC
				return StepResult{Kind: StepHalted}, nil
			case bit12 == 1 && rs2 == 0: // C.JALR
				target := m.reg(rd) &^ 1
				m.setReg(1, nextPC)
				nextPC = target
			default: // C.ADD
				m.setReg(rd, m.reg(rd)+m.reg(rs2))
			}
		case 0x6: // C.SWSP
			addr := m.reg(2) + cSwspImm(h)
			if err := m.Mem.WriteWord(addr, m.reg(rs2Full(h))); err != nil {
				return StepResult{}, m.fault(ErrMemory, "C.SWSP", err)
			}
		default:
			return StepResult{}, m.fault(ErrInvalidInstruction, "unknown quadrant-2 RVC", nil)
		}

	default: // quadrant 0x3 is never compressed
		return StepResult{}, m.fault(ErrInvalidInstruction, "not a compressed instruction", nil)
	}

	m.PC = nextPC
	return StepResult{Kind: StepContinue}, nil
}

func (m *Machine) execCA(h uint16) error {
	rd := crReg(h, 7)
	funct2 := (h >> 10) & 0x3
	switch funct2 {
	case 0x0: // C.SRLI
		m.setReg(rd, m.reg(rd)>>cShamt(h))
	case 0x1: // C.SRAI
		m.setReg(rd, uint32(int32(m.reg(rd))>>cShamt(h)))
	case 0x2: // C.ANDI
		m.setReg(rd, uint32(int32(m.reg(rd))&cImm6(h)))
	case 0x3:
		rs2 := crReg(h, 2)
		switch (h>>5)&0x3 | (h>>12&1)<<2 {
		case 0x0:
			m.setReg(rd, m.reg(rd)-m.reg(rs2))
		case 0x1:
			m.setReg(rd, m.reg(rd)^m.reg(rs2))
		case 0x2:
			m.setReg(rd, m.reg(rd)|m.reg(rs2))
		case 0x3:
			m.setReg(rd, m.reg(rd)&m.reg(rs2))
		default:
			return m.fault(ErrInvalidInstruction, "64-bit-only RVC arithmetic", nil)
		}
	}
	return nil
}

// crReg maps a compressed 3-bit register field (bits starting at `shift`)
// to the full x8..x15 register window RVC's "popular register" forms use.
func crReg(h uint16, shift uint) uint32 { return 8 + uint32((h>>shift)&0x7) }

func rdFull(h uint16) uint32  { return uint32((h >> 7) & 0x1F) }
func rs2Full(h uint16) uint32 { return uint32((h >> 2) & 0x1F) }

func cShamt(h uint16) uint32 { return uint32((h>>12)&1)<<5 | uint32((h>>2)&0x1F) }

func cImm6(h uint16) int32 {
	v := uint32((h>>12)&1)<<5 | uint32((h>>2)&0x1F)
	return signExtend(v, 6)
}

func cAddi4spnImm(h uint16) uint32 {
	return uint32((h>>7)&0xF)<<6 | uint32((h>>11)&0x3)<<4 | uint32((h>>5)&1)<<3 | uint32((h>>6)&1)<<2
}

func cLwImm(h uint16) uint32 {
	return uint32((h>>10)&0x7)<<3 | uint32((h>>6)&1)<<2 | uint32((h>>5)&1)<<6
}

func cAddi16spImm(h uint16) int32 {
	v := uint32((h>>12)&1)<<9 | uint32((h>>3)&0x3)<<7 | uint32((h>>5)&1)<<6 |
		uint32((h>>2)&1)<<5 | uint32((h>>6)&1)<<4
	return signExtend(v, 10)
}

func cJImm(h uint16) int32 {
	v := uint32((h>>12)&1)<<11 | uint32((h>>11)&1)<<4 | uint32((h>>9)&0x3)<<8 |
		uint32((h>>8)&1)<<10 | uint32((h>>7)&1)<<6 | uint32((h>>6)&1)<<7 |
		uint32((h>>2)&1)<<5 | uint32((h>>3)&0x7)<<1
	return signExtend(v, 12)
}

func cBImm(h uint16) int32 {
	v := uint32((h>>12)&1)<<8 | uint32((h>>5)&0x3)<<6 | uint32((h>>2)&1)<<5 |
		uint32((h>>10)&0x3)<<3 | uint32((h>>3)&0x3)<<1
	return signExtend(v, 9)
}

func cLwspImm(h uint16) uint32 {
	return uint32((h>>4)&0x7)<<2 | uint32((h>>12)&1)<<5 | uint32((h>>2)&0x3)<<6
}

func cSwspImm(h uint16) uint32 {
	return uint32((h>>9)&0xF)<<2 | uint32((h>>7)&0x3)<<6
}
