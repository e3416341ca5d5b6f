package rv32elf

// These helpers rewrite the immediate field of one already-assembled
// RV32 instruction word in place, preserving every other field (opcode,
// rd, rs1, funct3/7). They mirror target/rv32enc.go's U/I/S/B-type
// layouts but decode rather than construct, since a relocation patches
// an existing placeholder instruction rather than emitting a fresh one.

func splitImm32(imm int32) (hi uint32, lo int32) {
	u := uint32(imm)
	lo = int32(int32(u<<20) >> 20)
	hi = (u - uint32(lo)) >> 12
	return hi, lo
}

func patchU20(mem *Image, addr uint32, value int32) error {
	w, err := mem.readWord(addr)
	if err != nil {
		return err
	}
	hi, _ := splitImm32(value)
	w = (w & 0xFFF) | (hi << 12)
	return mem.writeWord(addr, w)
}

func patchI12(mem *Image, addr uint32, value int32) error {
	w, err := mem.readWord(addr)
	if err != nil {
		return err
	}
	_, lo := splitImm32(value)
	w = (w & 0xFFFFF) | (uint32(lo)&0xFFF)<<20
	return mem.writeWord(addr, w)
}

func patchS12(mem *Image, addr uint32, value int32) error {
	w, err := mem.readWord(addr)
	if err != nil {
		return err
	}
	_, lo := splitImm32(value)
	u := uint32(lo)
	w = (w &^ (0x7F<<25 | 0x1F<<7)) | (u>>5&0x7F)<<25 | (u&0x1F)<<7
	return mem.writeWord(addr, w)
}

// patchCallPair rewrites the auipc/jalr pair codegen.go always emits for
// OpCall, splitting delta (the byte distance from the auipc instruction
// to the resolved symbol) across both words.
func patchCallPair(mem *Image, addr uint32, delta int32) error {
	hi, lo := splitImm32(delta)
	auipc, err := mem.readWord(addr)
	if err != nil {
		return err
	}
	auipc = (auipc & 0xFFF) | (hi << 12)
	if err := mem.writeWord(addr, auipc); err != nil {
		return err
	}
	jalr, err := mem.readWord(addr + 4)
	if err != nil {
		return err
	}
	jalr = (jalr & 0xFFFFF) | (uint32(lo)&0xFFF)<<20
	return mem.writeWord(addr+4, jalr)
}

func patchJal(mem *Image, addr uint32, delta int32) error {
	w, err := mem.readWord(addr)
	if err != nil {
		return err
	}
	rd := w >> 7 & 0x1F
	u := uint32(delta)
	w = (u>>20&0x1)<<31 | (u>>1&0x3FF)<<21 | (u>>11&0x1)<<20 | (u>>12&0xFF)<<12 | rd<<7 | (w & 0x7F)
	return mem.writeWord(addr, w)
}

func patchBranch(mem *Image, addr uint32, delta int32) error {
	w, err := mem.readWord(addr)
	if err != nil {
		return err
	}
	u := uint32(delta)
	const fieldsMask = 1<<31 | 0x3F<<25 | 0xF<<8 | 1<<7
	w = (w &^ fieldsMask) |
		(u>>12&0x1)<<31 | (u>>5&0x3F)<<25 | (u>>1&0xF)<<8 | (u>>11&0x1)<<7
	return mem.writeWord(addr, w)
}
