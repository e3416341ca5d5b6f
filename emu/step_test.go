package emu

import (
	"encoding/binary"
	"testing"

	"github.com/kr/pretty"

	"github.com/ledfx/lpglsl/rv32elf"
)

// writeROMCode pokes raw instruction words directly into img.ROM (an
// exported field), bypassing Image's guest-facing WriteWord, which
// rejects ROM targets once a guest is "running" — tests act as the
// loader here, not the guest.
func writeROMCode(img *rv32elf.Image, code []uint32) {
	for i, w := range code {
		binary.LittleEndian.PutUint32(img.ROM[i*4:], w)
	}
}

func writeROMHalf(img *rv32elf.Image, addr uint32, h uint16) {
	binary.LittleEndian.PutUint16(img.ROM[addr:], h)
}

// asmR encodes an R-type instruction (OP/OP-32 etc.).
func asmR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// asmI encodes an I-type instruction (OP-IMM, LOAD, JALR, ECALL/EBREAK).
func asmI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func newTestMachine(t *testing.T, code []uint32) *Machine {
	t.Helper()
	img := &rv32elf.Image{ROM: make([]byte, 4096), RAM: make([]byte, rv32elf.MinRAMSize), CodeEnd: uint32(len(code) * 4)}
	writeROMCode(img, code)
	m := NewMachine(img, rv32elf.SymbolMap{}, 0)
	// c.ebreak, so a straight-line program without its own halt still stops.
	writeROMHalf(img, uint32(len(code)*4), 0x9002)
	return m
}

func TestStepAddiAndAdd(t *testing.T) {
	// addi x5, x0, 10; addi x6, x0, 32; add x7, x5, x6; ebreak
	code := []uint32{
		asmI(0x13, 5, 0, 0, 10),
		asmI(0x13, 6, 0, 0, 32),
		asmR(0x33, 7, 0, 5, 6, 0),
		asmI(0x73, 0, 0, 0, 1),
	}
	m := newTestMachine(t, code)
	for i := 0; i < 3; i++ {
		res, err := m.Step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Kind != StepContinue {
			t.Fatalf("step %d: expected continue, got %v", i, res.Kind)
		}
	}
	if m.Regs[7] != 42 {
		t.Fatalf("x7 = %d, want 42", m.Regs[7])
	}
	res, err := m.Step()
	if err != nil {
		t.Fatalf("ebreak step: %v", err)
	}
	if res.Kind != StepHalted {
		t.Fatalf("expected StepHalted, got %v", res.Kind)
	}
}

func TestStepBranchLoop(t *testing.T) {
	// Count x5 from 0 to 5 via a backward branch, leave the result in x10.
	// addi x5, x0, 0
	// loop: addi x5, x5, 1 ; addi x6, x0, 5 ; bne x5, x6, loop ; add x10, x5, x0 ; ebreak
	loop := asmI(0x13, 5, 0, 5, 1)
	five := asmI(0x13, 6, 0, 0, 5)
	bne := bTypeFor(t, 0x63, 1, 5, 6, -8) // branch back to `loop`
	mv := asmR(0x33, 10, 0, 5, 0, 0)
	ebreak := asmI(0x73, 0, 0, 0, 1)

	code := []uint32{asmI(0x13, 5, 0, 0, 0), loop, five, bne, mv, ebreak}
	m := newTestMachine(t, code)
	result, err := m.RunUntilHalt()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result != 5 {
		t.Fatalf("result = %d, want 5", result)
	}
}

// bTypeFor encodes a B-type branch instruction with the given signed
// byte offset (must be a multiple of 2).
func bTypeFor(t *testing.T, opcode, funct3, rs1, rs2 uint32, offset int32) uint32 {
	t.Helper()
	u := uint32(offset)
	imm12 := (u >> 12) & 1
	imm11 := (u >> 11) & 1
	imm10_5 := (u >> 5) & 0x3F
	imm4_1 := (u >> 1) & 0xF
	return imm12<<31 | imm10_5<<25 | rs2<<20 | rs1<<15 | funct3<<12 | imm4_1<<8 | imm11<<7 | opcode
}

func TestExecOpMulAndDiv(t *testing.T) {
	// addi x5, x0, 6 ; addi x6, x0, 7 ; mul x7, x5, x6 ; ebreak
	code := []uint32{
		asmI(0x13, 5, 0, 0, 6),
		asmI(0x13, 6, 0, 0, 7),
		asmR(0x33, 7, 0, 5, 6, 0x01),
		asmI(0x73, 0, 0, 0, 1),
	}
	m := newTestMachine(t, code)
	if _, err := m.RunUntilHalt(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.Regs[7] != 42 {
		t.Fatalf("x7 = %d, want 42 (6*7)", m.Regs[7])
	}
}

func TestDivByZeroIsAllOnes(t *testing.T) {
	// RISC-V semantics: x/0 = -1 (all-ones) for signed DIV, remainder is the dividend.
	if got := int32(divS(10, 0)); got != -1 {
		t.Fatalf("divS(10,0) = %d, want -1", got)
	}
	if got := remS(10, 0); got != 10 {
		t.Fatalf("remS(10,0) = %d, want 10", got)
	}
	if got := divU(10, 0); got != 0xFFFFFFFF {
		t.Fatalf("divU(10,0) = %d, want 0xFFFFFFFF", got)
	}
}

func TestDivOverflowMatchesRiscVSpec(t *testing.T) {
	const intMin = int32(-2147483648)
	if got := int32(divS(intMin, -1)); got != intMin {
		t.Fatalf("divS(INT_MIN,-1) = %d, want INT_MIN unchanged", got)
	}
	if got := remS(intMin, -1); got != 0 {
		t.Fatalf("remS(INT_MIN,-1) = %d, want 0", got)
	}
}

func TestCompressedLiAndEbreak(t *testing.T) {
	// c.li x5, 10  (quadrant 01, funct3 010): imm[5] at bit 12, rd at
	// bits [11:7], imm[4:0] at bits [6:2], quadrant at bits [1:0].
	const imm = uint16(10)
	cLi := uint16(0x2)<<13 | (imm>>5&1)<<12 | uint16(5)<<7 | (imm&0x1F)<<2 | 0x1
	// c.ebreak
	cEbreak := uint16(0x9002)

	img := &rv32elf.Image{ROM: make([]byte, 64), RAM: make([]byte, rv32elf.MinRAMSize)}
	writeROMHalf(img, 0, cLi)
	writeROMHalf(img, 2, cEbreak)
	img.CodeEnd = 4
	m := NewMachine(img, rv32elf.SymbolMap{}, 0)

	res, err := m.Step()
	if err != nil {
		t.Fatalf("step c.li: %v", err)
	}
	if res.Kind != StepContinue {
		t.Fatalf("expected continue after c.li, got %v", res.Kind)
	}
	if m.Regs[5] != 10 {
		t.Fatalf("x5 = %d, want 10", m.Regs[5])
	}
	res, err = m.Step()
	if err != nil {
		t.Fatalf("step c.ebreak: %v", err)
	}
	if res.Kind != StepHalted {
		t.Fatalf("expected StepHalted after c.ebreak, got %v", res.Kind)
	}
}

func TestStepRegisterSnapshotMatchesExpected(t *testing.T) {
	// addi x5, x0, 10 ; addi x6, x0, 32 ; add x7, x5, x6 ; ebreak, then
	// compare the full register file against a hand-built expectation —
	// a case wide enough that a plain reflect.DeepEqual failure message
	// wouldn't say which lane differs, so this follows the project's own
	// "structurally large value, readable diff" rule and reaches for
	// github.com/kr/pretty's pretty.Diff instead of a hand-rolled dump.
	code := []uint32{
		asmI(0x13, 5, 0, 0, 10),
		asmI(0x13, 6, 0, 0, 32),
		asmR(0x33, 7, 0, 5, 6, 0),
		asmI(0x73, 0, 0, 0, 1),
	}
	m := newTestMachine(t, code)
	if _, err := m.RunUntilHalt(); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := [32]uint32{}
	want[5] = 10
	want[6] = 32
	want[7] = 42

	if diff := pretty.Diff(want, m.Regs); len(diff) > 0 {
		t.Fatalf("register file mismatch:\n%s", pretty.Sprint(diff))
	}
}

func TestCallFunctionReturnsA0(t *testing.T) {
	// A minimal callee: add a0, a0, a1 ; jalr x0, ra, 0  (ret)
	addA0A1 := asmR(0x33, 10, 0, 10, 11, 0)
	ret := asmI(0x67, 0, 0, 1, 0)
	code := []uint32{addA0A1, ret}

	img := &rv32elf.Image{ROM: make([]byte, 4096), RAM: make([]byte, rv32elf.MinRAMSize), CodeEnd: uint32(len(code) * 4)}
	writeROMCode(img, code)
	m := NewMachine(img, rv32elf.SymbolMap{}, 0)
	m.setReg(2, rv32elf.RAMStart+uint32(len(img.RAM)))
	if err := img.WriteHalf(rv32elf.RAMStart, 0x9002); err != nil {
		t.Fatalf("writing trampoline ebreak: %v", err)
	}

	result, err := m.CallFunction(0, []uint32{7, 35}, rv32elf.RAMStart)
	if err != nil {
		t.Fatalf("CallFunction: %v", err)
	}
	if result != 42 {
		t.Fatalf("result = %d, want 42", result)
	}
}
