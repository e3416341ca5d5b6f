package rv32elf

import (
	"encoding/binary"
	"fmt"
)

// Image is the flat ROM+RAM byte image the loader builds and the
// emulator then executes against. ROM holds the builtins executable's
// code followed (4-byte aligned) by the compiled object's .text; RAM
// starts at RAMStart and holds the object's .data/.bss, sized to at
// least MinRAMSize.
type Image struct {
	ROM     []byte
	RAM     []byte
	CodeEnd uint32 // end of valid code within ROM
}

func newImage(romSize, ramSize uint32) *Image {
	if ramSize < MinRAMSize {
		ramSize = MinRAMSize
	}
	return &Image{ROM: make([]byte, romSize), RAM: make([]byte, ramSize)}
}

// MemoryErrorKind classifies a MemoryError, per spec.md §4.7's
// Memory/Alignment error split.
type MemoryErrorKind int

const (
	MemoryOutOfRange MemoryErrorKind = iota
	MemoryReadOnly
	MemoryMisaligned
)

// MemoryError is the emulator-facing error Image's exported accessors
// return; the emulator wraps it with the current PC to build its own
// EmulatorError::MemoryError/Alignment variants.
type MemoryError struct {
	Addr uint32
	Size uint32
	Kind MemoryErrorKind
}

func (e *MemoryError) Error() string {
	switch e.Kind {
	case MemoryReadOnly:
		return fmt.Sprintf("store to read-only ROM address 0x%x", e.Addr)
	case MemoryMisaligned:
		return fmt.Sprintf("misaligned %d-byte access at 0x%x", e.Size, e.Addr)
	default:
		return fmt.Sprintf("out-of-range %d-byte access at 0x%x", e.Size, e.Addr)
	}
}

// readWord/writeWord are the loader's own unchecked-for-ROM-protection
// accessors: relocation patching legitimately writes into ROM before
// execution ever starts, which is exactly what the emulator-facing
// WriteWord below must forbid once a guest is running.
func (m *Image) readWord(addr uint32) (uint32, error) {
	buf, off, err := m.region(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[off : off+4]), nil
}

func (m *Image) writeWord(addr uint32, v uint32) error {
	buf, off, err := m.region(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
	return nil
}

func (m *Image) region(addr uint32, size uint32) ([]byte, uint32, error) {
	if isRAMAddress(addr) {
		off := addr - RAMStart
		if off+size > uint32(len(m.RAM)) {
			return nil, 0, &MemoryError{addr, size, MemoryOutOfRange}
		}
		return m.RAM, off, nil
	}
	if addr+size > uint32(len(m.ROM)) {
		return nil, 0, &MemoryError{addr, size, MemoryOutOfRange}
	}
	return m.ROM, addr, nil
}

// ReadByte/ReadHalf/ReadWord/WriteByte/WriteHalf/WriteWord are the
// guest-facing accessors emu uses for LB/LH/LW/SB/SH/SW: word accesses
// require 4-byte alignment (spec.md §4.7), and every store rejects a ROM
// target.

func (m *Image) ReadByte(addr uint32) (byte, error) {
	buf, off, err := m.region(addr, 1)
	if err != nil {
		return 0, err
	}
	return buf[off], nil
}

func (m *Image) ReadHalf(addr uint32) (uint16, error) {
	buf, off, err := m.region(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[off : off+2]), nil
}

func (m *Image) ReadWord(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, &MemoryError{addr, 4, MemoryMisaligned}
	}
	return m.readWord(addr)
}

func (m *Image) WriteByte(addr uint32, v byte) error {
	if !isRAMAddress(addr) {
		return &MemoryError{addr, 1, MemoryReadOnly}
	}
	buf, off, err := m.region(addr, 1)
	if err != nil {
		return err
	}
	buf[off] = v
	return nil
}

func (m *Image) WriteHalf(addr uint32, v uint16) error {
	if !isRAMAddress(addr) {
		return &MemoryError{addr, 2, MemoryReadOnly}
	}
	buf, off, err := m.region(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(buf[off:off+2], v)
	return nil
}

func (m *Image) WriteWord(addr uint32, v uint32) error {
	if addr%4 != 0 {
		return &MemoryError{addr, 4, MemoryMisaligned}
	}
	if !isRAMAddress(addr) {
		return &MemoryError{addr, 4, MemoryReadOnly}
	}
	return m.writeWord(addr, v)
}
