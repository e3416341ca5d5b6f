package rv32elf

import (
	"debug/elf"
	"encoding/binary"

	"github.com/pkg/errors"
)

// relocationInfo is phase 1's output: one relocation entry with its
// symbol reference already resolved against the merged map, mirroring
// elf_loader/relocations/phase1.rs's RelocationInfo.
type relocationInfo struct {
	Address    uint32 // absolute ROM/RAM address the relocation patches
	Type       elf.R_RISCV
	SymbolName string
	SymbolAddr uint32
	Addend     int32
}

// gotEntry mirrors relocations/got.rs's GotEntry/GotTracker: a handful of
// R_RISCV_32 relocations against __lp_*/mangled-code symbols are treated
// as GOT slots rather than ordinary data fixups, tracked separately so a
// future phase could distinguish "GOT write" diagnostics from plain data
// relocations (the registry never currently asks for that distinction,
// but the structure is kept so it's there to extend).
type gotEntry struct {
	SymbolName  string
	Address     uint32
	Initialized bool
}

type gotTracker struct {
	entries map[string]*gotEntry
}

func newGotTracker() *gotTracker { return &gotTracker{entries: map[string]*gotEntry{}} }

func (t *gotTracker) identify(relocs []relocationInfo) {
	for _, r := range relocs {
		if r.Type != elf.R_RISCV_32 {
			continue
		}
		if !(hasPrefix(r.SymbolName, "__lp_") || hasPrefix(r.SymbolName, "_ZN")) {
			continue
		}
		t.entries[r.SymbolName] = &gotEntry{SymbolName: r.SymbolName, Address: r.Address}
	}
}

func hasPrefix(s, p string) bool { return len(s) >= len(p) && s[:len(p)] == p }

// readRelaText decodes an object's .rela.text section into phase-1
// relocationInfo entries, resolving each entry's symbol index against
// the object's own symbol table and then the merged map. textBase is
// where the object's .text section was placed in ROM.
func readRelaText(f *elf.File, textBase uint32, merged SymbolMap) ([]relocationInfo, error) {
	sec := f.Section(".rela.text")
	if sec == nil {
		return nil, nil
	}
	data, err := sec.Data()
	if err != nil {
		return nil, errors.Wrap(err, "E0400: reading .rela.text")
	}
	syms, err := f.Symbols()
	if err != nil {
		return nil, errors.Wrap(err, "E0400: reading symbol table for relocations")
	}

	var out []relocationInfo
	const relaSize = 12
	if len(data)%relaSize != 0 {
		return nil, errors.New("E0400: .rela.text size is not a multiple of Rela32")
	}
	for off := 0; off < len(data); off += relaSize {
		rOff := binary.LittleEndian.Uint32(data[off : off+4])
		rInfo := binary.LittleEndian.Uint32(data[off+4 : off+8])
		rAddend := int32(binary.LittleEndian.Uint32(data[off+8 : off+12]))
		symIdx := rInfo >> 8
		rType := elf.R_RISCV(rInfo & 0xff)
		if symIdx == 0 || int(symIdx) > len(syms) {
			return nil, errors.Errorf("E0400: relocation references invalid symbol index %d", symIdx)
		}
		name := syms[symIdx-1].Name
		addr, ok := merged[name]
		if !ok {
			return nil, errors.Errorf("E0400: undefined symbol %q referenced by relocation", name)
		}
		out = append(out, relocationInfo{
			Address:    textBase + rOff,
			Type:       rType,
			SymbolName: name,
			SymbolAddr: addr,
			Addend:     rAddend,
		})
	}
	return out, nil
}

// applyRelocations is phase 2: patch rom/ram bytes in place for every
// relocation phase 1 resolved, through mem's readWord/writeWord, which
// take absolute addresses spanning both ROM and RAM and, unlike the
// guest-facing WriteWord, allow writes into ROM.
func applyRelocations(mem *Image, relocs []relocationInfo) error {
	got := newGotTracker()
	got.identify(relocs)

	for _, r := range relocs {
		switch r.Type {
		case elf.R_RISCV_32:
			if err := mem.writeWord(r.Address, r.SymbolAddr+uint32(r.Addend)); err != nil {
				return errors.Wrapf(err, "E0400: applying R_RISCV_32 against %q", r.SymbolName)
			}
			if e, ok := got.entries[r.SymbolName]; ok {
				e.Initialized = true
			}

		case elf.R_RISCV_HI20, elf.R_RISCV_PCREL_HI20:
			value := int32(r.SymbolAddr) + r.Addend
			if r.Type == elf.R_RISCV_PCREL_HI20 {
				value -= int32(r.Address)
			}
			if err := patchU20(mem, r.Address, value); err != nil {
				return errors.Wrapf(err, "E0400: applying %v against %q", r.Type, r.SymbolName)
			}

		case elf.R_RISCV_LO12_I, elf.R_RISCV_PCREL_LO12_I:
			if err := patchI12(mem, r.Address, int32(r.SymbolAddr)+r.Addend); err != nil {
				return errors.Wrapf(err, "E0400: applying %v against %q", r.Type, r.SymbolName)
			}
		case elf.R_RISCV_LO12_S, elf.R_RISCV_PCREL_LO12_S:
			if err := patchS12(mem, r.Address, int32(r.SymbolAddr)+r.Addend); err != nil {
				return errors.Wrapf(err, "E0400: applying %v against %q", r.Type, r.SymbolName)
			}

		case elf.R_RISCV_CALL, elf.R_RISCV_CALL_PLT:
			delta := int64(r.SymbolAddr) + int64(r.Addend) - int64(r.Address)
			if delta > (1<<31)-1 || delta < -(1 << 31) {
				return errors.Errorf("E0400: call to %q is out of ±2GiB auipc/jalr range", r.SymbolName)
			}
			if err := patchCallPair(mem, r.Address, int32(delta)); err != nil {
				return errors.Wrapf(err, "E0400: applying R_RISCV_CALL against %q", r.SymbolName)
			}

		case elf.R_RISCV_JAL:
			delta := int64(r.SymbolAddr) + int64(r.Addend) - int64(r.Address)
			if delta > (1<<20)-1 || delta < -(1 << 20) {
				return errors.Errorf("E0400: jump to %q is out of ±1MiB JAL range", r.SymbolName)
			}
			if err := patchJal(mem, r.Address, int32(delta)); err != nil {
				return errors.Wrapf(err, "E0400: applying R_RISCV_JAL against %q", r.SymbolName)
			}

		case elf.R_RISCV_BRANCH:
			delta := int64(r.SymbolAddr) + int64(r.Addend) - int64(r.Address)
			if delta > (1<<12)-1 || delta < -(1 << 12) {
				return errors.Errorf("E0400: branch to %q is out of ±4KiB range", r.SymbolName)
			}
			if err := patchBranch(mem, r.Address, int32(delta)); err != nil {
				return errors.Wrapf(err, "E0400: applying R_RISCV_BRANCH against %q", r.SymbolName)
			}

		default:
			return errors.Errorf("E0400: unsupported relocation type %v against %q", r.Type, r.SymbolName)
		}
	}
	return nil
}
