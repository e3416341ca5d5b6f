package rv32elf

import (
	"debug/elf"

	"github.com/pkg/errors"
)

// SymbolMap is a single string -> address table covering both ROM
// (code-offset) and RAM (absolute) symbols, exactly as symbols.rs's
// HashMap<String, u32> does.
type SymbolMap map[string]uint32

// buildSymbolMap reads f's symbol table and folds it into dst, applying
// symbols.rs's merge rule: defined symbols are preferred over undefined
// ones, and among duplicates the higher address wins (last-definition
// semantics, since a later-linked module's definition should shadow an
// earlier placeholder).
func buildSymbolMap(dst SymbolMap, f *elf.File, base uint32) error {
	syms, err := f.Symbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return errors.Wrap(err, "E0400: reading ELF symbol table")
	}

	type entry struct {
		name    string
		addr    uint32
		defined bool
	}
	var defined, undefined []entry
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		isDefined := s.Section != elf.SHN_UNDEF
		addr := uint32(s.Value)
		if !isRAMAddress(addr) {
			addr += base
		}
		if isDefined {
			defined = append(defined, entry{s.Name, addr, true})
		} else {
			undefined = append(undefined, entry{s.Name, addr, false})
		}
	}

	for _, e := range defined {
		if existing, ok := dst[e.name]; !ok || e.addr > existing {
			dst[e.name] = e.addr
		}
	}
	for _, e := range undefined {
		if _, ok := dst[e.name]; !ok {
			dst[e.name] = e.addr
		}
	}
	return nil
}

// requireBuiltins verifies every symbol the builtin registry promises is
// present in the merged map with a non-zero address, per spec.md §4.6's
// post-load verification. requiredSymbols is the registry's
// AllSymbols(), threaded in rather than imported directly so this
// package has no hard dependency on package builtin's init-time
// registration order.
func requireBuiltins(m SymbolMap, requiredSymbols []string) error {
	for _, name := range requiredSymbols {
		addr, ok := m[name]
		if !ok {
			return errors.Errorf("E0400: required builtin symbol %q missing from merged symbol map", name)
		}
		if addr == 0 {
			return errors.Errorf("E0400: required builtin symbol %q resolved to address 0 (still undefined)", name)
		}
	}
	return nil
}
