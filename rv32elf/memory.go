// Package rv32elf loads a riscv32-unknown-none builtins executable and a
// compiled shader object together into one flat emulator memory image,
// resolving the object's relocations against the merged symbol map.
// Grounded on original_source/lp-riscv/lp-riscv-elf/src/elf_loader:
// symbols.rs's symbol-map-merge semantics, relocations/got.rs's GOT
// tracker, and backtrace.rs's address-to-symbol resolution, ported from
// Rust's object/hashbrown crates to Go's debug/elf and the standard map
// type (spec.md §4.6).
package rv32elf

// RAMStart is the fixed base address of guest RAM; everything below it
// is ROM (the builtins executable plus the linked-in object's .text/
// .rodata).
const RAMStart uint32 = 0x8000_0000

// MinRAMSize is the minimum RAM region the loader reserves, per spec.md
// §4.6.
const MinRAMSize = 512 * 1024

// romPadding is the safety margin added after the base executable's code
// end, covering PC-relative relocations that reach slightly past the
// measured end of code.
const romPadding = 4*1024 + 4*1024

func isRAMAddress(addr uint32) bool { return addr >= RAMStart }

func align4(n uint32) uint32 { return (n + 3) &^ 3 }
