package emu

import "github.com/ledfx/lpglsl/rv32elf"

// maxBacktraceFrames is spec.md §4.7's walk limit.
const maxBacktraceFrames = 32

// Backtrace symbolicates the current call stack for a trap/panic
// report. spec.md §4.7 describes walking the frame-pointer (s0) chain,
// reading (ra, previous fp) pairs from RAM at [fp] and [fp-4] — that
// walk assumes every callee sets up an s0 frame pointer on entry.
// codegen.go's naive ABI never does (frames are addressed sp-relative
// only, with no saved s0), so there is no fp chain to walk for code this
// module itself compiles: Backtrace reports the single current frame
// from PC rather than fabricating a walk over an s0 register this
// ABI never populates. A future codegen revision that adds frame
// pointers would extend this to the full multi-frame walk; the
// resolver it would reuse (rv32elf.ResolveAddress/FormatBacktrace) is
// already general enough to take a []uint32 of any length.
func (m *Machine) Backtrace() string {
	return rv32elf.FormatBacktrace([]uint32{m.PC}, m.Symbols, m.Mem.CodeEnd)
}
