package rv32elf

import (
	"bytes"
	"debug/elf"

	"github.com/pkg/errors"
)

// Loaded is the emulator-ready result of merging a builtins base image
// and a compiled shader object: one flat ROM+RAM Image, plus the merged
// symbol map the emulator's backtrace symbolicator and linker-script
// entry stub both consult.
type Loaded struct {
	Image   *Image
	Symbols SymbolMap
	// Load picks no entry point, since a module may export several
	// callable functions; the caller resolves the one it wants through
	// Symbols[name].
}

// linkerSymbols are the names spec.md §4.6 says the guest entry stub
// reads to zero BSS and copy .data. This compiler's shaders carry no
// mutable global state (every value lives in a function's own stack
// frame — gtype has no notion of a GLSL global variable this spec
// exposes), so .bss/.data are always empty; Load still looks these
// names up when present and otherwise fills in the documented
// degenerate values (zero-length regions at RAM's start) rather than
// aborting, since nothing in this module's object files ever defines
// them.
var linkerSymbols = []string{
	"__bss_target_start", "__bss_target_end",
	"__data_target_start", "__data_target_end",
	"__data_source_start", "__global_pointer$", "__stack_start",
}

// Load merges baseBytes (the builtins executable, itself a relocatable
// object per target.BuildBuiltinsObject) and objBytes (a
// target.Rv32Object's Bytes) into one Image, applies every relocation
// in objBytes' .rela.text, and verifies every symbol requiredBuiltins
// names is defined and non-zero.
func Load(baseBytes, objBytes []byte, requiredBuiltins []string) (*Loaded, error) {
	if len(baseBytes) == 0 {
		return nil, errors.New("E0400: builtins image is empty; install one with lpglsl.SetBuiltinsImage before compiling for the emulator target")
	}

	baseFile, err := elf.NewFile(bytes.NewReader(baseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "E0400: parsing builtins executable")
	}
	objFile, err := elf.NewFile(bytes.NewReader(objBytes))
	if err != nil {
		return nil, errors.Wrap(err, "E0400: parsing compiled object")
	}

	baseText, err := sectionBytes(baseFile, ".text")
	if err != nil {
		return nil, err
	}
	objText, err := sectionBytes(objFile, ".text")
	if err != nil {
		return nil, err
	}

	textBase := align4(uint32(len(baseText)))
	codeEnd := textBase + uint32(len(objText))
	romSize := align4(codeEnd) + romPadding

	objData, _ := sectionBytes(objFile, ".data")
	ramSize := align4(uint32(len(objData))) + MinRAMSize

	img := newImage(romSize, ramSize)
	copy(img.ROM, baseText)
	copy(img.ROM[textBase:], objText)
	copy(img.RAM, objData)
	img.CodeEnd = codeEnd

	symbols := SymbolMap{}
	if err := buildSymbolMap(symbols, baseFile, 0); err != nil {
		return nil, err
	}
	if err := buildSymbolMap(symbols, objFile, textBase); err != nil {
		return nil, err
	}

	relocs, err := readRelaText(objFile, textBase, symbols)
	if err != nil {
		return nil, err
	}
	if err := applyRelocations(img, relocs); err != nil {
		return nil, err
	}

	if err := requireBuiltins(symbols, requiredBuiltins); err != nil {
		return nil, err
	}
	forwardLinkerSymbols(symbols)

	return &Loaded{Image: img, Symbols: symbols}, nil
}

func sectionBytes(f *elf.File, name string) ([]byte, error) {
	sec := f.Section(name)
	if sec == nil {
		return nil, nil
	}
	data, err := sec.Data()
	if err != nil {
		return nil, errors.Wrapf(err, "E0400: reading section %q", name)
	}
	return data, nil
}

// forwardLinkerSymbols fills in the degenerate (zero-length, RAM-start)
// values for any of linkerSymbols not already defined by the object,
// per this package's doc comment on linkerSymbols.
func forwardLinkerSymbols(symbols SymbolMap) {
	for _, name := range linkerSymbols {
		if _, ok := symbols[name]; !ok {
			symbols[name] = RAMStart
		}
	}
}
