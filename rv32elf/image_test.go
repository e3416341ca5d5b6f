package rv32elf

import "testing"

func TestImageReadWriteRoundTrip(t *testing.T) {
	img := newImage(64, MinRAMSize)

	if err := img.WriteWord(RAMStart, 0xdeadbeef); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	v, err := img.ReadWord(RAMStart)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 0xdeadbeef {
		t.Fatalf("ReadWord = 0x%x, want 0xdeadbeef", v)
	}

	if err := img.WriteByte(RAMStart+4, 0x7f); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	b, err := img.ReadByte(RAMStart + 4)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if b != 0x7f {
		t.Fatalf("ReadByte = 0x%x, want 0x7f", b)
	}
}

func TestImageStoreToROMIsRejected(t *testing.T) {
	img := newImage(64, MinRAMSize)
	err := img.WriteWord(0, 1)
	if err == nil {
		t.Fatal("expected an error storing to ROM, got nil")
	}
	memErr, ok := err.(*MemoryError)
	if !ok {
		t.Fatalf("expected *MemoryError, got %T", err)
	}
	if memErr.Kind != MemoryReadOnly {
		t.Fatalf("Kind = %v, want MemoryReadOnly", memErr.Kind)
	}
}

func TestImageMisalignedWordAccessIsRejected(t *testing.T) {
	img := newImage(64, MinRAMSize)
	_, err := img.ReadWord(RAMStart + 1)
	if err == nil {
		t.Fatal("expected an error for a misaligned word read, got nil")
	}
	memErr, ok := err.(*MemoryError)
	if !ok {
		t.Fatalf("expected *MemoryError, got %T", err)
	}
	if memErr.Kind != MemoryMisaligned {
		t.Fatalf("Kind = %v, want MemoryMisaligned", memErr.Kind)
	}
}

func TestImageOutOfRangeAccessIsRejected(t *testing.T) {
	img := newImage(64, MinRAMSize)
	_, err := img.ReadByte(uint32(len(img.ROM)) + 100)
	if err == nil {
		t.Fatal("expected an error for an out-of-range read, got nil")
	}
	memErr, ok := err.(*MemoryError)
	if !ok {
		t.Fatalf("expected *MemoryError, got %T", err)
	}
	if memErr.Kind != MemoryOutOfRange {
		t.Fatalf("Kind = %v, want MemoryOutOfRange", memErr.Kind)
	}
}

func TestNewImageEnforcesMinRAMSize(t *testing.T) {
	img := newImage(64, 16)
	if len(img.RAM) != MinRAMSize {
		t.Fatalf("len(RAM) = %d, want the enforced minimum %d", len(img.RAM), MinRAMSize)
	}
}
