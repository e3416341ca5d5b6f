package emu

import (
	"strings"

	"github.com/pkg/errors"
)

// Serial error codes, per spec.md §4.7/§6 and
// lp-emu-shared/guest_serial.rs's SERIAL_ERROR_* constants.
const (
	SerialErrInvalidPointer = -1
	SerialErrBufferFull     = -2
	SerialErrNotAllocated   = -3
)

const serialBufLimit = 128 * 1024

// Serial is the line-oriented byte stream the SERIAL_WRITE/SERIAL_READ/
// SERIAL_HAS_DATA syscalls expose to the guest, paired with the
// TestSerial-style host-side accessors tests use instead of a real
// terminal. Ported from guest_serial.rs's GuestSerial/HostSerial split:
// toGuest is what the host wrote for the guest to read, toHost is what
// the guest wrote for the host to read.
type Serial struct {
	toGuest []byte
	toHost  []byte
}

func NewSerial() *Serial { return &Serial{} }

// GuestWrite appends data to the host-readable stream, returning the
// byte count written or a negative SerialErr* code.
func (s *Serial) GuestWrite(data []byte) int32 {
	if len(s.toHost)+len(data) > serialBufLimit {
		return SerialErrBufferFull
	}
	s.toHost = append(s.toHost, data...)
	return int32(len(data))
}

// GuestRead drains up to len(buf) bytes from the host-written stream.
func (s *Serial) GuestRead(buf []byte) int32 {
	n := copy(buf, s.toGuest)
	s.toGuest = s.toGuest[n:]
	return int32(n)
}

func (s *Serial) GuestHasData() bool { return len(s.toGuest) > 0 }

// HostWrite queues data for the guest to read via SERIAL_READ.
func (s *Serial) HostWrite(data []byte) (int, error) {
	if len(s.toGuest)+len(data) > serialBufLimit {
		return 0, errors.New("serial: host write buffer full")
	}
	s.toGuest = append(s.toGuest, data...)
	return len(data), nil
}

func (s *Serial) HostWriteLine(line string) (int, error) { return s.HostWrite([]byte(line + "\n")) }

// HostRead drains up to len(buf) bytes the guest wrote via SERIAL_WRITE.
func (s *Serial) HostRead(buf []byte) (int, error) {
	n := copy(buf, s.toHost)
	s.toHost = s.toHost[n:]
	return n, nil
}

// HostReadLine pops one newline-delimited (or EOF-terminated) line from
// what the guest has written so far.
func (s *Serial) HostReadLine() string {
	if idx := strings.IndexByte(string(s.toHost), '\n'); idx >= 0 {
		line := string(s.toHost[:idx])
		s.toHost = s.toHost[idx+1:]
		return line
	}
	line := string(s.toHost)
	s.toHost = nil
	return line
}
