// Package flash implements the core of flashvault: the layout planner,
// record codec, active-copy selector, and crash-safe commit engine that sit
// between a single application-data blob and a raw, page-erasable NVM
// device. See the root flashvault package for the public facade.
package flash

import "encoding/binary"

// ───────────────────────────────────────────────────────────────────────────
// Record header
// ───────────────────────────────────────────────────────────────────────────
//
// Layout (12 bytes, little-endian, identical to spec §6):
//
//	[0:4]   validity  — one of ValidClear, ValidValid, ValidInvalid
//	[4:8]   length    — body length in bytes, must equal the configured size
//	[8:12]  crc32     — CRC-32 over exactly `length` body bytes
//
// The header is deliberately never written in a single program operation:
// body and header-with-clear-validity are two writes (commit step 4-5), and
// the validity stamp itself is a third, separate single-word write (commit
// step 7). MarshalHeader/UnmarshalHeader only describe the bytes; they do
// not perform I/O, mirroring pager.MarshalHeader/UnmarshalHeader's split
// between codec and I/O.

const (
	// HeaderSize is the on-device size of a record header in bytes.
	HeaderSize = 12

	hdrValidityOff = 0
	hdrLengthOff   = 4
	hdrCRCOff      = 8
)

// Validity is the 4-byte bit pattern stamped at a region's base address.
// Each forward transition (erased→clear→valid→invalid) only clears bits, so
// it is reachable with a single program operation and no intervening erase
// (spec §3, §4.4 state machine).
type Validity uint32

const (
	// ValidClear is the all-ones pattern left by an erase, and also the
	// value a region is stamped with once its body+header have been
	// written but not yet promoted.
	ValidClear Validity = 0xFFFFFFFF
	// ValidValid marks a region as the currently committed, readable copy.
	ValidValid Validity = 0x55555555
	// ValidInvalid marks a region as superseded.
	ValidInvalid Validity = 0x00000000
)

func (v Validity) String() string {
	switch v {
	case ValidClear:
		return "CLEAR"
	case ValidValid:
		return "VALID"
	case ValidInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Header is the in-memory form of a 12-byte on-device record header.
type Header struct {
	Validity Validity
	Length   uint32
	CRC32    uint32
}

// MarshalHeader writes h into the first HeaderSize bytes of buf.
func MarshalHeader(h Header, buf []byte) {
	if len(buf) < HeaderSize {
		panic("flash: buffer too small for Header")
	}
	binary.LittleEndian.PutUint32(buf[hdrValidityOff:], uint32(h.Validity))
	binary.LittleEndian.PutUint32(buf[hdrLengthOff:], h.Length)
	binary.LittleEndian.PutUint32(buf[hdrCRCOff:], h.CRC32)
}

// UnmarshalHeader reads a Header from the first HeaderSize bytes of buf.
func UnmarshalHeader(buf []byte) Header {
	if len(buf) < HeaderSize {
		panic("flash: buffer too small for Header")
	}
	return Header{
		Validity: Validity(binary.LittleEndian.Uint32(buf[hdrValidityOff:])),
		Length:   binary.LittleEndian.Uint32(buf[hdrLengthOff:]),
		CRC32:    binary.LittleEndian.Uint32(buf[hdrCRCOff:]),
	}
}
