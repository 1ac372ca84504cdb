package flash

import "hash/crc32"

// CRC32 is the checksum primitive the core requires of its collaborator
// (spec §6): the standard IEEE 802.3 polynomial 0xEDB88320 (reflected),
// i.e. the conventional zlib-compatible "CRC-32". It is kept as an
// injectable function — exactly like device.Device, the core never hard-
// codes an implementation — so callers on real hardware can swap in a
// driver-accelerated CRC unit without touching this package.
type CRC32Func func([]byte) uint32

// DefaultCRC32 computes the standard IEEE CRC-32 using the stdlib table,
// the same hash/crc32 package the teacher's page codec uses for its own
// (Castagnoli) checksums — only the polynomial differs, since spec §6 fixes
// the on-device wire format to the conventional CRC-32.
func DefaultCRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
