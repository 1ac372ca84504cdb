package flash

import "fmt"

// electActive implements the active-copy selector (spec §4.3). It scans
// regions in index order and stops at the first region whose header is
// VALID, verifying body CRC (and length). A CRC or length mismatch on a
// VALID region is a hard stop — the design deliberately does not probe
// further regions (§4.3 step 4, §9 "Retry / roll-back on corruption" is an
// unimplemented extension).
//
// On success it returns the elected index and the region's body. On
// NoValidDataFound it returns (-1, nil, nil) — not an error, the normal
// first-boot outcome (spec §7).
func (s *Store) electActive() (int, []byte, error) {
	for i, base := range s.copyBaseAddrs {
		hdrBuf := make([]byte, HeaderSize)
		if err := s.dev.Read(base, hdrBuf); err != nil {
			return -1, nil, fmt.Errorf("flash: read header region %d: %w: %w", i, ErrLlReadFault, err)
		}
		hdr := UnmarshalHeader(hdrBuf)
		if hdr.Validity != ValidValid {
			continue
		}

		body := make([]byte, s.dataBytes)
		if err := s.dev.Read(base+HeaderSize, body); err != nil {
			return -1, nil, fmt.Errorf("flash: read body region %d: %w: %w", i, ErrLlReadFault, err)
		}

		if hdr.Length != s.dataBytes || s.crc(body) != hdr.CRC32 {
			return -1, nil, fmt.Errorf("flash: region %d marked VALID but body does not match header: %w", i, ErrDataCorruptionDetected)
		}

		return i, body, nil
	}
	return -1, nil, nil
}
