package flash

import "fmt"

// write implements the commit engine (spec §4.4): choose the next region
// round-robin, erase it, write body then header-with-clear-validity, verify
// by readback CRC, then atomically promote by invalidating the old region
// before validating the new one. The promotion ordering is load-bearing for
// crash safety (spec §4.4 "Crash analysis") and must never be reversed.
func (s *Store) write(blob []byte) error {
	newIdx := 0
	if s.hasValidData {
		newIdx = (s.activeCopyIdx + 1) % s.numCopies
	}
	newBase := s.copyBaseAddrs[newIdx]

	if err := s.eraseRegion(newIdx); err != nil {
		return err
	}

	hdr := Header{
		Validity: ValidClear,
		Length:   s.dataBytes,
		CRC32:    s.crc(blob),
	}

	if err := s.dev.Write(newBase+HeaderSize, blob); err != nil {
		return fmt.Errorf("flash: write body region %d: %w: %w", newIdx, ErrLlWriteFault, err)
	}

	hdrBuf := make([]byte, HeaderSize)
	MarshalHeader(hdr, hdrBuf)
	if err := s.dev.Write(newBase, hdrBuf); err != nil {
		return fmt.Errorf("flash: write header region %d: %w: %w", newIdx, ErrLlWriteFault, err)
	}

	// Verify by readback before promoting anything.
	readback := make([]byte, s.dataBytes)
	if err := s.dev.Read(newBase+HeaderSize, readback); err != nil {
		return fmt.Errorf("flash: verify readback region %d: %w: %w", newIdx, ErrLlReadFault, err)
	}
	if s.crc(readback) != hdr.CRC32 {
		// Header validity remains ValidClear: this region is discoverable
		// on the next boot as "not yet committed" and will simply be
		// overwritten by the next write (spec §4.4 step 6).
		return fmt.Errorf("flash: verify region %d: %w", newIdx, ErrCrcCheckFailure)
	}

	// Atomic promotion: invalidate old before validating new. This order is
	// the entire crash-safety argument — reversing it would let two regions
	// read VALID simultaneously.
	if s.hasValidData {
		if err := s.writeValidityWord(s.copyBaseAddrs[s.activeCopyIdx], ValidInvalid); err != nil {
			return fmt.Errorf("flash: invalidate region %d: %w: %w", s.activeCopyIdx, ErrLlWriteFault, err)
		}
	}
	if err := s.writeValidityWord(newBase, ValidValid); err != nil {
		return fmt.Errorf("flash: validate region %d: %w: %w", newIdx, ErrLlWriteFault, err)
	}

	s.activeCopyIdx = newIdx
	s.hasValidData = true
	s.buffer = append(s.buffer[:0], blob...)
	return nil
}

// writeValidityWord programs just the 4-byte validity field at a region's
// base address — the single-word program used by commit steps 7a/7b.
func (s *Store) writeValidityWord(base uint32, v Validity) error {
	buf := make([]byte, 4)
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	return s.dev.Write(base, buf)
}

// eraseRegion erases every whole page the region at copyBaseAddrs[idx]
// spans, starting at the page whose base address equals the region's base
// (guaranteed by PlanLayout) and continuing until the region's full
// footprint has been covered.
func (s *Store) eraseRegion(idx int) error {
	footprint := uint64(HeaderSize) + uint64(s.dataBytes)
	pageIdx := s.basePageIndex[idx]
	remaining := footprint
	for remaining > 0 {
		if pageIdx >= len(s.pages) {
			return fmt.Errorf("flash: erase region %d: page table exhausted", idx)
		}
		if err := s.dev.ErasePage(pageIdx); err != nil {
			return fmt.Errorf("flash: erase page %d (region %d): %w: %w", pageIdx, idx, ErrLlEraseFault, err)
		}
		remaining -= min64(remaining, uint64(s.pages[pageIdx].SizeBytes))
		pageIdx++
	}
	return nil
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
