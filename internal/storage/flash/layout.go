package flash

import (
	"fmt"

	"flashvault/device"
)

// ───────────────────────────────────────────────────────────────────────────
// Layout planner (spec §4.1)
// ───────────────────────────────────────────────────────────────────────────
//
// PlanLayout assigns each of numCopies redundant regions to a page boundary,
// the same "walk the page table accumulating sizes" idiom the teacher's
// free-list capacity/placement logic uses (freelist.go), generalized from a
// single linked chain to N disjoint, whole-page-aligned regions.

// PlanLayout computes the base address of each of numCopies regions within
// pages. Region 0 always starts at the first page's base address; each
// subsequent region starts at the next page boundary after enough
// accumulated page space exists to hold footprint = HeaderSize+dataBytes.
// Returns ErrTotalSizeExceeded if the page table cannot hold numCopies
// regions: when numCopies*(HeaderSize+dataBytes) > sum(page.SizeBytes),
// and also when the total would fit but whole-page-aligned placement runs
// out of pages before every region has room for its footprint.
func PlanLayout(pages device.PageTable, numCopies int, dataBytes uint32) ([]uint32, error) {
	if numCopies < 2 {
		return nil, fmt.Errorf("flash: numCopies must be >= 2, got %d", numCopies)
	}
	if dataBytes == 0 {
		return nil, fmt.Errorf("flash: dataBytes must be > 0")
	}
	if err := pages.Validate(); err != nil {
		return nil, err
	}

	footprint := uint64(HeaderSize) + uint64(dataBytes)
	if uint64(numCopies)*footprint > pages.TotalBytes() {
		return nil, ErrTotalSizeExceeded
	}

	bases := make([]uint32, numCopies)
	bases[0] = pages[0].BaseAddr

	pageIdx := 0
	var bytesAccum uint64
	for k := 1; k < numCopies; k++ {
		placed := false
		for pageIdx < len(pages) {
			bytesAccum += uint64(pages[pageIdx].SizeBytes)
			if bytesAccum >= footprint {
				nextIdx := pageIdx + 1
				if nextIdx >= len(pages) {
					return nil, ErrTotalSizeExceeded
				}
				bases[k] = pages[nextIdx].BaseAddr
				pageIdx = nextIdx
				bytesAccum = 0
				placed = true
				break
			}
			pageIdx++
		}
		if !placed {
			return nil, ErrTotalSizeExceeded
		}
	}

	// The last region has no successor to place, so check directly that
	// the pages from its base to the end of the table hold its footprint.
	var tail uint64
	for _, p := range pages[pageIdx:] {
		tail += uint64(p.SizeBytes)
	}
	if tail < footprint {
		return nil, ErrTotalSizeExceeded
	}

	return bases, nil
}
