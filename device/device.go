// Package device defines the narrow capability contract flashvault's core
// requires of a low-level NVM driver.
//
// flashvault never implements this interface itself and never assumes
// anything about the physical device beyond what Device exposes: a page
// table with non-uniform page sizes, and the four primitive operations a
// real flash/NOR/NAND controller supports. Production callers provide their
// own Device backed by the actual hardware driver; this package only ships
// adapters useful for development and testing (see the filedevice
// subpackage).
package device

import "fmt"

// PageDescriptor describes one physical page: its base address and size.
type PageDescriptor struct {
	BaseAddr  uint32
	SizeBytes uint32
}

// PageTable is an ordered, immutable page layout. BaseAddr values must be
// strictly increasing and SizeBytes strictly positive; flashvault validates
// this on Open and rejects malformed tables rather than trusting the driver.
type PageTable []PageDescriptor

// Validate checks the structural invariants PageTable must hold.
func (pt PageTable) Validate() error {
	if len(pt) == 0 {
		return fmt.Errorf("device: empty page table")
	}
	for i, p := range pt {
		if p.SizeBytes == 0 {
			return fmt.Errorf("device: page %d has zero size", i)
		}
		if i > 0 && p.BaseAddr <= pt[i-1].BaseAddr {
			return fmt.Errorf("device: page %d base addr %#x does not strictly increase over page %d base addr %#x",
				i, p.BaseAddr, i-1, pt[i-1].BaseAddr)
		}
	}
	return nil
}

// TotalBytes returns the sum of every page's size.
func (pt PageTable) TotalBytes() uint64 {
	var total uint64
	for _, p := range pt {
		total += uint64(p.SizeBytes)
	}
	return total
}

// Device is the capability surface flashvault's core consumes. Addresses are
// absolute (relative to page 0's BaseAddr), not page-relative.
type Device interface {
	// Init prepares the device for use. It must be called exactly once
	// before any Read/Write/ErasePage call.
	Init() error

	// Read copies len(dst) bytes starting at addr into dst.
	Read(addr uint32, dst []byte) error

	// Write programs len(src) bytes starting at addr. Implementations must
	// only ever clear bits (1→0); flashvault relies on this to reach its
	// crash-safety guarantees and a conforming Device must reject (or at
	// least never silently accept) an attempt to set an already-cleared bit.
	Write(addr uint32, src []byte) error

	// ErasePage resets every byte of the page at pageIdx to 0xFF.
	ErasePage(pageIdx int) error

	// Pages returns the device's page table.
	Pages() PageTable
}
