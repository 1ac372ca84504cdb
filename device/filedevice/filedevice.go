// Package filedevice adapts a flat host file into a device.Device, standing
// in for real NVM so flashvault can be exercised and demoed without
// hardware. It is not part of flashvault's core: the core only ever depends
// on device.Device.
//
// This mirrors the original C implementation's file_io stub (a byte array
// mapped 1:1 onto a file) with one deliberate deviation: a new or
// short file is extended with 0xFF, not zero, because 0xFF is flash's erased
// state (§3 of the spec) and zero-filling would make a fresh file look like
// every region's validity word is INVALID rather than erased.
package filedevice

import (
	"fmt"
	"os"

	"flashvault/device"
)

// FileDevice implements device.Device by mapping the page table onto a flat
// file. Each Write enforces flash's 1→0-only programming semantics so that a
// codec bug (attempting to set an already-cleared bit) fails loudly instead
// of silently corrupting the simulated device.
type FileDevice struct {
	path   string
	pages  device.PageTable
	file   *os.File
	inited bool
}

// New creates a FileDevice backed by path, using the given page table. The
// file is created (and zero-length) if it does not already exist; Init
// performs the erased-state extension.
func New(path string, pages device.PageTable) (*FileDevice, error) {
	if err := pages.Validate(); err != nil {
		return nil, fmt.Errorf("filedevice: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("filedevice: open %s: %w", path, err)
	}
	return &FileDevice{path: path, pages: pages, file: f}, nil
}

// Init extends the backing file to the full span of the page table, padding
// any newly-created bytes with 0xFF (flash's erased state).
func (d *FileDevice) Init() error {
	if d.inited {
		panic("filedevice: Init called twice")
	}
	total := d.pages.TotalBytes()
	info, err := d.file.Stat()
	if err != nil {
		return fmt.Errorf("filedevice: stat: %w", err)
	}
	if uint64(info.Size()) < total {
		pad := make([]byte, total-uint64(info.Size()))
		for i := range pad {
			pad[i] = 0xFF
		}
		if _, err := d.file.WriteAt(pad, info.Size()); err != nil {
			return fmt.Errorf("filedevice: extend: %w", err)
		}
	}
	d.inited = true
	return nil
}

// Read copies len(dst) bytes from addr.
func (d *FileDevice) Read(addr uint32, dst []byte) error {
	if _, err := d.file.ReadAt(dst, int64(addr)); err != nil {
		return fmt.Errorf("filedevice: read at %#x: %w", addr, err)
	}
	return nil
}

// Write programs len(src) bytes at addr, rejecting any 0→1 bit transition.
func (d *FileDevice) Write(addr uint32, src []byte) error {
	cur := make([]byte, len(src))
	if _, err := d.file.ReadAt(cur, int64(addr)); err != nil {
		return fmt.Errorf("filedevice: write readback at %#x: %w", addr, err)
	}
	for i, b := range src {
		if b&^cur[i] != 0 {
			return fmt.Errorf("filedevice: write at %#x+%d would set a 1-bit (cur=%08b new=%08b), violates program-only-clears-bits physics",
				addr, i, cur[i], b)
		}
	}
	if _, err := d.file.WriteAt(src, int64(addr)); err != nil {
		return fmt.Errorf("filedevice: write at %#x: %w", addr, err)
	}
	return d.file.Sync()
}

// ErasePage resets every byte of the page at pageIdx to 0xFF.
func (d *FileDevice) ErasePage(pageIdx int) error {
	if pageIdx < 0 || pageIdx >= len(d.pages) {
		return fmt.Errorf("filedevice: page index %d out of range [0,%d)", pageIdx, len(d.pages))
	}
	p := d.pages[pageIdx]
	buf := make([]byte, p.SizeBytes)
	for i := range buf {
		buf[i] = 0xFF
	}
	if _, err := d.file.WriteAt(buf, int64(p.BaseAddr)); err != nil {
		return fmt.Errorf("filedevice: erase page %d: %w", pageIdx, err)
	}
	return d.file.Sync()
}

// Pages returns the configured page table.
func (d *FileDevice) Pages() device.PageTable { return d.pages }

// Close releases the backing file.
func (d *FileDevice) Close() error {
	return d.file.Close()
}
