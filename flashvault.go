// Package flashvault is a fail-safe, wear-leveling persistence layer for a
// single contiguous application-data blob stored in page-erasable NVM.
//
// It presents a get/put surface over a raw erase-write-read device and
// guarantees that after an arbitrary crash (power loss at any instant during
// a write) the store either recovers the most recently committed blob or
// reports that no valid blob exists — never a partially updated or silently
// corrupt one. See SPEC_FULL.md for the full design.
//
// The heavy lifting — layout planning, the record codec, active-copy
// election, and the crash-safe commit protocol — lives in
// internal/storage/flash; this package is the thin public facade the way
// the teacher's root tinysql.go package fronts internal/engine and
// internal/storage.
package flashvault

import (
	"flashvault/device"
	"flashvault/internal/storage/flash"
)

// Status is the public status taxonomy (spec §6).
type Status = flash.Status

// The full Status enumeration.
const (
	StatusOK                     = flash.StatusOK
	StatusUninitialized          = flash.StatusUninitialized
	StatusTotalSizeExceeded      = flash.StatusTotalSizeExceeded
	StatusNoValidDataFound       = flash.StatusNoValidDataFound
	StatusDataCorruptionDetected = flash.StatusDataCorruptionDetected
	StatusCrcCheckFailure        = flash.StatusCrcCheckFailure
	StatusLlInitFault            = flash.StatusLlInitFault
	StatusLlWriteFault           = flash.StatusLlWriteFault
	StatusLlReadFault            = flash.StatusLlReadFault
	StatusLlEraseFault           = flash.StatusLlEraseFault
)

// Sentinel errors usable with errors.Is.
var (
	ErrTotalSizeExceeded      = flash.ErrTotalSizeExceeded
	ErrNoValidDataFound       = flash.ErrNoValidDataFound
	ErrDataCorruptionDetected = flash.ErrDataCorruptionDetected
	ErrCrcCheckFailure        = flash.ErrCrcCheckFailure
	ErrLlInitFault            = flash.ErrLlInitFault
	ErrLlWriteFault           = flash.ErrLlWriteFault
	ErrLlReadFault            = flash.ErrLlReadFault
	ErrLlEraseFault           = flash.ErrLlEraseFault
)

// StatusOf extracts the Status carried by an error this package returned.
// It returns StatusOK for a nil error.
func StatusOf(err error) Status { return flash.StatusOf(err) }

// Device re-exports the LLD capability contract so callers implementing
// their own driver only need to import flashvault, not flashvault/device.
type Device = device.Device

// PageTable re-exports the page layout type.
type PageTable = device.PageTable

// PageDescriptor re-exports a single page's base address and size.
type PageDescriptor = device.PageDescriptor

// Config configures a Store (spec §3).
type Config struct {
	// NumCopies is the number of redundant regions N, N >= 2.
	NumCopies int
	// DataBytes is the blob length B, B > 0.
	DataBytes uint32
	// Device is the low-level driver capability this store requires.
	Device Device
	// CRC32 overrides the checksum primitive; nil selects the standard
	// IEEE CRC-32 (spec §6).
	CRC32 func([]byte) uint32
}

// Store is a single open flash-backed blob store. There is no teardown —
// it lives for the lifetime of the process (spec §5).
type Store struct {
	inner *flash.Store
}

// Open validates cfg, plans the region layout, brings up the device, and
// elects the active copy. A non-nil error always carries a Status
// retrievable with StatusOf; StatusNoValidDataFound is the normal
// first-boot outcome, not a fault, and the returned *Store is still usable
// for Write in that case.
func Open(cfg Config) (*Store, error) {
	fc := flash.Config{
		NumCopies: cfg.NumCopies,
		DataBytes: cfg.DataBytes,
		Device:    cfg.Device,
		CRC32:     cfg.CRC32,
	}
	inner, statusErr := flash.Open(fc)
	if inner == nil {
		return nil, asError(statusErr)
	}
	return &Store{inner: inner}, asError(statusErr)
}

// Write persists blob as the new committed data (spec §4.4). blob must be
// exactly Config.DataBytes long.
func (s *Store) Write(blob []byte) error {
	return asError(s.inner.Write(blob))
}

// Read returns a copy of the currently committed blob, or nil if none has
// ever been committed (HasValidData is false).
func (s *Store) Read() []byte { return s.inner.Read() }

// ReloadActive re-reads the active region directly from the device,
// bypassing the in-memory cache.
func (s *Store) ReloadActive() ([]byte, error) {
	blob, statusErr := s.inner.ReloadActive()
	return blob, asError(statusErr)
}

// HasValidData reports whether a blob has ever been successfully committed.
func (s *Store) HasValidData() bool { return s.inner.HasValidData() }

// ActiveCopyIndex returns which redundant region is currently active.
func (s *Store) ActiveCopyIndex() int { return s.inner.ActiveCopyIndex() }

// CopyBaseAddrs returns the physical base address of every region.
func (s *Store) CopyBaseAddrs() []uint32 { return s.inner.CopyBaseAddrs() }

func asError(err *flash.StatusError) error {
	if err == nil {
		return nil
	}
	return err
}
