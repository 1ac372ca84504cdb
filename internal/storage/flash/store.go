package flash

import (
	"fmt"
	"sync"

	"flashvault/device"
)

// openDevices tracks which device.Device values currently back a live
// Store, re-expressing the original module's static g_flash_initialized
// guard (spec §4.3: "a second call is a programming error... implementations
// must detect the re-entry and refuse") for a language where Open is a
// constructor rather than a method on a single global instance. Keyed by
// the Device itself rather than by Store, since it's re-opening the same
// physical device out from under a live Store that's the actual hazard.
var openDevices sync.Map // device.Device -> struct{}

// Config configures a Store (spec §3 "Configuration"). All fields are
// immutable after Open succeeds.
type Config struct {
	// NumCopies is the number of redundant regions N, N >= 2.
	NumCopies int
	// DataBytes is the blob length B, B > 0.
	DataBytes uint32
	// Device is the low-level driver capability the core depends on.
	Device device.Device
	// CRC32 overrides the checksum primitive. Nil selects DefaultCRC32.
	CRC32 CRC32Func
}

// Store holds the module-wide state described in spec §3: whether the
// module has been opened, which region is active, and the per-copy base
// addresses computed by the layout planner. There is no teardown — a Store
// lives for the lifetime of the process, matching spec §5's "one-shot
// lifecycle".
//
// Unlike the original C module (spec §9 "Caller-owned buffer borrowed
// indefinitely"), Store owns its blob buffer outright and exposes it by
// value through Write/Read rather than borrowing a caller pointer — one of
// the two re-expressions the design notes call out as valid for a language
// with normal ownership semantics.
type Store struct {
	dev      device.Device
	crc      CRC32Func
	pages    device.PageTable
	numCopies int
	dataBytes uint32

	copyBaseAddrs []uint32
	basePageIndex []int

	opened        bool
	activeCopyIdx int
	hasValidData  bool
	buffer        []byte
}

// Open validates cfg, plans the region layout, brings up the device, and
// elects the active copy (spec §4.3). It corresponds to the original
// module's init. Calling Open twice with the same Device is a programming
// error and panics, mirroring §4.3's "a second call is a programming error:
// implementations must detect the re-entry and refuse (fatal)" and the
// original source's g_flash_initialized guard.
func Open(cfg Config) (*Store, *StatusError) {
	if cfg.Device == nil {
		panic("flash: Config.Device is nil")
	}
	if cfg.NumCopies < 2 {
		panic(fmt.Sprintf("flash: Config.NumCopies must be >= 2, got %d", cfg.NumCopies))
	}
	if cfg.DataBytes == 0 {
		panic("flash: Config.DataBytes must be > 0")
	}
	if _, already := openDevices.LoadOrStore(cfg.Device, struct{}{}); already {
		panic("flash: Open called twice on the same Device — re-entrant init is a programming error")
	}

	s := &Store{
		dev:       cfg.Device,
		crc:       cfg.CRC32,
		numCopies: cfg.NumCopies,
		dataBytes: cfg.DataBytes,
	}
	if s.crc == nil {
		s.crc = DefaultCRC32
	}

	s.pages = s.dev.Pages()
	bases, err := PlanLayout(s.pages, s.numCopies, s.dataBytes)
	if err != nil {
		return nil, newStatusError(fmt.Errorf("flash: %w", err))
	}
	s.copyBaseAddrs = bases
	s.basePageIndex = make([]int, len(bases))
	for i, base := range bases {
		idx := -1
		for j, p := range s.pages {
			if p.BaseAddr == base {
				idx = j
				break
			}
		}
		if idx < 0 {
			// PlanLayout guarantees every base is a page boundary; this
			// would mean PlanLayout and Store disagree about the page
			// table, which is a programming error, not a device fault.
			panic(fmt.Sprintf("flash: region %d base %#x is not a page boundary", i, base))
		}
		s.basePageIndex[i] = idx
	}

	if err := s.dev.Init(); err != nil {
		return nil, newStatusError(fmt.Errorf("flash: device init: %w: %w", ErrLlInitFault, err))
	}
	s.opened = true

	idx, body, err := s.electActive()
	if err != nil {
		return s, newStatusError(err)
	}
	if idx < 0 {
		s.hasValidData = false
		s.buffer = make([]byte, 0, s.dataBytes)
		return s, newStatusError(fmt.Errorf("flash: %w", ErrNoValidDataFound))
	}

	s.activeCopyIdx = idx
	s.hasValidData = true
	s.buffer = body
	return s, nil
}

// Write pushes blob to flash via the commit engine (spec §4.4). blob must
// be exactly Config.DataBytes long; a length mismatch is a caller
// programming error (the blob size is fixed for the lifetime of the
// Store), not a device fault, so it panics rather than returning a Status.
func (s *Store) Write(blob []byte) *StatusError {
	s.mustBeOpened()
	if uint32(len(blob)) != s.dataBytes {
		panic(fmt.Sprintf("flash: Write: blob length %d != configured %d", len(blob), s.dataBytes))
	}
	if err := s.write(blob); err != nil {
		return newStatusError(err)
	}
	return nil
}

// Read returns a copy of the currently committed blob. After a successful
// Open or Write, this is simply the in-memory buffer; spec §4.5 notes a
// dedicated Read is "an alias for inspect the buffer" unless the caller
// wants a reload from the active region, which ReloadActive provides.
func (s *Store) Read() []byte {
	s.mustBeOpened()
	if !s.hasValidData {
		return nil
	}
	out := make([]byte, len(s.buffer))
	copy(out, s.buffer)
	return out
}

// ReloadActive re-reads the active region's body from the device into the
// internal buffer and returns it, rather than trusting the in-memory copy.
// Useful for tests and for callers who suspect out-of-band tampering.
func (s *Store) ReloadActive() ([]byte, *StatusError) {
	s.mustBeOpened()
	if !s.hasValidData {
		return nil, newStatusError(fmt.Errorf("flash: %w", ErrNoValidDataFound))
	}
	idx, body, err := s.electActive()
	if err != nil {
		return nil, newStatusError(err)
	}
	if idx < 0 {
		return nil, newStatusError(fmt.Errorf("flash: %w", ErrNoValidDataFound))
	}
	s.activeCopyIdx = idx
	s.buffer = body
	return s.Read(), nil
}

// HasValidData reports whether the Store currently holds a committed blob.
func (s *Store) HasValidData() bool { return s.hasValidData }

// ActiveCopyIndex returns the index of the currently active region. Only
// meaningful when HasValidData is true.
func (s *Store) ActiveCopyIndex() int { return s.activeCopyIdx }

// CopyBaseAddrs returns the physical base address of every region, in the
// order computed by the layout planner.
func (s *Store) CopyBaseAddrs() []uint32 {
	out := make([]uint32, len(s.copyBaseAddrs))
	copy(out, s.copyBaseAddrs)
	return out
}

func (s *Store) mustBeOpened() {
	if !s.opened {
		panic("flash: Store used before a successful Open")
	}
}
