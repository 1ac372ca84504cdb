package flash

import "flashvault/device"

// fakeDevice is an in-memory device.Device used only by this package's own
// tests. It stands in for "the opcode-driven test harness" and "the
// persistence stub" the original spec places out of scope (§1) — the core
// under test never knows this type exists, it only sees device.Device.
//
// It additionally supports crash injection: haltAfter, when >= 0, causes
// every Write/ErasePage call past the Nth byte touched (counting from the
// start of the test) to silently stop — simulating power loss mid-program —
// so tests can assert the crash-safety properties in spec §8.
type fakeDevice struct {
	pages    device.PageTable
	mem      []byte
	touched  int // bytes written/erased so far, for haltAfter accounting
	haltAfter int // -1 = never halt
	halted   bool
	inited   bool
}

func newFakeDevice(pages device.PageTable) *fakeDevice {
	total := pages.TotalBytes()
	mem := make([]byte, total)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &fakeDevice{pages: pages, mem: mem, haltAfter: -1}
}

func (d *fakeDevice) Init() error {
	d.inited = true
	return nil
}

func (d *fakeDevice) Pages() device.PageTable { return d.pages }

func (d *fakeDevice) Read(addr uint32, dst []byte) error {
	copy(dst, d.mem[addr:addr+uint32(len(dst))])
	return nil
}

// Write enforces flash's 1->0-only programming semantics, just like
// filedevice, and additionally honours haltAfter for crash injection: if the
// budget runs out partway through src, the bytes up to the budget are
// applied and the rest are dropped, exactly as a real power-loss mid-program
// would leave a prefix of the word written and the rest untouched.
func (d *fakeDevice) Write(addr uint32, src []byte) error {
	if d.halted {
		return nil
	}
	for i, b := range src {
		if b&^d.mem[int(addr)+i] != 0 {
			panic("fakeDevice: write would set a 1-bit — codec bug")
		}
		if d.haltAfter >= 0 && d.touched >= d.haltAfter {
			d.halted = true
			return nil
		}
		d.mem[int(addr)+i] = b
		d.touched++
	}
	return nil
}

func (d *fakeDevice) ErasePage(pageIdx int) error {
	if d.halted {
		return nil
	}
	p := d.pages[pageIdx]
	for i := uint32(0); i < p.SizeBytes; i++ {
		if d.haltAfter >= 0 && d.touched >= d.haltAfter {
			d.halted = true
			return nil
		}
		d.mem[p.BaseAddr+i] = 0xFF
		d.touched++
	}
	return nil
}

// corrupt flips the bit pattern of a single byte at an absolute address,
// simulating bit-rot independent of any Store operation.
func (d *fakeDevice) corrupt(addr uint32) {
	d.mem[addr] ^= 0xFF
}

func fourPages4K() device.PageTable {
	pages := make(device.PageTable, 4)
	for i := range pages {
		pages[i] = device.PageDescriptor{BaseAddr: uint32(i * 4096), SizeBytes: 4096}
	}
	return pages
}
