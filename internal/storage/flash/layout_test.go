package flash

import (
	"errors"
	"testing"

	"flashvault/device"
)

func TestPlanLayout_FourPages4K_TwoCopies(t *testing.T) {
	pages := fourPages4K()
	bases, err := PlanLayout(pages, 2, 100)
	if err != nil {
		t.Fatalf("PlanLayout: %v", err)
	}
	want := []uint32{0, 4096}
	if len(bases) != len(want) || bases[0] != want[0] || bases[1] != want[1] {
		t.Fatalf("bases = %v, want %v", bases, want)
	}
}

func TestPlanLayout_NonUniformPages(t *testing.T) {
	// One small page followed by larger pages — region 0 must still land
	// on a page boundary and region 1 must not overlap it, regardless of
	// whether the first page alone is big enough to hold one record.
	pages := device.PageTable{
		{BaseAddr: 0, SizeBytes: 256},
		{BaseAddr: 256, SizeBytes: 1024},
		{BaseAddr: 1280, SizeBytes: 1024},
		{BaseAddr: 2304, SizeBytes: 1024},
	}
	bases, err := PlanLayout(pages, 2, 100) // footprint = 112
	if err != nil {
		t.Fatalf("PlanLayout: %v", err)
	}
	if bases[0] != 0 {
		t.Fatalf("region 0 base = %#x, want 0", bases[0])
	}
	// 256 bytes < 112? no, 256 >= 112, so region 1 should start at the next
	// page boundary after page 0, i.e. 256.
	if bases[1] != 256 {
		t.Fatalf("region 1 base = %#x, want 0x100", bases[1])
	}
}

func TestPlanLayout_TotalSizeExceeded(t *testing.T) {
	pages := fourPages4K() // 16384 total
	_, err := PlanLayout(pages, 100, 1000)
	if !errors.Is(err, ErrTotalSizeExceeded) {
		t.Fatalf("err = %v, want ErrTotalSizeExceeded", err)
	}
}

func TestPlanLayout_ExactFit(t *testing.T) {
	// Exactly 2 * (HeaderSize + B) == total bytes must succeed, not fail.
	pages := device.PageTable{{BaseAddr: 0, SizeBytes: 100}, {BaseAddr: 100, SizeBytes: 100}}
	_, err := PlanLayout(pages, 2, 100-HeaderSize)
	if err != nil {
		t.Fatalf("exact-fit layout should succeed: %v", err)
	}
}

func TestPlanLayout_RejectsTooFewCopies(t *testing.T) {
	pages := fourPages4K()
	if _, err := PlanLayout(pages, 1, 100); err == nil {
		t.Fatal("expected error for NumCopies < 2")
	}
}

func TestPlanLayout_RejectsInvalidPageTable(t *testing.T) {
	bad := device.PageTable{{BaseAddr: 100, SizeBytes: 0}}
	if _, err := PlanLayout(bad, 2, 100); err == nil {
		t.Fatal("expected error for zero-size page")
	}
}

func TestPlanLayout_ThreeCopiesManyPages(t *testing.T) {
	pages := make(device.PageTable, 8)
	for i := range pages {
		pages[i] = device.PageDescriptor{BaseAddr: uint32(i * 512), SizeBytes: 512}
	}
	bases, err := PlanLayout(pages, 3, 100) // footprint 112, fits in one 512B page
	if err != nil {
		t.Fatalf("PlanLayout: %v", err)
	}
	want := []uint32{0, 512, 1024}
	for i, w := range want {
		if bases[i] != w {
			t.Errorf("bases[%d] = %#x, want %#x", i, bases[i], w)
		}
	}
}
