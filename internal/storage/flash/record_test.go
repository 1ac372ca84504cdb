package flash

import "testing"

func TestHeader_MarshalRoundTrip(t *testing.T) {
	h := Header{Validity: ValidValid, Length: 100, CRC32: 0xDEADBEEF}
	buf := make([]byte, HeaderSize)
	MarshalHeader(h, buf)
	h2 := UnmarshalHeader(buf)
	if h2 != h {
		t.Fatalf("header roundtrip mismatch: %+v vs %+v", h, h2)
	}
}

func TestHeader_ValidityByteLayout(t *testing.T) {
	// Validity must occupy the first 4 bytes, little-endian, so a region's
	// state can be read with a single 4-byte access (spec §6).
	buf := make([]byte, HeaderSize)
	MarshalHeader(Header{Validity: ValidValid}, buf)
	if buf[0] != 0x55 || buf[1] != 0x55 || buf[2] != 0x55 || buf[3] != 0x55 {
		t.Fatalf("unexpected validity bytes: % x", buf[:4])
	}
}

func TestValidity_TransitionsOnlyClearBits(t *testing.T) {
	transitions := []struct{ from, to Validity }{
		{ValidClear, ValidValid},
		{ValidValid, ValidInvalid},
	}
	for _, tr := range transitions {
		for bit := 0; bit < 32; bit++ {
			fromBit := (uint32(tr.from) >> bit) & 1
			toBit := (uint32(tr.to) >> bit) & 1
			if fromBit == 0 && toBit == 1 {
				t.Fatalf("%v -> %v sets bit %d from 0 to 1, violates program-only-clears physics", tr.from, tr.to, bit)
			}
		}
	}
}

func TestDefaultCRC32_MatchesIEEE(t *testing.T) {
	// Known CRC-32 (IEEE/zlib) of "123456789" is 0xCBF43926 — the standard
	// check value for the polynomial spec §6 mandates.
	got := DefaultCRC32([]byte("123456789"))
	if got != 0xCBF43926 {
		t.Fatalf("DefaultCRC32 = %#x, want 0xcbf43926", got)
	}
}
