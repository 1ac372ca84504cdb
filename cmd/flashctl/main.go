// Command flashctl is a small demo and inspection tool for flashvault: it
// opens (or creates) a file-backed simulated NVM device, reports what was
// found on boot, and optionally commits a literal -put string as the new
// blob.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"flashvault"
	"flashvault/device"
	"flashvault/device/filedevice"
)

func main() {
	fs := flag.NewFlagSet("flashctl", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: flashctl [OPTIONS]\n")
		fs.PrintDefaults()
	}

	var (
		flagImage  = fs.String("image", "flashvault.img", "path to the backing file standing in for NVM")
		flagCopies = fs.Int("copies", 2, "number of redundant regions (N)")
		flagSize   = fs.Uint("size", 100, "blob size in bytes (B)")
		flagPage   = fs.Uint("page", 4096, "page size in bytes, uniform across the simulated device")
		flagPages  = fs.Int("pages", 4, "number of pages in the simulated device")
		flagPut    = fs.String("put", "", "commit this literal string as the new blob; if omitted, no write is performed")
	)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatalf("flag parse error: %v", err)
	}

	runID := uuid.New().String()
	log.Printf("run=%s image=%s copies=%d size=%d page=%d pages=%d",
		runID, *flagImage, *flagCopies, *flagSize, *flagPage, *flagPages)

	pages := make(device.PageTable, *flagPages)
	for i := range pages {
		pages[i] = device.PageDescriptor{BaseAddr: uint32(i) * uint32(*flagPage), SizeBytes: uint32(*flagPage)}
	}

	dev, err := filedevice.New(*flagImage, pages)
	if err != nil {
		log.Fatalf("run=%s filedevice.New: %v", runID, err)
	}
	defer dev.Close()

	store, err := flashvault.Open(flashvault.Config{
		NumCopies: *flagCopies,
		DataBytes: uint32(*flagSize),
		Device:    dev,
	})
	switch flashvault.StatusOf(err) {
	case flashvault.StatusOK:
		log.Printf("run=%s opened: active copy=%d data=%q", runID, store.ActiveCopyIndex(), store.Read())
	case flashvault.StatusNoValidDataFound:
		log.Printf("run=%s opened: no committed data yet", runID)
	default:
		log.Fatalf("run=%s Open failed: %v", runID, err)
	}

	if *flagPut == "" {
		return
	}
	blob := make([]byte, *flagSize)
	copy(blob, *flagPut)
	if err := store.Write(blob); err != nil {
		log.Fatalf("run=%s Write failed: %v", runID, err)
	}
	log.Printf("run=%s committed to copy=%d", runID, store.ActiveCopyIndex())
}
