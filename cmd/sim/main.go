package main

import (
	"log"

	"github.com/zintix-labs/packlab/sdk/perf"
)

// makefile runner
func main() {
	bindVar()
	path, err := perf.Run(cfg.pprofmode, executeSimulator)
	if err != nil {
		log.Fatal(err)
	}
	if path != "" {
		log.Printf("profile written to %s", path)
	}
}
