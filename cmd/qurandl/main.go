package main

import (
	"os"
	"time"
)

// fetchBackoff is the fixed delay between per-surah retry attempts.
const fetchBackoff = time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
