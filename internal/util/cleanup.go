package util

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

func SetupInterruptHandler(outputDir string, onExit func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		fmt.Println("\nInterrupt received. Cleaning up...")

		if onExit != nil {
			onExit()
		}
		CleanupUnfinishedFiles(outputDir)
		RemoveIfEmpty(outputDir)
		fmt.Println("\nExiting due to interrupt.")

		os.Exit(1)
	}()
}

// CleanupUnfinishedFiles removes temp files left by WriteFileAtomic.
func CleanupUnfinishedFiles(outputDir string) int {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, TempSuffix) {
			continue
		}

		full := filepath.Join(outputDir, name)
		if err := os.Remove(full); err != nil {
			fmt.Printf("Error cleaning up %s: %v\n", full, err)
			continue
		}

		fmt.Printf("Removed %s\n", full)
		removed++
	}

	return removed
}

func RemoveIfEmpty(dir string) {
	if dir == "" || dir == "." {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	if len(entries) == 0 {
		if err := os.Remove(dir); err == nil {
			fmt.Printf("Removed empty output folder: %s\n", dir)
		}
	}
}
