//go:build !unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// redirectStdIO swaps os.Stdout and os.Stderr. Runtime panics still go to
// the original stderr.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	os.Stdout = f
	os.Stderr = f
	fmt.Printf("--- wordclock pid %d %s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	return nil
}
