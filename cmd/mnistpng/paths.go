package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const envMnistpngOutDir = "MNISTPNG_OUT_DIR"

// resolveOutputDir decides where generated PNGs go. An explicit flag wins,
// then the environment override, then ./out. The directory is created if
// missing and must be writable.
func resolveOutputDir(outFlag string) (string, error) {
	dir := strings.TrimSpace(outFlag)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(envMnistpngOutDir))
	}
	if dir == "" {
		dir = filepath.Join(".", "out")
	}
	dir = filepath.Clean(dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	st, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !st.IsDir() {
		return "", fmt.Errorf("output path is not a directory: %s", dir)
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return "", fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	return dir, nil
}
