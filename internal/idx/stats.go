package idx

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Histogram counts label occurrences by raw byte value.
type Histogram [256]int

// Nonzero returns the histogram as a map keyed by the decimal label string,
// omitting values that never occur.
func (h *Histogram) Nonzero() map[string]int {
	out := make(map[string]int)
	for v, n := range h {
		if n > 0 {
			out[fmt.Sprintf("%d", v)] = n
		}
	}
	return out
}

// Stats computes the label histogram of the IDX label file at path. The whole
// payload after the 4 magic bytes is counted. The file is mapped read-only
// where mmap is available, with a ReadAt fallback otherwise; either way no
// handle or mapping outlives the call.
func Stats(path string) (Histogram, int, error) {
	var hist Histogram

	f, err := os.Open(path)
	if err != nil {
		return hist, 0, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return hist, 0, err
	}
	size64 := st.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return hist, 0, fmt.Errorf("%s: file too large to map", path)
	}
	size := int(size64)
	if size < 4 {
		return hist, 0, fmt.Errorf("%s: read magic number: %w", path, ErrTruncated)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		defer func() { _ = unix.Munmap(data) }()
	} else {
		data, err = readAllAt(f, size)
		if err != nil {
			return hist, 0, fmt.Errorf("%s: %w", path, err)
		}
	}

	labels := data[4:]
	for _, v := range labels {
		hist[v]++
	}
	return hist, len(labels), nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}
