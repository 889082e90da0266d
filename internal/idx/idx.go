// Package idx decodes the IDX binary container used by the MNIST dataset:
// one file of fixed-size grayscale images and one file of matching labels.
//
// It describes the two-file layout only and never implies anything about the
// output format; callers hand decoded records to whatever encoder they like.
package idx

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	// MagicImage is the big-endian magic number of an IDX image file.
	MagicImage uint32 = 2051

	// MagicLabel is the big-endian magic number of an IDX label file.
	MagicLabel uint32 = 2049
)

// Kind classifies a file by its IDX magic number.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindImage
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindLabel:
		return "label"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Classify reads the leading 4 bytes of the file at path and reports whether
// they match the image or label magic number. Files that cannot be opened or
// are shorter than 4 bytes classify as KindUnknown; classification failure is
// a normal outcome, never an error. The probe closes its handle before
// returning.
func Classify(path string) Kind {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown
	}
	defer func() { _ = f.Close() }()

	var buf [4]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return KindUnknown
	}
	switch binary.BigEndian.Uint32(buf[:]) {
	case MagicImage:
		return KindImage
	case MagicLabel:
		return KindLabel
	default:
		return KindUnknown
	}
}

// IsImageFile reports whether the file at path carries the image magic.
func IsImageFile(path string) bool { return Classify(path) == KindImage }

// IsLabelFile reports whether the file at path carries the label magic.
func IsLabelFile(path string) bool { return Classify(path) == KindLabel }
