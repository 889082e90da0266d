package idx

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func imageFileBytes(t *testing.T, magic, count, rows, cols uint32, pixels []byte) []byte {
	t.Helper()
	buf := make([]byte, 0, 16+len(pixels))
	for _, v := range []uint32{magic, count, rows, cols} {
		buf = binary.BigEndian.AppendUint32(buf, v)
	}
	return append(buf, pixels...)
}

func labelFileBytes(t *testing.T, labels []byte) []byte {
	t.Helper()
	buf := binary.BigEndian.AppendUint32(nil, MagicLabel)
	return append(buf, labels...)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"image magic", binary.BigEndian.AppendUint32(nil, 2051), KindImage},
		{"label magic", binary.BigEndian.AppendUint32(nil, 2049), KindLabel},
		{"image magic with payload", imageFileBytes(t, MagicImage, 1, 1, 1, []byte{0}), KindImage},
		{"arbitrary magic", binary.BigEndian.AppendUint32(nil, 2052), KindUnknown},
		{"zero magic", []byte{0, 0, 0, 0}, KindUnknown},
		{"short file", []byte{0x00, 0x00, 0x08}, KindUnknown},
		{"empty file", nil, KindUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, "candidate.idx", tc.data)
			if got := Classify(path); got != tc.want {
				t.Fatalf("Classify: got %v want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyMissingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "does-not-exist.idx")
	if got := Classify(path); got != KindUnknown {
		t.Fatalf("Classify on missing file: got %v want %v", got, KindUnknown)
	}
}

func TestIsImageIsLabel(t *testing.T) {
	t.Parallel()

	img := writeFile(t, "train-images.idx", imageFileBytes(t, MagicImage, 0, 28, 28, nil))
	lbl := writeFile(t, "train-labels.idx", labelFileBytes(t, nil))

	if !IsImageFile(img) {
		t.Error("expected image file to classify as image")
	}
	if IsLabelFile(img) {
		t.Error("image file must not classify as label")
	}
	if !IsLabelFile(lbl) {
		t.Error("expected label file to classify as label")
	}
	if IsImageFile(lbl) {
		t.Error("label file must not classify as image")
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if got := KindImage.String(); got != "image" {
		t.Errorf("KindImage: got %q", got)
	}
	if got := KindLabel.String(); got != "label" {
		t.Errorf("KindLabel: got %q", got)
	}
	if got := KindUnknown.String(); got != "unknown(0)" {
		t.Errorf("KindUnknown: got %q", got)
	}
}
