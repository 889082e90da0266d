package idx

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
)

// Header holds the structural metadata of an IDX image file. It is parsed
// once at Open and immutable afterwards.
type Header struct {
	Magic   uint32
	Records uint32
	Rows    uint32
	Columns uint32
}

// Record is one decoded (image, label) pair. The image is opaque grayscale:
// the stored ink density is inverted and replicated across R, G and B. The
// label is the raw label byte rendered as its decimal string.
type Record struct {
	Image *image.NRGBA
	Label string
}

// Dataset is a forward-only, single-pass view over a correlated pair of IDX
// streams. The Nth image corresponds to the Nth label; both streams advance
// in lockstep, one record per Next call. A Dataset must not be shared across
// goroutines and cannot be rewound; re-scanning requires a fresh Open.
type Dataset struct {
	imagePath string
	labelPath string

	images *os.File
	labels *os.File
	imageR *reader
	labelR *reader

	header Header
	pixels int
	idx    uint32
}

// ReadHeader parses the header of the IDX image file at path without
// retaining a handle on it. The magic number is returned as found, not
// validated; use Classify for that.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return Header{}, err
	}

	r := newReader(f, st.Size())
	return readImageHeader(r, path)
}

func readImageHeader(r *reader, path string) (Header, error) {
	var h Header
	var err error
	if h.Magic, err = r.readU32(); err != nil {
		return Header{}, fmt.Errorf("%s: read magic number: %w", path, truncated(err))
	}
	if h.Records, err = r.readU32(); err != nil {
		return Header{}, fmt.Errorf("%s: read record count: %w", path, truncated(err))
	}
	if h.Rows, err = r.readU32(); err != nil {
		return Header{}, fmt.Errorf("%s: read row count: %w", path, truncated(err))
	}
	if h.Columns, err = r.readU32(); err != nil {
		return Header{}, fmt.Errorf("%s: read column count: %w", path, truncated(err))
	}
	return h, nil
}

// Open opens the image and label streams and parses the image header. The
// magic numbers are skipped, not re-validated; callers are expected to have
// classified both files already. The label file carries no dimension fields,
// so only its 4 magic bytes are consumed before the first label byte.
//
// The returned Dataset owns both handles until Close.
func Open(imagePath, labelPath string) (*Dataset, error) {
	images, err := os.Open(imagePath)
	if err != nil {
		return nil, err
	}
	labels, err := os.Open(labelPath)
	if err != nil {
		_ = images.Close()
		return nil, err
	}

	cleanup := func() {
		_ = images.Close()
		_ = labels.Close()
	}

	imageSt, err := images.Stat()
	if err != nil {
		cleanup()
		return nil, err
	}
	labelSt, err := labels.Stat()
	if err != nil {
		cleanup()
		return nil, err
	}

	imageR := newReader(images, imageSt.Size())
	labelR := newReader(labels, labelSt.Size())

	header, err := readImageHeader(imageR, imagePath)
	if err != nil {
		cleanup()
		return nil, err
	}
	if _, err := labelR.readN(4); err != nil {
		cleanup()
		return nil, fmt.Errorf("%s: read magic number: %w", labelPath, truncated(err))
	}

	return &Dataset{
		imagePath: imagePath,
		labelPath: labelPath,
		images:    images,
		labels:    labels,
		imageR:    imageR,
		labelR:    labelR,
		header:    header,
		pixels:    int(header.Rows) * int(header.Columns),
	}, nil
}

// Header returns the parsed image-file header.
func (d *Dataset) Header() Header { return d.header }

// BufferSize returns the declared number of records, so callers can clamp a
// requested processing limit to what is actually available.
func (d *Dataset) BufferSize() int { return int(d.header.Records) }

// HasNext reports whether another record remains to be decoded.
func (d *Dataset) HasNext() bool { return d.idx < d.header.Records }

// Next decodes and returns the record at the cursor, advancing both streams.
// After the declared record count is consumed it returns ErrExhausted; a
// stream running dry before that is reported as ErrTruncated with the record
// index, never as a partially filled image.
func (d *Dataset) Next() (Record, error) {
	if d.idx >= d.header.Records {
		return Record{}, fmt.Errorf("%s: record %d: %w", d.imagePath, d.idx, ErrExhausted)
	}

	raw, err := d.imageR.readN(d.pixels)
	if err != nil {
		return Record{}, fmt.Errorf("%s: record %d pixels: %w", d.imagePath, d.idx, truncated(err))
	}

	// IDX stores 0 as background and 255 as full ink density; invert so ink
	// comes out bright on the conventional display scale.
	img := image.NewNRGBA(image.Rect(0, 0, int(d.header.Columns), int(d.header.Rows)))
	for i, v := range raw {
		gray := 255 - v
		o := i * 4
		img.Pix[o+0] = gray
		img.Pix[o+1] = gray
		img.Pix[o+2] = gray
		img.Pix[o+3] = 0xFF
	}

	labelByte, err := d.labelR.readU8()
	if err != nil {
		return Record{}, fmt.Errorf("%s: record %d label: %w", d.labelPath, d.idx, truncated(err))
	}

	d.idx++
	return Record{
		Image: img,
		Label: strconv.Itoa(int(labelByte)),
	}, nil
}

// Close releases both underlying streams. It is safe to call before the
// dataset is exhausted.
func (d *Dataset) Close() error {
	imgErr := d.images.Close()
	lblErr := d.labels.Close()
	if imgErr != nil {
		return imgErr
	}
	return lblErr
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
