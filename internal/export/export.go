// Package export writes decoded dataset records to disk as PNG files, one
// file per record, named after the record's label.
package export

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/samcharles93/mnistpng/internal/idx"
)

// randomChars is the length of the optional filename disambiguator.
const randomChars = 6

// RecordSource is the pull interface the exporter drains. *idx.Dataset
// satisfies it.
type RecordSource interface {
	HasNext() bool
	BufferSize() int
	Next() (idx.Record, error)
}

// Summary reports what a single Run produced.
type Summary struct {
	Written int            `json:"written"`
	Labels  map[string]int `json:"labels"`
}

// Exporter encodes records into a target directory. Filenames follow
// [_rrrrrr]_<label>_<seq>.png where seq is a per-label counter starting at 1
// and rrrrrr is a random prefix added only when randomise is on.
//
// An Exporter keeps its label counters across Run calls and is not safe for
// concurrent use.
type Exporter struct {
	dir       string
	randomise bool
	counts    map[string]int

	// suffix is a seam for tests.
	suffix func() string
}

func New(dir string, randomise bool) *Exporter {
	return &Exporter{
		dir:       dir,
		randomise: randomise,
		counts:    make(map[string]int),
		suffix:    randomSuffix,
	}
}

func randomSuffix() string {
	u := strings.ReplaceAll(uuid.NewString(), "-", "")
	return u[:randomChars]
}

// Run drains src until limit records are written or the source is exhausted.
// A limit of zero or less, or one beyond the source's size, is clamped to the
// source's size. The first decode or write failure aborts the run; the
// returned summary covers whatever was written before it.
func (e *Exporter) Run(src RecordSource, limit int) (Summary, error) {
	if limit <= 0 || limit > src.BufferSize() {
		limit = src.BufferSize()
	}

	sum := Summary{Labels: make(map[string]int)}
	for src.HasNext() && sum.Written < limit {
		rec, err := src.Next()
		if err != nil {
			return sum, err
		}
		name := e.fileName(rec.Label)
		if err := writePNG(filepath.Join(e.dir, name), rec); err != nil {
			return sum, err
		}
		sum.Written++
		sum.Labels[rec.Label]++
	}
	return sum, nil
}

func (e *Exporter) fileName(label string) string {
	e.counts[label]++
	random := ""
	if e.randomise {
		random = "_" + e.suffix()
	}
	return fmt.Sprintf("%s_%s_%d.png", random, label, e.counts[label])
}

func writePNG(path string, rec idx.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, rec.Image); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
