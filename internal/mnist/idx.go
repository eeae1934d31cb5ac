// Package mnist reads the MNIST handwritten digit dataset in IDX format.
package mnist

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Kind identifies the content of an IDX file by its magic number.
type Kind uint32

// IDX magic numbers.
const (
	KindLabels Kind = 0x00000801 // 2049
	KindImages Kind = 0x00000803 // 2051
)

// NumClasses is the number of digit classes; label vectors have this length.
const NumClasses = 10

// maxSamples bounds the declared size of a file before anything is allocated.
const maxSamples = 1 << 30

// String returns "images" or "labels".
func (k Kind) String() string {
	switch k {
	case KindImages:
		return "images"
	case KindLabels:
		return "labels"
	default:
		return fmt.Sprintf("Kind(%#08x)", uint32(k))
	}
}

// File is a parsed IDX file holding either images or labels.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
//
// All header fields are big-endian. A label file reports one row and one column.
type File struct {
	kind    Kind
	count   int
	rows    int
	columns int
	data    []byte
}

// Open reads an IDX file from disk. Paths ending in ".gz" are decompressed on the fly.
//
// A missing file yields an error matching both ErrNotFound and fs.ErrNotExist.
func Open(path string) (*File, error) {
	//nolint:gosec // G304: Dataset path comes from user input
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	f, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Read parses an IDX stream.
func Read(r io.Reader) (*File, error) {
	// Read magic number
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}

	f := &File{kind: Kind(magic)}
	var count, rows, cols uint32
	switch f.kind {
	case KindLabels:
		if err := binary.Read(r, binary.BigEndian, &count); err != nil {
			return nil, fmt.Errorf("failed to read label count: %w", err)
		}
		rows, cols = 1, 1
	case KindImages:
		for _, dim := range []*uint32{&count, &rows, &cols} {
			if err := binary.Read(r, binary.BigEndian, dim); err != nil {
				return nil, fmt.Errorf("failed to read image dimensions: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: got %#08x, want %#08x or %#08x", ErrInvalidMagic, magic, uint32(KindImages), uint32(KindLabels))
	}

	size := uint64(count) * uint64(rows) * uint64(cols)
	if size > maxSamples {
		return nil, fmt.Errorf("%w: %d bytes declared, max %d", ErrTooLarge, size, maxSamples)
	}

	f.count, f.rows, f.columns = int(count), int(rows), int(cols)
	data, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, fmt.Errorf("read %s data: %w", f.kind, err)
	}
	if uint64(len(data)) < size {
		return nil, fmt.Errorf("%w: %s data has %d of %d bytes", ErrTruncated, f.kind, len(data), size)
	}
	f.data = data

	return f, nil
}

// Kind returns whether the file holds images or labels.
func (f *File) Kind() Kind { return f.kind }

// Count returns the number of samples.
func (f *File) Count() int { return f.count }

// Rows returns the image height (1 for label files).
func (f *File) Rows() int { return f.rows }

// Columns returns the image width (1 for label files).
func (f *File) Columns() int { return f.columns }

// Image returns sample i as rows×columns pixels scaled to [0, 1].
func (f *File) Image(i int) ([]float32, error) {
	if f.kind != KindImages {
		return nil, fmt.Errorf("image %d from %s file: %w", i, f.kind, ErrWrongKind)
	}
	if i < 0 || i >= f.count {
		return nil, fmt.Errorf("image %d of %d: %w", i, f.count, ErrIndexOutOfRange)
	}

	size := f.rows * f.columns
	raw := f.data[i*size : (i+1)*size]
	img := make([]float32, size)
	for j, px := range raw {
		// Normalize: 0-255 → 0.0-1.0
		img[j] = float32(px) / 255
	}
	return img, nil
}

// Label returns the class of sample i.
func (f *File) Label(i int) (int, error) {
	if f.kind != KindLabels {
		return 0, fmt.Errorf("label %d from %s file: %w", i, f.kind, ErrWrongKind)
	}
	if i < 0 || i >= f.count {
		return 0, fmt.Errorf("label %d of %d: %w", i, f.count, ErrIndexOutOfRange)
	}
	return int(f.data[i]), nil
}

// LabelVector returns the one-hot encoding of sample i's class, of length NumClasses.
func (f *File) LabelVector(i int) ([]float32, error) {
	label, err := f.Label(i)
	if err != nil {
		return nil, err
	}
	return OneHot(label)
}

// OneHot encodes a class in [0, NumClasses) as a one-hot vector.
func OneHot(label int) ([]float32, error) {
	if label < 0 || label >= NumClasses {
		return nil, fmt.Errorf("label %d: %w", label, ErrInvalidLabel)
	}
	v := make([]float32, NumClasses)
	v[label] = 1
	return v, nil
}

// Write encodes f in IDX format.
func (f *File) Write(w io.Writer) error {
	header := []uint32{uint32(f.kind), uint32(f.count)}
	if f.kind == KindImages {
		header = append(header, uint32(f.rows), uint32(f.columns))
	}
	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(f.data); err != nil {
		return fmt.Errorf("failed to write %s data: %w", f.kind, err)
	}
	return nil
}
