package mnist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeIDX writes a big-endian header followed by payload bytes.
func writeIDX(t *testing.T, header []uint32, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, header))
	buf.Write(payload)
	return buf.Bytes()
}

// TestReadImages tests parsing of an image file and pixel scaling.
func TestReadImages(t *testing.T) {
	raw := writeIDX(t, []uint32{0x803, 2, 2, 2}, []byte{0, 255, 51, 102, 1, 2, 3, 4})

	f, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, KindImages, f.Kind())
	assert.Equal(t, 2, f.Count())
	assert.Equal(t, 2, f.Rows())
	assert.Equal(t, 2, f.Columns())

	img, err := f.Image(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0.2, 0.4}, img)

	_, err = f.Image(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = f.Label(0)
	assert.ErrorIs(t, err, ErrWrongKind)
}

// TestReadLabels tests parsing of a label file and one-hot encoding.
func TestReadLabels(t *testing.T) {
	raw := writeIDX(t, []uint32{0x801, 3}, []byte{7, 0, 9})

	f, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, KindLabels, f.Kind())
	assert.Equal(t, 3, f.Count())
	assert.Equal(t, 1, f.Rows())
	assert.Equal(t, 1, f.Columns())

	label, err := f.Label(0)
	require.NoError(t, err)
	assert.Equal(t, 7, label)

	vec, err := f.LabelVector(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, vec)

	_, err = f.Label(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = f.Image(0)
	assert.ErrorIs(t, err, ErrWrongKind)
}

// TestReadErrors tests malformed streams.
func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"bad magic", writeIDX(t, []uint32{0x804, 1}, []byte{1}), ErrInvalidMagic},
		{"short labels", writeIDX(t, []uint32{0x801, 4}, []byte{1, 2}), ErrTruncated},
		{"short images", writeIDX(t, []uint32{0x803, 1, 2, 2}, []byte{1, 2, 3}), ErrTruncated},
		{"declared too large", writeIDX(t, []uint32{0x803, 1 << 20, 1 << 10, 1 << 10}, nil), ErrTooLarge},
		{"declared large but absent", writeIDX(t, []uint32{0x803, 1 << 16, 28, 28}, []byte{1}), ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.raw))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Read(bytes.NewReader([]byte{0, 0}))
	assert.Error(t, err)
}

// TestOneHotInvalid tests labels outside [0, 10).
func TestOneHotInvalid(t *testing.T) {
	f := NewLabels([]byte{12})
	_, err := f.LabelVector(0)
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = OneHot(-1)
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

// TestOpenNotFound tests that missing files are reported explicitly.
func TestOpenNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing-idx3-ubyte"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

// TestOpenGzip tests transparent decompression and the Write round-trip.
func TestOpenGzip(t *testing.T) {
	src := NewImages(1, 3, [][]byte{{10, 20, 30}, {40, 50, 60}})

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	require.NoError(t, src.Write(gz))
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "images-idx3-ubyte.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, src, f)
}
