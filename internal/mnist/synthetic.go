package mnist

// NewImages builds an image file from raw pixel rows of length rows×columns.
func NewImages(rows, columns int, pixels [][]byte) *File {
	size := rows * columns
	data := make([]byte, len(pixels)*size)
	for i, img := range pixels {
		copy(data[i*size:(i+1)*size], img)
	}
	return &File{kind: KindImages, count: len(pixels), rows: rows, columns: columns, data: data}
}

// NewLabels builds a label file from raw class bytes.
func NewLabels(labels []byte) *File {
	return &File{kind: KindLabels, count: len(labels), rows: 1, columns: 1, data: append([]byte{}, labels...)}
}

// Synthetic creates a deterministic dataset of n samples for demos and tests.
//
// This is NOT realistic MNIST data. Sample i has label i%10 and a bright horizontal band
// whose position depends on the label, so a small network can learn it in a few epochs.
func Synthetic(n, rows, columns int) *Dataset {
	pixels := make([][]byte, n)
	labels := make([]byte, n)

	band := max(rows/NumClasses, 1)
	for i := range pixels {
		digit := i % NumClasses
		labels[i] = byte(digit)

		img := make([]byte, rows*columns)
		start := (digit * rows) / NumClasses
		for row := start; row < start+band && row < rows; row++ {
			for col := columns / 5; col < columns-columns/5; col++ {
				// Vary intensity slightly between samples of the same digit.
				img[row*columns+col] = byte(200 + (i/NumClasses)%56)
			}
		}
		pixels[i] = img
	}

	return &Dataset{Images: NewImages(rows, columns, pixels), Labels: NewLabels(labels)}
}
