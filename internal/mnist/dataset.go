package mnist

import (
	"fmt"
	"os"
	"path/filepath"
)

// Standard MNIST file names as distributed (and as the hyphenated variant).
var (
	trainImageNames = []string{"train-images.idx3-ubyte", "train-images-idx3-ubyte", "train-images-idx3-ubyte.gz"}
	trainLabelNames = []string{"train-labels.idx1-ubyte", "train-labels-idx1-ubyte", "train-labels-idx1-ubyte.gz"}
)

// Dataset pairs an image file with its label file.
//
// Dataset is the data source consumed by training: every accessor is indexed by the
// same sample number.
type Dataset struct {
	Images *File
	Labels *File
}

// NewDataset pairs two parsed files after checking their kinds and counts.
func NewDataset(images, labels *File) (*Dataset, error) {
	if images.Kind() != KindImages {
		return nil, fmt.Errorf("images: got %s file: %w", images.Kind(), ErrWrongKind)
	}
	if labels.Kind() != KindLabels {
		return nil, fmt.Errorf("labels: got %s file: %w", labels.Kind(), ErrWrongKind)
	}
	if images.Count() != labels.Count() {
		return nil, fmt.Errorf("%w: %d images, %d labels", ErrCountMismatch, images.Count(), labels.Count())
	}
	return &Dataset{Images: images, Labels: labels}, nil
}

// LoadDataset opens an image file and a label file.
func LoadDataset(imagesPath, labelsPath string) (*Dataset, error) {
	images, err := Open(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labels, err := Open(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	return NewDataset(images, labels)
}

// LoadTraining loads the MNIST training set from dir, accepting the usual file names.
func LoadTraining(dir string) (*Dataset, error) {
	return LoadDataset(findFile(dir, trainImageNames), findFile(dir, trainLabelNames))
}

// findFile returns the first existing candidate, or the first candidate so that the
// caller reports a meaningful not-found error.
func findFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, names[0])
}

// Count returns the number of samples.
func (d *Dataset) Count() int { return d.Images.Count() }

// Rows returns the image height.
func (d *Dataset) Rows() int { return d.Images.Rows() }

// Columns returns the image width.
func (d *Dataset) Columns() int { return d.Images.Columns() }

// InputSize returns rows×columns, the input layer size for this dataset.
func (d *Dataset) InputSize() int { return d.Rows() * d.Columns() }

// Image returns sample i scaled to [0, 1].
func (d *Dataset) Image(i int) ([]float32, error) { return d.Images.Image(i) }

// Label returns the class of sample i.
func (d *Dataset) Label(i int) (int, error) { return d.Labels.Label(i) }

// LabelVector returns the one-hot class vector of sample i.
func (d *Dataset) LabelVector(i int) ([]float32, error) { return d.Labels.LabelVector(i) }
