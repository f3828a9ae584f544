package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// IDX magic numbers: unsigned byte tensors of rank 3 (images) and 1 (labels).
const (
	imagesMagic = 0x00000803
	labelsMagic = 0x00000801
)

var _ Imaged = (*IDX)(nil)

// IDX is a dataset loaded from a pair of IDX files, the binary format
// MNIST and FashionMNIST ship in.
type IDX struct {
	images []byte
	labels []byte
	rows   int
	cols   int
}

// LoadIDX reads an images file and its parallel labels file. The two files
// must describe the same number of examples.
func LoadIDX(imagesPath, labelsPath string) (*IDX, error) {
	images, rows, cols, err := readImages(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read images file: %w", err)
	}

	labels, err := readLabels(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}

	if len(images)/(rows*cols) != len(labels) {
		return nil, fmt.Errorf("images and labels disagree on example count: %d vs %d",
			len(images)/(rows*cols), len(labels))
	}

	return &IDX{
		images: images,
		labels: labels,
		rows:   rows,
		cols:   cols,
	}, nil
}

func (d *IDX) Len() int {
	return len(d.labels)
}

func (d *IDX) Label(i int) int {
	return int(d.labels[i])
}

// Image returns the raw pixel bytes of example i, rows*cols long.
func (d *IDX) Image(i int) []byte {
	size := d.rows * d.cols

	return d.images[i*size : (i+1)*size]
}

func (d *IDX) Dims() (rows, cols int) {
	return d.rows, d.cols
}

func readImages(path string) (pixels []byte, rows, cols int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	var header struct {
		Magic uint32
		Count uint32
		Rows  uint32
		Cols  uint32
	}
	if err := binary.Read(f, binary.BigEndian, &header); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if header.Magic != imagesMagic {
		return nil, 0, 0, fmt.Errorf("bad images magic number: %#08x", header.Magic)
	}
	if header.Rows == 0 || header.Cols == 0 {
		return nil, 0, 0, fmt.Errorf("images header declares %dx%d pixels per example", header.Rows, header.Cols)
	}

	pixels = make([]byte, int(header.Count)*int(header.Rows)*int(header.Cols))
	if _, err := io.ReadFull(f, pixels); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read pixel data: %w", err)
	}

	return pixels, int(header.Rows), int(header.Cols), nil
}

func readLabels(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var header struct {
		Magic uint32
		Count uint32
	}
	if err := binary.Read(f, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header.Magic != labelsMagic {
		return nil, fmt.Errorf("bad labels magic number: %#08x", header.Magic)
	}

	labels := make([]byte, header.Count)
	if _, err := io.ReadFull(f, labels); err != nil {
		return nil, fmt.Errorf("failed to read label data: %w", err)
	}

	return labels, nil
}
