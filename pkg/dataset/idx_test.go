package dataset_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenics-sim/fenics/pkg/dataset"
)

func writeIDXPair(t *testing.T, labels []byte, rows, cols int) (imagesPath, labelsPath string) {
	t.Helper()
	dir := t.TempDir()

	var images bytes.Buffer
	require.NoError(t, binary.Write(&images, binary.BigEndian, uint32(0x00000803)))
	require.NoError(t, binary.Write(&images, binary.BigEndian, uint32(len(labels))))
	require.NoError(t, binary.Write(&images, binary.BigEndian, uint32(rows)))
	require.NoError(t, binary.Write(&images, binary.BigEndian, uint32(cols)))
	for i := range labels {
		pixels := make([]byte, rows*cols)
		for j := range pixels {
			pixels[j] = byte(i)
		}
		images.Write(pixels)
	}

	var lbs bytes.Buffer
	require.NoError(t, binary.Write(&lbs, binary.BigEndian, uint32(0x00000801)))
	require.NoError(t, binary.Write(&lbs, binary.BigEndian, uint32(len(labels))))
	lbs.Write(labels)

	imagesPath = filepath.Join(dir, "images-idx3-ubyte")
	labelsPath = filepath.Join(dir, "labels-idx1-ubyte")
	require.NoError(t, os.WriteFile(imagesPath, images.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(labelsPath, lbs.Bytes(), 0o644))

	return imagesPath, labelsPath
}

func TestLoadIDX(t *testing.T) {
	labels := []byte{3, 1, 4, 1, 5}
	imagesPath, labelsPath := writeIDXPair(t, labels, 2, 3)

	ds, err := dataset.LoadIDX(imagesPath, labelsPath)
	require.NoError(t, err)

	assert.Equal(t, len(labels), ds.Len())
	for i, want := range labels {
		assert.Equal(t, int(want), ds.Label(i))
	}

	rows, cols := ds.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)

	img := ds.Image(2)
	assert.Len(t, img, 6)
	assert.Equal(t, byte(2), img[0])
}

func TestLoadIDXBadMagic(t *testing.T) {
	labels := []byte{0, 1}
	imagesPath, labelsPath := writeIDXPair(t, labels, 1, 1)

	_, err := dataset.LoadIDX(labelsPath, labelsPath)
	assert.Error(t, err, "labels file has the wrong magic for images")

	_, err = dataset.LoadIDX(imagesPath, imagesPath)
	assert.Error(t, err, "images file has the wrong magic for labels")
}

func TestLoadIDXZeroDims(t *testing.T) {
	cases := []struct {
		desc string
		rows int
		cols int
	}{
		{desc: "zero rows", rows: 0, cols: 28},
		{desc: "zero cols", rows: 28, cols: 0},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			imagesPath, labelsPath := writeIDXPair(t, []byte{0, 1, 2}, tc.rows, tc.cols)

			_, err := dataset.LoadIDX(imagesPath, labelsPath)
			assert.Error(t, err)
		})
	}
}

func TestLoadIDXMissingFile(t *testing.T) {
	_, err := dataset.LoadIDX("/nonexistent/images", "/nonexistent/labels")
	assert.Error(t, err)
}
