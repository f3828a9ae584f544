package dataset

import "strconv"

// FashionMNISTClasses maps label values to the FashionMNIST class names.
var FashionMNISTClasses = []string{
	"T-shirt/top",
	"Trouser",
	"Pullover",
	"Dress",
	"Coat",
	"Sandal",
	"Shirt",
	"Sneaker",
	"Bag",
	"Ankle boot",
}

// ClassName returns the FashionMNIST name for label, or a numeric
// placeholder for labels outside the table.
func ClassName(label int) string {
	if label < 0 || label >= len(FashionMNISTClasses) {
		return "class " + strconv.Itoa(label)
	}

	return FashionMNISTClasses[label]
}
