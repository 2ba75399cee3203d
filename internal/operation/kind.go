package operation

import "fmt"

// Kind is the canonical identity of an operation, independent of the alias
// it was written with.
type Kind int

const (
	Unknown Kind = iota
	Darken
	Lighten
	Brighten
	Desaturate
	Saturate
	Grayscale
	Rotate
	Mix
	Average
	Complement
	RandomColor
	Alpha
	Contrast
	Readable
	Luminance
	Normalize
)

var kindNames = map[Kind]string{
	Unknown:     "unknown",
	Darken:      "darken",
	Lighten:     "lighten",
	Brighten:    "brighten",
	Desaturate:  "desaturate",
	Saturate:    "saturate",
	Grayscale:   "grayscale",
	Rotate:      "rotate",
	Mix:         "mix",
	Average:     "average",
	Complement:  "complement",
	RandomColor: "randomColor",
	Alpha:       "alpha",
	Contrast:    "contrast",
	Readable:    "readable",
	Luminance:   "luminance",
	Normalize:   "normalize",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds returns every declared kind, Unknown included, in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := Unknown; k <= Normalize; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ProducesColor reports whether a successful application of k yields a
// color literal. Contrast and Luminance yield numbers and Readable yields
// a symbolic token.
func (k Kind) ProducesColor() bool {
	switch k {
	case Contrast, Luminance, Readable:
		return false
	}
	return true
}
