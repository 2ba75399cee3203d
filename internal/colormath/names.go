package colormath

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mazznoer/csscolorparser"
)

// hexToName maps rrggbb to a CSS color name. Where two names share a value
// (gray/grey, aqua/cyan, fuchsia/magenta) the alphabetically later name is
// reported.
var hexToName = func() map[string]string {
	m := make(map[string]string, len(csscolorparser.NamedColors))
	for _, name := range slices.Sorted(maps.Keys(csscolorparser.NamedColors)) {
		rgb := csscolorparser.NamedColors[name]
		m[fmt.Sprintf("%02x%02x%02x", rgb[0], rgb[1], rgb[2])] = name
	}
	return m
}()
