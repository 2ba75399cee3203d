package operation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bennypowers.dev/coloradjust/internal/colormath"
)

// defaultAmount is used when a percentage operation is written without an
// argument, as in darken().
const defaultAmount = 10

type call struct {
	op      string
	current string
	color   colormath.Color
	args    []string
}

type rule func(r *Registry, c call) (string, error)

var rules = map[Kind]rule{
	Unknown:     identity,
	Darken:      percentage(colormath.Color.Darken),
	Lighten:     percentage(colormath.Color.Lighten),
	Brighten:    percentage(colormath.Color.Brighten),
	Desaturate:  percentage(colormath.Color.Desaturate),
	Saturate:    percentage(colormath.Color.Saturate),
	Grayscale:   grayscale,
	Rotate:      rotate,
	Mix:         mix,
	Average:     average,
	Complement:  complement,
	RandomColor: randomColor,
	Alpha:       alpha,
	Contrast:    contrast,
	Readable:    readable,
	Luminance:   luminance,
	Normalize:   normalize,
}

// identity passes unknown operations through unchanged.
func identity(_ *Registry, c call) (string, error) {
	return c.current, nil
}

func percentage(adjust func(colormath.Color, float64) colormath.Color) rule {
	return func(_ *Registry, c call) (string, error) {
		amount := float64(defaultAmount)
		switch len(c.args) {
		case 0:
		case 1:
			v, err := parsePercent(c.op, c.args[0])
			if err != nil {
				return "", err
			}
			if v < 0 || v > 100 {
				return "", NewOutOfRangeError(c.op, c.args[0], "amount must be between 0 and 100")
			}
			amount = v
		default:
			return "", arityError(c, "at most 1")
		}
		return adjust(c.color, amount).String(), nil
	}
}

func grayscale(_ *Registry, c call) (string, error) {
	if len(c.args) != 0 {
		return "", arityError(c, "no")
	}
	return c.color.Grayscale().String(), nil
}

func rotate(_ *Registry, c call) (string, error) {
	if len(c.args) != 1 {
		return "", arityError(c, "1")
	}
	degrees, err := parseNumber(c.op, c.args[0])
	if err != nil {
		return "", err
	}
	return c.color.Spin(degrees).String(), nil
}

func mix(_ *Registry, c call) (string, error) {
	if len(c.args) < 1 || len(c.args) > 2 {
		return "", arityError(c, "1 or 2")
	}
	other, err := operand(c, c.args[0])
	if err != nil {
		return "", err
	}
	weight := 50.0
	if len(c.args) == 2 {
		weight, err = parsePercent(c.op, c.args[1])
		if err != nil {
			return "", err
		}
		if weight < 0 || weight > 100 {
			return "", NewOutOfRangeError(c.op, c.args[1], "weight must be between 0 and 100")
		}
	}
	return c.color.Mix(other, weight).String(), nil
}

func average(_ *Registry, c call) (string, error) {
	if len(c.args) != 1 {
		return "", arityError(c, "1")
	}
	other, err := operand(c, c.args[0])
	if err != nil {
		return "", err
	}
	return c.color.Mix(other, 50).String(), nil
}

func complement(_ *Registry, c call) (string, error) {
	if len(c.args) != 0 {
		return "", arityError(c, "no")
	}
	return c.color.Complement().HexString(), nil
}

func randomColor(r *Registry, c call) (string, error) {
	if len(c.args) != 0 {
		return "", arityError(c, "no")
	}
	return colormath.Random(r.random).HexString(), nil
}

// alpha accepts a fraction (0.4) or a percentage (40%).
func alpha(_ *Registry, c call) (string, error) {
	if len(c.args) != 1 {
		return "", arityError(c, "1")
	}
	raw := c.args[0]
	var a float64
	if num, ok := strings.CutSuffix(raw, "%"); ok {
		v, err := parseNumber(c.op, num)
		if err != nil {
			return "", err
		}
		if v < 0 || v > 100 {
			return "", NewOutOfRangeError(c.op, raw, "alpha must be between 0% and 100%")
		}
		a = v / 100
	} else {
		v, err := parseNumber(c.op, raw)
		if err != nil {
			return "", err
		}
		if v < 0 || v > 1 {
			return "", NewOutOfRangeError(c.op, raw, "alpha must be between 0 and 1")
		}
		a = v
	}
	return c.color.WithAlpha(a).String(), nil
}

func contrast(_ *Registry, c call) (string, error) {
	if len(c.args) != 1 {
		return "", arityError(c, "1")
	}
	other, err := operand(c, c.args[0])
	if err != nil {
		return "", err
	}
	return colormath.FormatNumber(colormath.Contrast(c.color, other)), nil
}

var (
	white = colormath.FromRGBA(1, 1, 1, 1)
	black = colormath.FromRGBA(0, 0, 0, 1)
)

func readable(r *Registry, c call) (string, error) {
	if len(c.args) != 0 {
		return "", arityError(c, "no")
	}
	if colormath.MostReadable(c.color, white, black) == 0 {
		return r.light, nil
	}
	return r.dark, nil
}

func luminance(_ *Registry, c call) (string, error) {
	if len(c.args) != 0 {
		return "", arityError(c, "no")
	}
	return colormath.FormatNumber(c.color.Luminance()), nil
}

func normalize(_ *Registry, c call) (string, error) {
	if len(c.args) != 0 {
		return "", arityError(c, "no")
	}
	return c.color.CompactHex(), nil
}

func operand(c call, literal string) (colormath.Color, error) {
	color, err := colormath.Parse(literal)
	if err != nil {
		return colormath.Color{}, NewInvalidError(c.op, literal, "operand is not a color")
	}
	return color, nil
}

func parseNumber(op, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, NewInvalidError(op, s, "not a number")
	}
	return v, nil
}

// parsePercent reads a number with an optional trailing percent sign.
func parsePercent(op, s string) (float64, error) {
	return parseNumber(op, strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

func arityError(c call, want string) error {
	return NewInvalidError(c.op, strings.Join(c.args, ","), fmt.Sprintf("expects %s argument(s), got %d", want, len(c.args)))
}
