package game

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a trap colour, named after its CSS colour keyword
type Color string

const (
	Red    Color = "red"
	Yellow Color = "goldenrod"
	Blue   Color = "royalblue"
	Green  Color = "limegreen"
)

// Lighter shades used to draw flags, so a flag is distinguishable from a
// disclosed mine of the same colour
var flagTints = map[Color]Color{
	Red:    "lightpink",
	Yellow: "khaki",
	Blue:   "cornflowerblue",
	Green:  "darkseagreen",
}

func (c Color) String() string {
	return string(c)
}

func (c Color) Valid() bool {
	_, ok := colornames.Map[string(c)]
	return ok
}

// RGBA resolves the colour; unknown names resolve to black
func (c Color) RGBA() color.RGBA {
	return colornames.Map[string(c)]
}

func (c Color) FlagTint() Color {
	if tint, ok := flagTints[c]; ok {
		return tint
	}
	return c
}

// Palette is the ordered set of trap colours enabled for a game. Flag cycling
// follows its order.
type Palette []Color

// MaxPaletteColors bounds a palette to one snapshot letter per colour
const MaxPaletteColors = 26

func DefaultPalette() Palette {
	return Palette{Red, Yellow, Blue, Green}
}

// ParsePalette reads a comma-separated list of colour names, dropping
// duplicates while keeping the first occurrence's position
func ParsePalette(in string) (Palette, error) {
	var palette Palette
	for _, name := range strings.Split(in, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		c := Color(name)
		if !c.Valid() {
			return nil, fmt.Errorf("unknown colour %q", name)
		}
		if palette.Index(c) < 0 {
			palette = append(palette, c)
		}
	}

	if err := palette.Validate(); err != nil {
		return nil, err
	}
	return palette, nil
}

// Index returns the position of c in the palette, or -1
func (p Palette) Index(c Color) int {
	for i, pc := range p {
		if pc == c {
			return i
		}
	}
	return -1
}

func (p Palette) Contains(c Color) bool {
	return p.Index(c) >= 0
}

// Validate checks that the palette is non-empty, not too large, without
// duplicates and made of known colour names
func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	if len(p) > MaxPaletteColors {
		return fmt.Errorf("%d colours, at most %d allowed", len(p), MaxPaletteColors)
	}
	for i, c := range p {
		if !c.Valid() {
			return fmt.Errorf("unknown colour %q", c)
		}
		if p.Index(c) != i {
			return fmt.Errorf("duplicate colour %q", c)
		}
	}
	return nil
}

func (p Palette) String() string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = string(c)
	}
	return strings.Join(names, ",")
}
