package game

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

// namedPalette returns a palette of the first n known colour names
func namedPalette(n int) Palette {
	palette := make(Palette, n)
	for i, name := range colornames.Names[:n] {
		palette[i] = Color(name)
	}
	return palette
}

func TestParsePalette(t *testing.T) {
	tests := []struct {
		in       string
		expected Palette
	}{
		{in: "red", expected: Palette{Red}},
		{in: "red,royalblue", expected: Palette{Red, Blue}},
		{in: " Royalblue , red ", expected: Palette{Blue, Red}},
		{in: "red,goldenrod,red,limegreen,goldenrod", expected: Palette{Red, Yellow, Green}},
		{in: "red,,limegreen,", expected: Palette{Red, Green}},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			palette, err := ParsePalette(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.expected, palette)
		})
	}
}

func TestParsePaletteErrors(t *testing.T) {
	_, err := ParsePalette("")
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = ParsePalette(" , ")
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = ParsePalette("red,octarine")
	assert.ErrorContains(t, err, "octarine")
}

func TestPaletteValidate(t *testing.T) {
	assert.NoError(t, DefaultPalette().Validate())
	assert.ErrorIs(t, Palette{}.Validate(), ErrEmptyPalette)
	assert.ErrorContains(t, Palette{Red, "octarine"}.Validate(), "unknown")
	assert.ErrorContains(t, Palette{Red, Blue, Red}.Validate(), "duplicate")

	// One snapshot letter per colour
	assert.NoError(t, namedPalette(MaxPaletteColors).Validate())
	assert.ErrorContains(t, namedPalette(MaxPaletteColors+1).Validate(), "at most 26")

	_, err := ParsePalette(namedPalette(MaxPaletteColors + 1).String())
	assert.ErrorContains(t, err, "at most 26")
}

func TestPaletteIndex(t *testing.T) {
	palette := DefaultPalette()

	assert.Equal(t, 0, palette.Index(Red))
	assert.Equal(t, 3, palette.Index(Green))
	assert.Equal(t, -1, palette.Index("purple"))
	assert.True(t, palette.Contains(Blue))
	assert.False(t, Palette{Red}.Contains(Blue))
	assert.Equal(t, "red,goldenrod,royalblue,limegreen", palette.String())
}

func TestColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, A: 255}, Red.RGBA())

	for _, c := range DefaultPalette() {
		assert.True(t, c.Valid(), "%s", c)
		assert.True(t, c.FlagTint().Valid(), "tint of %s", c)
		assert.NotEqual(t, c, c.FlagTint())
	}

	assert.Equal(t, Color("orchid"), Color("orchid").FlagTint())
	assert.False(t, Color("octarine").Valid())
}
