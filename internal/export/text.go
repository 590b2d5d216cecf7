package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/ironsheep/auracheck-mcp/internal/imaging"
)

const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// visibleWidth is the terminal width of s with escape sequences removed.
func visibleWidth(s string) int {
	if strings.ContainsRune(s, 0x1b) {
		s = ansiRe.ReplaceAllString(s, "")
	}
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

func padRight(s string, w int) string {
	if pad := w - visibleWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// Swatch returns a two-cell truecolor block for c.
func Swatch(c imaging.RGBColor) string {
	return fmt.Sprintf("%s%d;%d;%dm  %s", ansiBgPrefix, c.R, c.G, c.B, ansiReset)
}

// table collects rows and prints them with aligned columns.
type table struct {
	rows [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(b *strings.Builder) {
	var widths []int
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for _, row := range t.rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			if i == len(row)-1 {
				line.WriteString(cell)
			} else {
				line.WriteString(padRight(cell, widths[i]))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
}

func writeText(w io.Writer, r Report, opts Options) error {
	hex := func(c imaging.ColorRecord) string {
		if opts.Swatches {
			return Swatch(c.RGB) + " " + c.Hex
		}
		return c.Hex
	}

	var b strings.Builder
	level := string(r.Level)
	if r.LargeText {
		level += " (large text)"
	}
	fmt.Fprintf(&b, "Level: %s\n\n", level)

	fmt.Fprintf(&b, "Colors (%d)\n", len(r.Colors))
	colors := &table{}
	colors.add("#", "HEX", "RGB", "HSL")
	for i, c := range r.Colors {
		colors.add(fmt.Sprintf("%d", i+1), hex(c), rgbString(c.RGB), hslString(c.HSL))
	}
	colors.write(&b)

	fmt.Fprintf(&b, "\nResults (%d pairs, %d pass AA, %d pass AAA)\n",
		r.Summary.Pairs, r.Summary.PassingAA, r.Summary.PassingAAA)
	if len(r.Results) == 0 {
		b.WriteString("Pick at least two colors to compare.\n")
	} else {
		results := &table{}
		results.add("FOREGROUND", "BACKGROUND", "RATIO", "AA", "AAA")
		for _, res := range r.Results {
			results.add(hex(res.Foreground), hex(res.Background), FormatRatio(res.Ratio),
				verdict(res.MeetsAA), verdict(res.MeetsAAA))
		}
		results.write(&b)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
