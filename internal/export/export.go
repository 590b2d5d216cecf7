// Package export renders the picked colors and their contrast results as
// JSON, CSV, a plain-text table, or Markdown.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/auracheck-mcp/internal/contrast"
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatText, FormatMarkdown}

// ErrUnknownFormat is returned by ParseFormat and Write for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name, case-insensitively. "md" and "txt" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Report is everything an export shows.
type Report struct {
	Image      string                `json:"image,omitempty"`
	Level      contrast.Level        `json:"level"`
	LargeText  bool                  `json:"large_text"`
	Colors     []imaging.ColorRecord `json:"colors"`
	Results    []contrast.Result     `json:"results"`
	Accessible []contrast.Result     `json:"accessible"`
	Summary    contrast.Summary      `json:"summary"`
}

// NewReport derives the accessible subset and summary from results.
func NewReport(image string, level contrast.Level, largeText bool, colors []imaging.ColorRecord, results []contrast.Result) Report {
	if colors == nil {
		colors = []imaging.ColorRecord{}
	}
	if results == nil {
		results = []contrast.Result{}
	}
	return Report{
		Image:      image,
		Level:      level,
		LargeText:  largeText,
		Colors:     colors,
		Results:    results,
		Accessible: contrast.Accessible(results, level),
		Summary:    contrast.Summarize(results),
	}
}

// Options tweak the text format.
type Options struct {
	// Swatches prefixes each hex value with a truecolor block.
	Swatches bool
}

// Write encodes r to w in the given format.
func Write(w io.Writer, format Format, r Report, opts Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	case FormatText:
		return writeText(w, r, opts)
	case FormatMarkdown:
		return writeMarkdown(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// csvHeader is the column layout of the CSV export: one row per ordered pair.
var csvHeader = []string{
	"foreground", "background", "ratio", "large_text", "meets_aa", "meets_aaa", "accessible",
}

func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, res := range r.Results {
		row := []string{
			res.Foreground.Hex,
			res.Background.Hex,
			FormatRatio(res.Ratio),
			strconv.FormatBool(res.LargeText),
			strconv.FormatBool(res.MeetsAA),
			strconv.FormatBool(res.MeetsAAA),
			strconv.FormatBool(res.Passes(r.Level)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatRatio renders a ratio the way WCAG tools conventionally do, "4.54:1".
func FormatRatio(ratio float64) string {
	return strconv.FormatFloat(ratio, 'f', 2, 64) + ":1"
}

func verdict(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

func writeMarkdown(w io.Writer, r Report) error {
	var b strings.Builder
	b.WriteString("# Contrast report\n\n")
	if r.Image != "" && !strings.HasPrefix(r.Image, "data:") {
		fmt.Fprintf(&b, "Image: `%s`\n\n", r.Image)
	}
	fmt.Fprintf(&b, "Level: **%s**", r.Level)
	if r.LargeText {
		b.WriteString(" (large text)")
	}
	b.WriteString("\n\n## Colors\n\n")
	if len(r.Colors) == 0 {
		b.WriteString("_No colors picked._\n")
	} else {
		b.WriteString("| # | Hex | RGB | HSL |\n|---|-----|-----|-----|\n")
		for i, c := range r.Colors {
			fmt.Fprintf(&b, "| %d | `%s` | %s | %s |\n", i+1, c.Hex, rgbString(c.RGB), hslString(c.HSL))
		}
	}

	b.WriteString("\n## Results\n\n")
	if len(r.Results) == 0 {
		b.WriteString("_Pick at least two colors to compare._\n")
	} else {
		b.WriteString("| Foreground | Background | Ratio | AA | AAA |\n|---|---|---|---|---|\n")
		for _, res := range r.Results {
			fmt.Fprintf(&b, "| `%s` | `%s` | %s | %s | %s |\n",
				res.Foreground.Hex, res.Background.Hex, FormatRatio(res.Ratio),
				verdict(res.MeetsAA), verdict(res.MeetsAAA))
		}
	}

	fmt.Fprintf(&b, "\n%d of %d pairs pass %s.\n", len(r.Accessible), r.Summary.Pairs, r.Level)
	_, err := io.WriteString(w, b.String())
	return err
}

func rgbString(c imaging.RGBColor) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func hslString(c imaging.HSLColor) string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.H, c.S, c.L)
}
