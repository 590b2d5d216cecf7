package contrast

import (
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
)

// Result is the contrast evaluation of one foreground/background pair.
type Result struct {
	Foreground imaging.ColorRecord `json:"foreground"`
	Background imaging.ColorRecord `json:"background"`
	Ratio      float64             `json:"ratio"`
	LargeText  bool                `json:"large_text"`
	MeetsAA    bool                `json:"meets_aa"`
	MeetsAAA   bool                `json:"meets_aaa"`
}

// Passes reports whether the pair meets the given level.
func (r Result) Passes(level Level) bool {
	if level == LevelAAA {
		return r.MeetsAAA
	}
	return r.MeetsAA
}

// Evaluate computes a Result for every ordered pair (i, j), i != j, of colors.
//
// Results are ordered with the foreground index as the outer loop, matching
// the order of colors. Fewer than two colors produce an empty, non-nil slice.
// largeText selects the relaxed thresholds for every pair.
func Evaluate(colors []imaging.ColorRecord, largeText bool) []Result {
	n := len(colors)
	if n < 2 {
		return []Result{}
	}

	lum := make([]float64, n)
	for i, c := range colors {
		lum[i] = Luminance(c.RGB)
	}

	results := make([]Result, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			ratio := ratioFromLuminance(lum[i], lum[j])
			results = append(results, Result{
				Foreground: colors[i],
				Background: colors[j],
				Ratio:      ratio,
				LargeText:  largeText,
				MeetsAA:    Meets(ratio, largeText, LevelAA),
				MeetsAAA:   Meets(ratio, largeText, LevelAAA),
			})
		}
	}
	return results
}

func ratioFromLuminance(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	return (a + 0.05) / (b + 0.05)
}

// Accessible returns the results that pass level, preserving order.
func Accessible(results []Result, level Level) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Passes(level) {
			out = append(out, r)
		}
	}
	return out
}

// Summary counts how many results pass each level.
type Summary struct {
	Pairs      int `json:"pairs"`
	PassingAA  int `json:"passing_aa"`
	PassingAAA int `json:"passing_aaa"`
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Pairs: len(results)}
	for _, r := range results {
		if r.MeetsAA {
			s.PassingAA++
		}
		if r.MeetsAAA {
			s.PassingAAA++
		}
	}
	return s
}
