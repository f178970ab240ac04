package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/tartampluch/go-mealplan/internal/config"
)

// widthEpsilon absorbs floating point noise when comparing measured widths.
const widthEpsilon = 1e-9

// Wrap breaks text into lines no wider than width when set in f.
// Lines break between words; a word wider than width is broken between
// characters. Explicit newlines always start a new line. Blank text yields no lines.
func Wrap(m TextMeasurer, f Font, width float64, text string) []string {
	text = strings.TrimRightFunc(strings.ReplaceAll(text, "\r\n", "\n"), unicode.IsSpace)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	fits := func(s string) bool {
		return m.MeasureWidth(f, s) <= width+widthEpsilon
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if fits(candidate) {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			if fits(word) {
				current = word
				continue
			}
			pieces := breakWord(fits, word)
			lines = append(lines, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// breakWord splits word into pieces that fit, keeping at least one character
// per piece so that progress is always made.
func breakWord(fits func(string) bool, word string) []string {
	var pieces []string
	var current []rune
	for _, r := range word {
		candidate := append(current, r)
		if len(current) > 0 && !fits(string(candidate)) {
			pieces = append(pieces, string(current))
			current = []rune{r}
			continue
		}
		current = candidate
	}
	return append(pieces, string(current))
}

// MaxLines returns how many whole lines of lineHeight fit in available.
func MaxLines(available, lineHeight float64) int {
	if lineHeight <= 0 || available <= 0 {
		return 0
	}
	return int(math.Floor(available/lineHeight + widthEpsilon))
}

// Truncate limits lines to max. When lines must be dropped, the first max-1
// lines are kept verbatim and the last kept line loses its final three
// characters in favour of "...".
func Truncate(lines []string, max int) []string {
	if max <= 0 {
		return nil
	}
	if len(lines) <= max {
		return lines
	}

	out := make([]string, max)
	copy(out, lines[:max])

	last := []rune(out[max-1])
	if len(last) > config.EllipsisTrimChar {
		last = last[:len(last)-config.EllipsisTrimChar]
	} else {
		last = nil
	}
	out[max-1] = string(last) + config.Ellipsis
	return out
}
