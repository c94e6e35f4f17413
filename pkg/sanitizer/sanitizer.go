package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reNonSlug     = regexp.MustCompile(`[^0-9\p{L}]+`)
	reMultiHyphen = regexp.MustCompile(`-+`)
	reMultiBlank  = regexp.MustCompile(`\n{3,}`)
)

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func collapseHyphens(s string) string {
	s = reMultiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// SanitizeName cleans single-line input such as client names, master names
// and car descriptions. Control characters and whitespace runs collapse to
// single spaces; letter case is preserved.
func SanitizeName(input string) string {
	p := Pipeline{
		stripControl,
		TrimAndNormalize,
	}
	return p.Apply(input)
}

// SanitizeSlug normalizes region and auto service slugs: lowercase, with
// every run of non-letter non-digit characters replaced by a single hyphen.
// Cyrillic letters survive, so "Юго-Запад" stays a usable slug.
func SanitizeSlug(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reNonSlug.ReplaceAllString(s, "-") },
		collapseHyphens,
	}
	return p.Apply(input)
}

// SanitizeFreeText cleans multi-line input such as order descriptions.
// Space runs collapse within each line, line endings normalize to \n, and
// runs of blank lines shrink to a single blank line.
func SanitizeFreeText(input string) string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		lines[i] = SanitizeName(line)
	}
	out := strings.Join(lines, "\n")
	out = reMultiBlank.ReplaceAllString(out, "\n\n")
	return strings.Trim(out, "\n")
}

func SanitizeEmail(input string) string {
	return trimAndLower(input)
}
