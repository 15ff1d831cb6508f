package cloze

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// canonicalOpen is the marker prefix the generative fallback is asked to emit.
const canonicalOpen = "{{c1::"

var markerRe = regexp.MustCompile(`\{\{c\d+::(.+?)(?:::[^{}]*?)?\}\}`)

// Marker wraps phrase in a cloze marker with the given mask index.
func Marker(index int, phrase string) string {
	return fmt.Sprintf("{{c%d::%s}}", index, phrase)
}

// HasMarker reports whether text carries a marker body for index.
func HasMarker(text string, index int) bool {
	return strings.Contains(text, fmt.Sprintf("c%d::", index))
}

// HasAnyMarker reports whether text carries at least one complete cloze marker.
func HasAnyMarker(text string) bool {
	return markerRe.MatchString(text)
}

// Strip removes every cloze marker from text, keeping the masked phrase
// and dropping any hint.
func Strip(text string) string {
	return markerRe.ReplaceAllString(text, "$1")
}

var hyphens = runes.Map(func(r rune) rune {
	switch r {
	case '\u2010', // hyphen
		'\u2011', // non-breaking hyphen
		'\u2012', // figure dash
		'\u2013', // en dash
		'\u2212', // minus sign
		'\uFE63', // small hyphen-minus
		'\uFF0D': // fullwidth hyphen-minus
		return '-'
	}
	return r
})

// NormalizeHyphens maps hyphen and dash variants onto a plain hyphen.
func NormalizeHyphens(s string) string {
	out, _, err := transform.String(hyphens, s)
	if err != nil {
		return s
	}
	return out
}
