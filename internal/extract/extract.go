// Package extract pulls the target word or phrase out of a raw entry string.
package extract

import (
	"regexp"
	"strings"
)

// DefaultPrefix is the language name stripped from entries such as "English: {word}".
const DefaultPrefix = "english"

var (
	boldRe     = regexp.MustCompile(`\*\*([^*]+?)\*\*`)
	emphasisRe = []*regexp.Regexp{
		regexp.MustCompile(`\*\*(.*?)\*\*`),
		regexp.MustCompile(`_(.*?)_`),
		regexp.MustCompile(`\*(.*?)\*`),
	}
)

// Extractor extracts words from entries. The zero value uses DefaultPrefix.
type Extractor struct {
	prefix *regexp.Regexp
}

// New returns an Extractor that strips the given language prefix.
func New(language string) *Extractor {
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultPrefix
	}
	// The prefix must end at a separator so that "Englishman" keeps its letters.
	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(language) + `(?:\s*:\s*|\s+|$|\s*(?:\{))`)
	return &Extractor{prefix: re}
}

// Word returns the target word of raw using DefaultPrefix.
func Word(raw string) string {
	return New(DefaultPrefix).Word(raw)
}

// Word returns the target word of raw. It never fails: when no convention
// matches, the trimmed input is returned.
func (e *Extractor) Word(raw string) string {
	if e == nil || e.prefix == nil {
		e = New(DefaultPrefix)
	}
	content := strings.TrimSpace(raw)

	if m := boldRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}

	if loc := e.prefix.FindStringIndex(content); loc != nil {
		rest := content[loc[1]:]
		// Keep a brace consumed by the prefix match.
		if strings.HasSuffix(content[loc[0]:loc[1]], "{") {
			rest = "{" + rest
		}
		content = strings.TrimSpace(rest)
	}

	if len(content) >= 2 && strings.HasPrefix(content, "{") && strings.HasSuffix(content, "}") {
		return strings.TrimSpace(content[1 : len(content)-1])
	}
	return content
}

// StripMarkdown removes bold and italic emphasis markers from s.
func StripMarkdown(s string) string {
	for _, re := range emphasisRe {
		s = re.ReplaceAllString(s, "$1")
	}
	return s
}

// StripBold removes double-asterisk markers, keeping their content.
func StripBold(s string) string {
	return boldRe.ReplaceAllString(s, "$1")
}
