package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWord(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bold span wins", "I have the **headspace** to muse", "headspace"},
		{"first bold span", "**one** and **two**", "one"},
		{"bold span trimmed", "a ** big data ** field", "big data"},
		{"prefix with colon and braces", "English: {ephemeral}", "ephemeral"},
		{"lowercase prefix with colon", "english: ephemeral", "ephemeral"},
		{"prefix with space and braces", "English {word}", "word"},
		{"prefix glued to braces", "english{word}", "word"},
		{"prefix with space", "english headspace", "headspace"},
		{"braces only", "{wordonly}", "wordonly"},
		{"plain", "  test word  ", "test word"},
		{"prefix inside a longer word is kept", "Englishman", "Englishman"},
		{"prefix alone", "English:", ""},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Word(tt.raw))
		})
	}
}

func TestExtractor_CustomPrefix(t *testing.T) {
	e := New("German")
	assert.Equal(t, "Fernweh", e.Word("german: {Fernweh}"))
	assert.Equal(t, "english: word", e.Word("english: word"))
}

func TestExtractor_ZeroValue(t *testing.T) {
	var e Extractor
	assert.Equal(t, "word", e.Word("English: word"))
}

func TestStripMarkdown(t *testing.T) {
	assert.Equal(t, "big data", StripMarkdown("**big data**"))
	assert.Equal(t, "word", StripMarkdown("_word_"))
	assert.Equal(t, "word", StripMarkdown("*word*"))
}

func TestStripBold(t *testing.T) {
	assert.Equal(t, "I have the headspace to muse.", StripBold("I have the **headspace** to muse."))
}
