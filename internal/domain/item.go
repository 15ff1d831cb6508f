package domain

import "strings"

// SourceItem is one unit of work listed by a source provider.
// An empty Sentence means the entry carried no context.
type SourceItem struct {
	ID        string
	EntryText string
	Sentence  string
	Tags      []string
}

// HasContext reports whether the item carries a context sentence.
func (i SourceItem) HasContext() bool {
	return strings.TrimSpace(i.Sentence) != ""
}
