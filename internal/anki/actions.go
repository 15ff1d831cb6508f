package anki

import (
	"context"
)

// Note is the payload of addNote.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags,omitempty"`
	Options   NoteOptions       `json:"options"`
}

// NoteOptions controls AnkiConnect's own duplicate check.
type NoteOptions struct {
	AllowDuplicate bool   `json:"allowDuplicate"`
	DuplicateScope string `json:"duplicateScope,omitempty"`
}

// NoteField is one field value as returned by notesInfo.
type NoteField struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// NoteInfo is one element of the notesInfo result.
type NoteInfo struct {
	NoteID    int64                `json:"noteId"`
	ModelName string               `json:"modelName"`
	Tags      []string             `json:"tags"`
	Fields    map[string]NoteField `json:"fields"`
	Cards     []int64              `json:"cards"`
}

// CardTemplate is one card type of a note model.
type CardTemplate struct {
	Name  string `json:"Name"`
	Front string `json:"Front"`
	Back  string `json:"Back"`
}

// ModelSpec is the payload of createModel.
type ModelSpec struct {
	ModelName     string         `json:"modelName"`
	InOrderFields []string       `json:"inOrderFields"`
	CSS           string         `json:"css,omitempty"`
	IsCloze       bool           `json:"isCloze"`
	CardTemplates []CardTemplate `json:"cardTemplates"`
}

// Version returns the AnkiConnect API version; it doubles as a reachability probe.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	err := c.invoke(ctx, "version", nil, &v)
	return v, err
}

func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.invoke(ctx, "deckNames", nil, &names)
	return names, err
}

func (c *Client) CreateDeck(ctx context.Context, name string) (int64, error) {
	var id int64
	err := c.invoke(ctx, "createDeck", map[string]any{"deck": name}, &id)
	return id, err
}

func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.invoke(ctx, "modelNames", nil, &names)
	return names, err
}

func (c *Client) CreateModel(ctx context.Context, spec ModelSpec) error {
	return c.invoke(ctx, "createModel", spec, nil)
}

// AddNote creates a note and returns its id.
func (c *Client) AddNote(ctx context.Context, note Note) (int64, error) {
	var id int64
	err := c.invoke(ctx, "addNote", map[string]any{"note": note}, &id)
	return id, err
}

// FindNotes runs an Anki search query and returns matching note ids.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	err := c.invoke(ctx, "findNotes", map[string]any{"query": query}, &ids)
	return ids, err
}

func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]NoteInfo, error) {
	var infos []NoteInfo
	err := c.invoke(ctx, "notesInfo", map[string]any{"notes": noteIDs}, &infos)
	return infos, err
}

// ForgetCards resets the scheduling of the given cards to new.
func (c *Client) ForgetCards(ctx context.Context, cardIDs []int64) error {
	return c.invoke(ctx, "forgetCards", map[string]any{"cards": cardIDs}, nil)
}
