package anki

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Field names of the cloze note model.
const (
	FieldWord       = "Word"
	FieldText       = "Text"
	FieldDefinition = "Definition"
	FieldContext    = "Context"
	FieldOptions    = "Options"
)

const clozeCSS = `.card {
 font-family: arial;
 font-size: 20px;
 text-align: center;
 color: black;
 background-color: white;
}
.cloze {
 font-weight: bold;
 color: blue;
}`

// Session names the deck and note model a run writes to.
type Session struct {
	Deck  string
	Model string
}

// ClozeModel returns the note model definition created for a session.
func ClozeModel(name string) ModelSpec {
	return ModelSpec{
		ModelName:     name,
		InOrderFields: []string{FieldWord, FieldText, FieldDefinition, FieldContext, FieldOptions},
		CSS:           clozeCSS,
		IsCloze:       true,
		CardTemplates: []CardTemplate{{
			Name:  "Sentence Gap -> Word",
			Front: "{{cloze:Text}}{{#Options}}<br><br>{{Options}}{{/Options}}",
			Back:  `{{cloze:Text}}<hr id="answer">{{Word}}<br><br>{{Definition}}<br><br>{{Context}}`,
		}},
	}
}

// Initialize checks that AnkiConnect answers and creates the session's deck
// and note model when they are missing.
func (c *Client) Initialize(ctx context.Context, s Session) error {
	if _, err := c.Version(ctx); err != nil {
		return fmt.Errorf("checking ankiconnect: %w", err)
	}

	decks, err := c.DeckNames(ctx)
	if err != nil {
		return fmt.Errorf("listing decks: %w", err)
	}
	if !slices.Contains(decks, s.Deck) {
		if _, err := c.CreateDeck(ctx, s.Deck); err != nil {
			return fmt.Errorf("creating deck %q: %w", s.Deck, err)
		}
		c.logger.Info("created anki deck", "deck", s.Deck)
	}

	models, err := c.ModelNames(ctx)
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}
	if !slices.Contains(models, s.Model) {
		if err := c.CreateModel(ctx, ClozeModel(s.Model)); err != nil {
			return fmt.Errorf("creating model %q: %w", s.Model, err)
		}
		c.logger.Info("created anki note model", "model", s.Model)
	}
	return nil
}

var searchEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `*`, `\*`, `_`, `\_`)

// SearchTerm returns a quoted Anki search term "key:value" with wildcards escaped.
func SearchTerm(key, value string) string {
	return `"` + key + ":" + searchEscaper.Replace(value) + `"`
}
