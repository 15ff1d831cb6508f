package domain

// Card is the note payload submitted to the flashcard store.
// Text holds one or two cloze-masked sentences joined by CardSeparator.
type Card struct {
	Word       string
	Text       string
	Definition string
	Context    string
	Options    string
	Tags       []string
}

// CardSeparator joins the masked sentences of a card.
const CardSeparator = "<br>"
