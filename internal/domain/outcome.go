package domain

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeHalted    Outcome = "halted"
)

type SourceKind string

const (
	SourceTodoist  SourceKind = "todoist"
	SourceCSV      SourceKind = "csv"
	SourceTextFile SourceKind = "text_file"
)

// ParseSourceKind maps a CLI value onto a SourceKind.
func ParseSourceKind(s string) (SourceKind, bool) {
	switch SourceKind(s) {
	case SourceTodoist, SourceCSV, SourceTextFile:
		return SourceKind(s), true
	default:
		return "", false
	}
}
