package cloze

import "regexp"

type Strategy string

const (
	StrategyNone     Strategy = "none"
	StrategyBold     Strategy = "bold"
	StrategyPlain    Strategy = "plain"
	StrategyFallback Strategy = "fallback"
)

// Matcher is a deterministic masking step. It returns the rewritten sentence
// and the number of spans it masked; zero means the step did not apply.
type Matcher func(word, sentence string, index int) (string, int)

type step struct {
	name  Strategy
	match Matcher
}

// deterministicSteps run in order; the first step with a nonzero count wins.
var deterministicSteps = []step{
	{StrategyBold, MatchBold},
	{StrategyPlain, MatchPlain},
}

// MatchBold masks the first case-insensitive occurrence of **word**,
// dropping the asterisks and keeping the case found in the sentence.
func MatchBold(word, sentence string, index int) (string, int) {
	re, err := regexp.Compile(`(?i)\*\*(` + regexp.QuoteMeta(word) + `)\*\*`)
	if err != nil {
		return sentence, 0
	}
	return replaceFirst(re, sentence, index)
}

// MatchPlain masks the first case-insensitive occurrence of word.
func MatchPlain(word, sentence string, index int) (string, int) {
	re, err := regexp.Compile(`(?i)(` + regexp.QuoteMeta(word) + `)`)
	if err != nil {
		return sentence, 0
	}
	return replaceFirst(re, sentence, index)
}

func replaceFirst(re *regexp.Regexp, sentence string, index int) (string, int) {
	loc := re.FindStringSubmatchIndex(sentence)
	if loc == nil {
		return sentence, 0
	}
	found := sentence[loc[2]:loc[3]]
	return sentence[:loc[0]] + Marker(index, found) + sentence[loc[1]:], 1
}
