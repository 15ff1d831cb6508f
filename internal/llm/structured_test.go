package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type distractorPayload struct {
	Distractors []string `json:"distractors"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	result, err := ExtractJSON[distractorPayload](`{"distractors":["walk","stroll"]}`, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"walk", "stroll"}, result.Distractors)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"distractors\":[\"sprint\"]}\n```"
	result, err := ExtractJSON[distractorPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sprint"}, result.Distractors)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Sure! Here they are:\n{\"distractors\":[\"jog\",\"dash\"]}\nGood luck."
	result, err := ExtractJSON[distractorPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"jog", "dash"}, result.Distractors)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"distractors":["{{c1::x}}","a}b"]} trailing }`
	result, err := ExtractJSON[distractorPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"{{c1::x}}", "a}b"}, result.Distractors)
}

func TestExtractJSON_Comments(t *testing.T) {
	raw := "{\n  // near synonyms\n  \"distractors\": [\"hike\", /* rare */ \"trek\"]\n}"
	result, err := ExtractJSON[distractorPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hike", "trek"}, result.Distractors)
}

func TestExtractJSON_SlashesInsideStringsKept(t *testing.T) {
	raw := `{"distractors":["http://example.com"]}`
	result, err := ExtractJSON[distractorPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.com"}, result.Distractors)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[distractorPayload]("I can't help with that.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[distractorPayload](`{"distractors": [walk]}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Validation(t *testing.T) {
	nonEmpty := func(p distractorPayload) error {
		if len(p.Distractors) == 0 {
			return errors.New("no distractors")
		}
		return nil
	}

	_, err := ExtractJSON(`{"distractors":[]}`, nonEmpty)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")

	result, err := ExtractJSON(`{"distractors":["amble"]}`, nonEmpty)
	require.NoError(t, err)
	assert.Equal(t, []string{"amble"}, result.Distractors)
}
