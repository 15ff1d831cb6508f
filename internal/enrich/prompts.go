package enrich

const defineSystemPrompt = "You are a helpful assistant that provides concise definitions."

// defineWithContextPrompt takes the word, the context and the word again.
const defineWithContextPrompt = `Please provide a concise definition for the word or phrase "%s".
The word appeared in the following context:
---
%s
---
Based on this context, what is the most likely meaning of "%s"?
Provide only the definition, without any extra text or explanations.`

const defineWithoutContextPrompt = `Please provide a concise definition for the word or phrase "%s".
What is the most likely meaning of "%s"?
Provide only the definition, without any extra text or explanations.`

const sentenceSystemPrompt = "You are a helpful assistant that generates an example sentence."

const sentenceHeaderPrompt = `The word is "%s".
Its definition is: "%s".
`

const sentenceContextPrompt = `It appeared in the original context: "%s".
`

const sentenceInstructionPrompt = `
Please generate one new, distinct sentence using the word "%s".
The sentence should be easy to understand and clearly demonstrate the meaning of the word.
Return only the sentence.`

const clozeSystemPrompt = `You are an Anki expert. Your task is to create a cloze deletion for a given sentence.
Find the word provided by the user, or its inflected form (e.g., plural, past tense), in the sentence.
Wrap ONLY that word or phrase with Anki's cloze syntax, like this: '{{c1::word}}'.
Return only the modified sentence. Do not add any explanation.`

const clozeUserPrompt = `The word to be clozed is '%s'.
The sentence is:
---
%s
---
For example, if the word is 'run' and the sentence is 'He ran a marathon.', the output should be 'He {{c1::ran}} a marathon.'.
If the word is 'walk' and the sentence is 'He was walking home.', the output should be 'He was {{c1::walking}} home.'.
If the word is 'big data' and the sentence is 'The field of big data is growing.', the output should be 'The field of {{c1::big data}} is growing.'.`

const distractorsSystemPrompt = `You write wrong answer options for vocabulary quizzes.
Given an English word and its definition, suggest other real English words of the same part of speech
that a learner could plausibly confuse with it but that do not fit the definition.
Output ONLY a JSON object of the form {"distractors": ["word1", "word2"]}.`

const distractorsUserPrompt = `Word: "%s"
Definition: "%s"
Give %d distractors.`
