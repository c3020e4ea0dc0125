// Package backend implements the text-processing backends that answer an
// instruction against one chunk of page text.
package backend

import (
	"strings"
)

// promptTemplate frames one chunk and the user's instruction. The model is
// told to answer from the chunk alone and to return nothing when the chunk
// has no match, so empty per-chunk answers can be joined safely.
const promptTemplate = `You extract information from a piece of web page text.

Text:
{{content}}

Instruction: {{instruction}}

Rules:
1. Return only information from the text above that matches the instruction.
2. Do not add explanations, comments, or any text of your own.
3. If nothing in the text matches, return an empty string.`

// BuildPrompt fills the template with one chunk and the instruction.
func BuildPrompt(chunk, instruction string) string {
	r := strings.NewReplacer("{{content}}", chunk, "{{instruction}}", instruction)
	return r.Replace(promptTemplate)
}
