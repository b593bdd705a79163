package openai

import (
	"fmt"
	"strings"
)

const suggestionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "alternatives": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "product": {
            "type": "string"
          },
          "reason": {
            "type": "string"
          }
        },
        "required": ["product", "reason"],
        "additionalProperties": false
      }
    }
  },
  "required": ["alternatives"],
  "additionalProperties": false
}`

const suggestionPromptTemplate = `You help procurement teams find alternatives for software products. The user
names a product that is not in our catalog. Suggest up to %d comparable products
and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The "product" field must match exactly one of the catalog products listed below. Never invent a product.
- The "reason" field is one short sentence explaining why the product is a plausible alternative.
- Suggest only products that serve the same purpose as the user's query. Do not pad the list.
- If nothing in the catalog is comparable, return "alternatives": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Catalog products:
%s

Example:
Input: "Figma"
Output:
{
  "alternatives": [
    {"product":"Adobe XD","reason":"Adobe XD covers collaborative interface design like Figma."}
  ]
}`

// buildSystemPrompt creates the system prompt with the candidate catalog embedded.
func buildSystemPrompt(candidates []string, n int) string {
	return fmt.Sprintf(suggestionPromptTemplate,
		n,
		suggestionResponseSchema,
		"- "+strings.Join(candidates, "\n- "))
}
