package prompt

import "fmt"

// GetSystemPrompt instruksi untuk parser klausa regulasi
func GetSystemPrompt() string {
	return `You are a building-code rule parser. You receive one clause of a
municipal development-control regulation (UDCPR/DCPR) and convert it into
structured machine-evaluable logic. Respond with a single JSON object only,
no prose, using this schema:
{
  "parameter": "<fsi|setback|parking|height|other>",
  "applies_to": {"zones": [...], "use_types": [...], "conditions": [...]},
  "constraint": {"operator": "<min|max|eq|formula>", "value": <number|null>, "unit": "<string|null>", "formula": "<string|null>"},
  "exceptions": [...],
  "confidence": <0.0-1.0>
}
If the clause text is ambiguous or not a quantifiable rule, set
"parameter" to "other" and lower the confidence accordingly.`
}

// GetUserPrompt bungkus nomor + teks klausa jadi satu request
func GetUserPrompt(clauseNumber, clauseText string) string {
	return fmt.Sprintf("Clause %s:\n\n%s", clauseNumber, clauseText)
}
