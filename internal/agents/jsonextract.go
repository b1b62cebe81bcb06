package agents

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// extractJSONObject finds the first balanced {...} object in content and
// validates it as JSON, tolerating a model that wraps its JSON in prose or
// an unterminated code fence. Mirrors composer.py's markdown-fence-only
// _extract_json, generalized to scan for the object boundaries directly
// since structured-output providers occasionally still wrap replies.
func extractJSONObject(content string) (string, bool) {
	start := strings.IndexByte(content, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := content[start : i+1]
				if gjson.Valid(candidate) {
					return candidate, true
				}
				return "", false
			}
		}
	}
	return "", false
}

// dropUnknownKeys removes any top-level key from a JSON object not present
// in allowed, using sjson to rewrite the document in place rather than a
// full decode/re-encode round trip. Used by callers that want to tolerate
// an LLM adding extra commentary fields alongside the expected schema.
func dropUnknownKeys(raw string, allowed map[string]bool) (string, error) {
	result := raw
	var toDelete []string
	gjson.Parse(raw).ForEach(func(key, _ gjson.Result) bool {
		if !allowed[key.String()] {
			toDelete = append(toDelete, key.String())
		}
		return true
	})

	var err error
	for _, key := range toDelete {
		result, err = sjson.Delete(result, key)
		if err != nil {
			return raw, err
		}
	}
	return result, nil
}
