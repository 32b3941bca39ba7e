// internal/validation/normalize/normalizer.go

// Package normalize turns raw generation-service replies into schema-valid
// structures. One contract serves scoring, feedback, and improvement
// responses: strip code fences, try a strict parse, try a repaired parse,
// coerce by heuristic where the target is a string list, and finally fill
// from the fallback so a caller never receives a malformed shape.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Object normalizes raw into a JSON object. Every key present in fallback
// is guaranteed present in the result. The returned bool is the partial-parse
// signal: true when repair, coercion, or default fill was needed. Fence
// stripping is ordinary cleanup and does not count.
func Object(raw string, schemaJSON string, fallback map[string]interface{}) (map[string]interface{}, bool) {
	cleaned, _ := StripFences(raw)

	parsed, ok := parseObject(cleaned)
	partial := false
	if !ok {
		parsed, ok = parseObject(Repair(cleaned))
		partial = true
	}
	if !ok {
		// Nothing parseable; the fallback is the result.
		return cloneMap(fallback), true
	}

	if schemaJSON != "" && !validates(parsed, schemaJSON) {
		partial = true
	}

	// Back-fill: absent fields come from the fallback, never left undefined.
	for key, def := range fallback {
		if _, exists := parsed[key]; !exists {
			parsed[key] = def
			partial = true
		}
	}

	return parsed, partial
}

// StringList normalizes raw into a list of strings. When the reply is not a
// JSON array, prose that carries list structure is coerced; anything else,
// single-line prose included, is replaced by fallback with the partial flag
// set.
func StringList(raw string, fallback []string) ([]string, bool) {
	cleaned, _ := StripFences(raw)

	if items, ok := parseStringArray(cleaned); ok {
		return items, false
	}
	if items, ok := parseStringArray(Repair(cleaned)); ok {
		return items, true
	}

	// Heuristic coercion is allowed here because the target schema is a
	// string list, but only for text that actually reads as a list. A lone
	// prose line is not feedback; it falls through to the fallback.
	if looksLikeList(cleaned) {
		if items := splitLines(cleaned); len(items) > 0 {
			return items, true
		}
	}

	out := make([]string, len(fallback))
	copy(out, fallback)
	return out, true
}

// StringMap normalizes raw into a string-to-string map with a fixed
// required-key list. Missing keys are filled via placeholder rather than
// omitted, so downstream consumers can rely on key presence.
func StringMap(raw string, required []string, placeholder func(key string) string) (map[string]string, bool) {
	cleaned, _ := StripFences(raw)

	parsed, ok := parseObject(cleaned)
	partial := false
	if !ok {
		parsed, ok = parseObject(Repair(cleaned))
		partial = true
	}

	out := make(map[string]string, len(required))
	if ok {
		for key, val := range parsed {
			if s, isStr := val.(string); isStr && strings.TrimSpace(s) != "" {
				out[key] = s
			}
		}
	}

	for _, key := range required {
		if _, exists := out[key]; !exists {
			out[key] = placeholder(key)
			partial = true
		}
	}

	return out, partial
}

// StripFences removes a leading/trailing triple-backtick wrapper with an
// optional language tag. Returns the inner text and whether a fence was
// removed.
func StripFences(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)

	if strings.Contains(trimmed, "```") {
		// Prefer an explicit ```json block anywhere in the reply.
		if idx := strings.Index(trimmed, "```json"); idx >= 0 {
			rest := trimmed[idx+len("```json"):]
			if end := strings.Index(rest, "```"); end > 0 {
				return strings.TrimSpace(rest[:end]), true
			}
		}
		if strings.HasPrefix(trimmed, "```") {
			inner := strings.TrimPrefix(trimmed, "```")
			// Drop the language tag on the opening fence line.
			if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
				inner = inner[nl+1:]
			}
			inner = strings.TrimSuffix(strings.TrimSpace(inner), "```")
			return strings.TrimSpace(inner), true
		}
	}

	return trimmed, false
}

// extractJSON narrows a reply to its outermost JSON object or array
// boundaries, tolerating prose before and after.
func extractJSON(raw string) (string, bool) {
	startBrace := strings.IndexByte(raw, '{')
	startBracket := strings.IndexByte(raw, '[')

	start := -1
	closer := byte('}')
	if startBrace >= 0 && (startBracket < 0 || startBrace < startBracket) {
		start = startBrace
	} else if startBracket >= 0 {
		start = startBracket
		closer = ']'
	}
	if start < 0 {
		return "", false
	}

	end := strings.LastIndexByte(raw, closer)
	if end <= start {
		return "", false
	}

	return strings.TrimSpace(raw[start : end+1]), true
}

func parseObject(raw string) (map[string]interface{}, bool) {
	candidate, ok := extractJSON(raw)
	if !ok {
		return nil, false
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

func parseStringArray(raw string) ([]string, bool) {
	candidate, ok := extractJSON(raw)
	if !ok {
		return nil, false
	}
	var items []interface{}
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, isStr := item.(string); isStr && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// looksLikeList reports whether free text carries list structure: a bullet
// or numbering marker, or more than one non-empty line.
func looksLikeList(raw string) bool {
	lines := 0
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "```" {
			continue
		}
		lines++
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•") {
			return true
		}
		if len(line) > 2 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
			return true
		}
	}
	return lines > 1
}

// splitLines coerces free text into list items: one per line, bullets and
// numbering stripped.
func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		for len(line) > 2 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
			line = strings.TrimSpace(line[2:])
		}
		if line != "" && line != "```" {
			out = append(out, line)
		}
	}
	return out
}

func validates(doc map[string]interface{}, schemaJSON string) bool {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	docLoader := gojsonschema.NewGoLoader(doc)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return false
	}
	return result.Valid()
}

func cloneMap(src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
