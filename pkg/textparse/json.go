// Package textparse recovers structured values from free-form language model
// responses. Every function is best-effort: a miss yields an empty value, never
// a panic.
package textparse

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when neither a fenced block nor the whole text decodes.
var ErrNoJSON = errors.New("no json value found")

var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)```")

// FindJSON returns the candidate JSON payload of text. When a ```json fenced
// block is present its interior is returned and fenced is true; otherwise the
// trimmed text itself is the candidate.
func FindJSON(text string) (payload string, fenced bool) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return strings.TrimSpace(text), false
}

// Decode unmarshals the JSON value embedded in text into v.
func Decode(text string, v any) error {
	payload, fenced := FindJSON(text)
	if payload == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		if fenced {
			return fmt.Errorf("%w: fenced block: %v", ErrNoJSON, err)
		}
		return fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return nil
}

// ExtractJSON returns the JSON value embedded in text, or an empty object when
// nothing decodes. Arrays come back as []any and objects as map[string]any.
func ExtractJSON(text string) any {
	var v any
	if err := Decode(text, &v); err != nil || v == nil {
		slog.Warn("could not extract json from response", "error", err, "response_len", len(text))
		return map[string]any{}
	}
	return v
}

// ExtractStrings returns the string elements of an embedded JSON array.
// Non-string elements are skipped. ok is false when the value is not an array.
func ExtractStrings(text string) (items []string, ok bool) {
	arr, ok := ExtractJSON(text).([]any)
	if !ok {
		return []string{}, false
	}
	items = make([]string, 0, len(arr))
	for _, el := range arr {
		if s, isStr := el.(string); isStr && strings.TrimSpace(s) != "" {
			items = append(items, strings.TrimSpace(s))
		}
	}
	return items, true
}
