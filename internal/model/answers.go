package model

import "strings"

// AnswerSet maps a question key to its answer. Values arrive through JSON, so
// an answer is one of: nil (cleared), string, float64, or a list of strings.
// Keys are never deleted once set; clearing stores an explicit nil so the
// "cleared" state survives serialization.
type AnswerSet map[string]any

// Answered reports whether the key holds a usable answer: present, not nil,
// not a whitespace-only string, not an empty list. Numbers always count.
func (a AnswerSet) Answered(key string) bool {
	value, ok := a[key]
	if !ok || value == nil {
		return false
	}

	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// Clone returns a shallow copy so a frozen submission payload cannot be
// mutated by later wizard edits.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// String returns the answer as a string, or "" when it is absent or not a
// string.
func (a AnswerSet) String(key string) string {
	s, _ := a[key].(string)
	return s
}
