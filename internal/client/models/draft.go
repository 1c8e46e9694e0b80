package models

import "encoding/json"

// DraftKey is the fixed key the serialized draft is stored under in the
// local key/value store.
const DraftKey = "listing_draft"

// EncodeDraft serializes the form state for persistence.
func EncodeDraft(f FormState) (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeDraft deserializes a stored draft. ok is false when the blob is
// empty or corrupt; callers treat that as "no draft" and start from the
// defaults.
func DecodeDraft(s string) (FormState, bool) {
	if s == "" {
		return FormState{}, false
	}
	var f FormState
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return FormState{}, false
	}
	return f, true
}
