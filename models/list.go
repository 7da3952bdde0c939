package models

import "encoding/json"

// MarshalList serializes a collection to the JSON array of records held under
// the primary storage key.
func MarshalList(todos []Todo) ([]byte, error) {
	return json.MarshalIndent(todos, "", "  ")
}

// UnmarshalList decodes a stored JSON array of records. Each record is
// re-normalized so records written by hand or by older versions still satisfy
// the trimmed-text and no-duplicate-tags rules.
func UnmarshalList(data []byte) ([]Todo, error) {
	var todos []Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, err
	}
	for i := range todos {
		todos[i].Normalize()
	}
	return todos, nil
}
