// Package snapshot defines the versioned serialized form of a whole todo
// collection, used for export, backup, import, and restore.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/evanharte/todovault/models"
	"github.com/evanharte/todovault/types"
)

// FormatVersion is stamped on every exported snapshot. Decode does not
// validate it against the current version.
const FormatVersion = "1.0"

// Supported encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Snapshot is a versioned serialized form of a whole collection.
type Snapshot struct {
	Version   string        `json:"version" yaml:"version" toml:"version"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Items     []models.Todo `json:"items" yaml:"items" toml:"items"`
}

// New stamps the current version and time onto a snapshot of items.
func New(items []models.Todo) Snapshot {
	return Snapshot{
		Version:   FormatVersion,
		Timestamp: time.Now().UTC(),
		Items:     items,
	}
}

// Encode serializes a snapshot in the given format. An empty format selects
// JSON.
func Encode(s Snapshot, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(s); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML snapshot: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported snapshot format: %s", format)
}

// Decode parses a snapshot payload. A payload whose top level lacks an items
// array fails with *types.InvalidDataError. Item-level validation is left to
// the caller.
func Decode(data []byte, format string) (Snapshot, error) {
	switch format {
	case FormatJSON, "":
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatTOML:
		return decodeTOML(data)
	}
	return Snapshot{}, fmt.Errorf("unsupported snapshot format: %s", format)
}

func decodeJSON(data []byte) (Snapshot, error) {
	var head struct {
		Version   string          `json:"version"`
		Timestamp time.Time       `json:"timestamp"`
		Items     json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Snapshot{}, &types.InvalidDataError{Reason: err.Error()}
	}
	if head.Items == nil || string(head.Items) == "null" {
		return Snapshot{}, &types.InvalidDataError{Reason: "payload has no items array"}
	}
	var items []models.Todo
	if err := json.Unmarshal(head.Items, &items); err != nil {
		return Snapshot{}, &types.InvalidDataError{Reason: fmt.Sprintf("items is not an array of records: %v", err)}
	}
	return Snapshot{Version: head.Version, Timestamp: head.Timestamp, Items: items}, nil
}

func decodeYAML(data []byte) (Snapshot, error) {
	var head map[string]any
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Snapshot{}, &types.InvalidDataError{Reason: err.Error()}
	}
	if _, ok := head["items"]; !ok {
		return Snapshot{}, &types.InvalidDataError{Reason: "payload has no items array"}
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, &types.InvalidDataError{Reason: err.Error()}
	}
	return s, nil
}

func decodeTOML(data []byte) (Snapshot, error) {
	var head map[string]any
	if err := toml.Unmarshal(data, &head); err != nil {
		return Snapshot{}, &types.InvalidDataError{Reason: err.Error()}
	}
	if _, ok := head["items"]; !ok {
		return Snapshot{}, &types.InvalidDataError{Reason: "payload has no items array"}
	}
	var s Snapshot
	if err := toml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, &types.InvalidDataError{Reason: err.Error()}
	}
	return s, nil
}
