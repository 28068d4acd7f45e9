package notify

import (
	"encoding/json"
	"fmt"
)

// migrationStep upgrades the raw document from version n to n+1.
type migrationStep func(raw map[string]json.RawMessage) error

// Explicit upgrade steps, keyed by the version they upgrade FROM. Version 1
// stored notifications under a "msgs" key with a "text" field; version 2
// renamed them to "items" with "message".
var migrationSteps = map[int]migrationStep{
	1: func(raw map[string]json.RawMessage) error {
		type v1Msg struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Text  string `json:"text"`
			Kind  string `json:"kind"`
		}
		var msgs []v1Msg
		if data, ok := raw["msgs"]; ok {
			if err := json.Unmarshal(data, &msgs); err != nil {
				return fmt.Errorf("failed to decode v1 msgs: %w", err)
			}
			delete(raw, "msgs")
		}

		items := make([]map[string]any, 0, len(msgs))
		for _, msg := range msgs {
			items = append(items, map[string]any{
				"id":      msg.ID,
				"title":   msg.Title,
				"message": msg.Text,
				"kind":    msg.Kind,
			})
		}
		data, err := json.Marshal(items)
		if err != nil {
			return err
		}
		raw["items"] = data
		return nil
	},
}

// migrate upgrades a raw document to the target schema version and decodes
// it.
func migrate(data []byte, target int) (fileFormat, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fileFormat{}, fmt.Errorf("failed to decode notification cache: %w", err)
	}

	version := 1
	if v, ok := raw["schema_version"]; ok {
		if err := json.Unmarshal(v, &version); err != nil {
			return fileFormat{}, fmt.Errorf("failed to decode schema version: %w", err)
		}
	}
	if version > target {
		return fileFormat{}, fmt.Errorf("notification cache version %d is newer than supported %d", version, target)
	}

	for version < target {
		step, ok := migrationSteps[version]
		if !ok {
			return fileFormat{}, fmt.Errorf("no migration step from notification schema version %d", version)
		}
		if err := step(raw); err != nil {
			return fileFormat{}, fmt.Errorf("notification schema migration %d failed: %w", version, err)
		}
		version++
	}

	versionJSON, err := json.Marshal(version)
	if err != nil {
		return fileFormat{}, err
	}
	raw["schema_version"] = versionJSON

	merged, err := json.Marshal(raw)
	if err != nil {
		return fileFormat{}, err
	}
	var out fileFormat
	if err := json.Unmarshal(merged, &out); err != nil {
		return fileFormat{}, fmt.Errorf("failed to decode migrated notification cache: %w", err)
	}
	return out, nil
}
