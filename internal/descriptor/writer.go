package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON serializes the descriptor to an indented JSON file.
func WriteJSON(d *ImageDescriptor, path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a descriptor written by WriteJSON.
func ReadJSON(path string) (*ImageDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	var d ImageDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	return &d, nil
}
