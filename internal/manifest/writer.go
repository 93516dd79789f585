package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// New creates an empty manifest with defaults.
func New(presetName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Preset:      presetName,
		BasePath:    "./",
	}
}

// ComputeStats recalculates aggregate statistics from frames, keeping the
// failure count, and orders frames by index.
func (m *Manifest) ComputeStats() {
	sort.Slice(m.Frames, func(i, j int) bool { return m.Frames[i].Index < m.Frames[j].Index })
	s := Stats{FailedFrames: m.Stats.FailedFrames}
	s.TotalFrames = len(m.Frames)
	for _, f := range m.Frames {
		s.TotalBytes += f.Size
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest from disk.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
