package manifest

import (
	"github.com/AnyUserName/glitchart-cli/internal/descriptor"
	"github.com/AnyUserName/glitchart-cli/internal/glitch"
)

// Manifest is the top-level output of a glitchart render.
type Manifest struct {
	Version     int                         `json:"version"`
	GeneratedAt string                      `json:"generated_at"`
	Preset      string                      `json:"preset"`
	BasePath    string                      `json:"base_path"`
	RenderInfo  *RenderInfo                 `json:"render_info,omitempty"`
	Source      SourceInfo                  `json:"source"`
	Surface     Size                        `json:"surface"`
	// Params is the control state at the first frame.
	Params      glitch.Params               `json:"params"`
	FPS         float64                     `json:"fps"`
	Descriptor  *descriptor.ImageDescriptor `json:"descriptor,omitempty"`
	Frames      []Frame                     `json:"frames"`
	Stats       Stats                       `json:"stats"`
}

// RenderInfo captures run-time parameters for diagnostics.
type RenderInfo struct {
	Workers      int    `json:"workers"`       // frames rendered concurrently
	RowWorkers   int    `json:"row_workers"`   // goroutines per frame
	PadPolicy    string `json:"pad_policy"`    // palette padding
	PaletteFixed bool   `json:"palette_fixed"` // palette overridden by the user
}

// SourceInfo holds metadata about the source image.
type SourceInfo struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Size is a pixel extent.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Frame is one encoded rendered frame.
type Frame struct {
	Index  int     `json:"index"`
	Time   float64 `json:"time"`   // seconds
	Format string  `json:"format"` // "png", "jpeg"
	Size   int64   `json:"size"`   // bytes on disk
	Hash   string  `json:"hash"`   // xxhash64, 16 hex chars
	Path   string  `json:"path"`   // relative to base_path
}

// Stats aggregates render metrics.
type Stats struct {
	TotalFrames  int   `json:"total_frames"`
	TotalBytes   int64 `json:"total_bytes"`
	FailedFrames int   `json:"failed_frames,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside an output directory.
const FileName = "glitchart.manifest.json"
