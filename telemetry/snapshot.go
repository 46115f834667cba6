package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// FieldSnapshot holds one full dump of the published field state, for
// offline inspection of healing curves and re-projection drift.
type FieldSnapshot struct {
	Version    int     `json:"version"`
	Tick       int32   `json:"tick"`
	SimTimeSec float64 `json:"sim_time_sec"`

	AnchorX    float32 `json:"anchor_x"`
	AnchorY    float32 `json:"anchor_y"`
	Extent     float32 `json:"extent"`
	Resolution int     `json:"resolution"`
	Material   string  `json:"material"`

	// Row-major grid values, Resolution x Resolution.
	Values []float32 `json:"values"`
}

// SaveFieldSnapshot writes a gzip-compressed snapshot to dir.
// Returns the filepath where it was saved.
func SaveFieldSnapshot(snap *FieldSnapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("field_%08d.json.gz", snap.Tick))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		f.Close()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("compress snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadFieldSnapshot reads a snapshot from disk.
func LoadFieldSnapshot(path string) (*FieldSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	defer zr.Close()

	var snap FieldSnapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snap.Version, SnapshotVersion)
	}

	return &snap, nil
}
