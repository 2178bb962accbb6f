package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agenticinfraops/infraviz/pkg/buildinfo"
	"github.com/agenticinfraops/infraviz/pkg/errors"
)

// Manifest records what a render run wrote.
type Manifest struct {
	RunID       string    `json:"run_id"`
	Version     string    `json:"version"`
	Commit      string    `json:"commit"`
	GeneratedAt time.Time `json:"generated_at"`
	Files       []File    `json:"files"`
}

// NewManifest collects the files of results, sorted by path.
func NewManifest(results []Result) Manifest {
	m := Manifest{
		RunID:       uuid.NewString(),
		Version:     buildinfo.Version,
		Commit:      buildinfo.Commit,
		GeneratedAt: time.Now().UTC(),
		Files:       []File{},
	}
	for _, r := range results {
		m.Files = append(m.Files, r.Files...)
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
	return m
}

// Write stores the manifest as dir/manifest.json.
func (m Manifest) Write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode manifest")
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputFailed, err, "write %s", path)
	}
	return nil
}

// ReadManifest loads dir/manifest.json.
func ReadManifest(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Manifest{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "no manifest in %s", dir)
	}
	if err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeOutputFailed, err, "read %s", path)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	return m, nil
}
