package snapshot

import (
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/pkg/action/generate"
	"github.com/cmmoran/cs2cpp/pkg/manifest"
	"github.com/cmmoran/cs2cpp/pkg/options"
)

// Record renders the artifacts of opts and records their digests in the
// manifest under version. An empty version bumps the current one.
func Record(fs afero.Fs, opts *options.Options, manifestPath, version string) (*manifest.Snapshot, error) {
	m, err := manifest.Load(fs, manifestPath)
	if err != nil {
		return nil, err
	}

	res, err := generate.Render(fs, opts)
	if err != nil {
		return nil, err
	}

	if version == "" {
		version = m.NextVersion()
	}
	s := manifest.Snapshot{Name: opts.Target, Version: version, Digests: make(map[string]string, len(res.Artifacts))}
	for _, a := range res.Artifacts {
		s.Digests[a.Path] = manifest.Digest(a.Content)
	}
	m.AddSnapshot(s)

	if err := m.Save(fs, manifestPath); err != nil {
		return nil, err
	}
	return m.Snapshot(version), nil
}

// List returns all snapshots recorded in the manifest.
func List(fs afero.Fs, manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(fs, manifestPath)
}

// DiffCurrentWithPrevious compares the digests of the current and previous
// snapshots. An empty result means both runs generated identical artifacts.
func DiffCurrentWithPrevious(fs afero.Fs, manifestPath string) (string, error) {
	m, err := manifest.Load(fs, manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", errors.WithHint(errors.New("no current/previous snapshots recorded"),
			"record two snapshots with `cs2cpp snapshot record`")
	}

	current := m.Snapshot(m.CurrentVersion)
	previous := m.Snapshot(m.PreviousVersion)
	if current == nil || previous == nil {
		return "", errors.New("snapshots not found in manifest")
	}

	return cmp.Diff(previous.Digests, current.Digests), nil
}
