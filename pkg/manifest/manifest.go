package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/cs2cpp/internal/errors"
)

// Snapshot records the digests of one generated artifact set.
type Snapshot struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	// Digests maps artifact paths to hex encoded SHA-256 sums.
	Digests map[string]string `yaml:"digests" json:"digests"`
}

// Manifest tracks recorded snapshots and which two are compared.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Digest returns the hex encoded SHA-256 of content.
func Digest(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Load reads a manifest from path on fs. If the file does not exist, an empty
// manifest is returned.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal manifest")
	}
	return &m, nil
}

// Save writes the manifest to path, creating parent directories as needed.
func (m *Manifest) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create manifest directory")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}
	return nil
}

// AddSnapshot records a snapshot, updating version pointers and replacing an
// existing entry with the same name and version.
func (m *Manifest) AddSnapshot(s Snapshot) {
	if m.CurrentVersion != "" && m.CurrentVersion != s.Version {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = s.Version

	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			return
		}
	}
	m.Snapshots = append(m.Snapshots, s)
}

// Snapshot returns the last snapshot recorded for version, or nil.
func (m *Manifest) Snapshot(version string) *Snapshot {
	for i := len(m.Snapshots) - 1; i >= 0; i-- {
		if m.Snapshots[i].Version == version {
			return &m.Snapshots[i]
		}
	}
	return nil
}

// Versions lists the recorded versions in semver order.
func (m *Manifest) Versions() []string {
	seen := make(map[string]bool, len(m.Snapshots))
	var out []string
	for _, s := range m.Snapshots {
		if !seen[s.Version] {
			seen[s.Version] = true
			out = append(out, s.Version)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return semver.Compare(out[i], out[j]) < 0 })
	return out
}

// NextVersion bumps the patch level of the current version. The first
// version is v0.1.0.
func (m *Manifest) NextVersion() string {
	cur := semver.Canonical(m.CurrentVersion)
	if cur == "" {
		return "v0.1.0"
	}
	cur = strings.TrimSuffix(cur, semver.Build(cur))
	cur = strings.TrimSuffix(cur, semver.Prerelease(cur))
	parts := strings.SplitN(strings.TrimPrefix(cur, "v"), ".", 3)
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return "v0.1.0"
	}
	return "v" + parts[0] + "." + parts[1] + "." + strconv.Itoa(patch+1)
}
