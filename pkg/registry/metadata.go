package registry

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/tressel-dev/tressel/pkg/manifest"
	"github.com/tressel-dev/tressel/pkg/model"
)

// PackageMetadata is the registry's published view of one package: its
// dist-tags and every published version.
type PackageMetadata struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]VersionMetadata `json:"versions"`
}

// VersionMetadata describes a single published version.
type VersionMetadata struct {
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Bin          manifest.BinField `json:"bin,omitempty"`
	Dist         Dist              `json:"dist"`
}

// Dist carries the download location and integrity of a version's tarball.
type Dist struct {
	Tarball   string `json:"tarball"`
	Integrity string `json:"integrity,omitempty"`
}

// Latest returns the version the "latest" dist-tag points at.
func (m *PackageMetadata) Latest() (string, bool) {
	v, ok := m.DistTags["latest"]
	return v, ok
}

// Tagged returns the version a dist-tag points at, if both the tag and the
// version exist.
func (m *PackageMetadata) Tagged(tag string) (*VersionMetadata, bool) {
	v, ok := m.DistTags[tag]
	if !ok {
		return nil, false
	}
	vm, ok := m.Versions[v]
	if !ok {
		return nil, false
	}
	return &vm, true
}

// HighestSatisfying returns the highest published version satisfying the
// specifier's range, or false when none does.
func (m *PackageMetadata) HighestSatisfying(spec model.Specifier) (*VersionMetadata, bool) {
	constraint, err := spec.Constraint()
	if err != nil {
		return nil, false
	}

	versions := make([]*semver.Version, 0, len(m.Versions))
	for raw := range m.Versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if constraint.Check(v) {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return nil, false
	}
	sort.Sort(semver.Collection(versions))

	best := m.Versions[versions[len(versions)-1].Original()]
	return &best, true
}

// Resolved converts a version of this package into a resolved dependency.
func (m *PackageMetadata) Resolved(vm *VersionMetadata) *model.ResolvedDependency {
	var bins map[string]string
	if len(vm.Bin) > 0 {
		bins = make(map[string]string, len(vm.Bin))
		for cmd, script := range vm.Bin {
			if cmd == "" {
				cmd = m.Name
			}
			bins[cmd] = script
		}
	}
	return &model.ResolvedDependency{
		Name:         m.Name,
		Version:      vm.Version,
		Tarball:      vm.Dist.Tarball,
		Integrity:    vm.Dist.Integrity,
		Bins:         bins,
		Dependencies: vm.Dependencies,
	}
}
