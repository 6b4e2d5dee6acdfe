package model

import (
	"net/url"

	"github.com/Masterminds/semver/v3"
)

// ResolvedDependency binds a package name to one concrete published version
// together with its dist metadata. Instances are immutable once created and
// shared by reference across all graph relations and tree nodes that resolve
// to the same identity.
type ResolvedDependency struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Tarball      string            `json:"tarball"`
	Integrity    string            `json:"integrity,omitempty"`
	Bins         map[string]string `json:"bins,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// ID returns the content-address key for this dependency: name@version.
func (d *ResolvedDependency) ID() string {
	return d.Name + "@" + d.Version
}

// GetVersion returns the parsed version of this dependency, or nil if it
// cannot be parsed.
func (d *ResolvedDependency) GetVersion() *semver.Version {
	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return nil
	}
	return v
}

// GetTarballURL returns the parsed tarball URL, or nil if it is absent or
// malformed.
func (d *ResolvedDependency) GetTarballURL() *url.URL {
	if d.Tarball == "" {
		return nil
	}
	parsed, err := url.Parse(d.Tarball)
	if err != nil {
		return nil
	}
	return parsed
}

// Requirements returns the dependency's own declared requirements as
// specifiers.
func (d *ResolvedDependency) Requirements() []Specifier {
	specs := make([]Specifier, 0, len(d.Dependencies))
	for name, rng := range d.Dependencies {
		specs = append(specs, NewSpecifier(name, rng))
	}
	return specs
}
