// Package manifest reads and writes the project manifest (package.json) and
// exposes the narrow view of it the resolver and installer consume: declared
// requirements, lifecycle scripts and bin entries.
package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/natefinch/atomic"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/model"
)

// Filename is the manifest file name inside a package or project directory.
const Filename = "package.json"

// LifecycleScripts is the fixed, ordered set of script names run at install
// time.
var LifecycleScripts = []string{"preinstall", "install", "postinstall"}

// Manifest is the declared shape of a package.json, restricted to the fields
// tressel consumes.
type Manifest struct {
	Name            string            `json:"name,omitempty"`
	Version         string            `json:"version,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Bin             BinField          `json:"bin,omitempty"`

	// doc retains the full decoded document so Save keeps fields the typed
	// view does not cover.
	doc *document
}

// Requirement is one declared dependency of the project.
type Requirement struct {
	Spec model.Specifier
	Dev  bool
}

// BinField decodes both manifest bin forms: a bare string (the command is the
// package name) and a command-to-script map.
type BinField map[string]string

// UnmarshalJSON implements the dual decoding of the bin field. For the bare
// string form the command name is left empty; Bins resolves it against the
// package name.
func (b *BinField) UnmarshalJSON(data []byte) error {
	var asMap map[string]string
	if err := json.Unmarshal(data, &asMap); err == nil {
		*b = asMap
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*b = BinField{"": asString}
	return nil
}

// MarshalJSON restores the bare string form for a bin decoded without a
// command name, so a loaded manifest encodes back to what it declared.
func (b BinField) MarshalJSON() ([]byte, error) {
	if len(b) == 1 {
		if script, ok := b[""]; ok {
			return json.Marshal(script)
		}
	}
	return json.Marshal(map[string]string(b))
}

// Load reads the manifest from dir. A missing file returns
// errors.ErrManifestMissing.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrManifestMissing
		}
		return nil, errors.Wrap(err, "failed to read package.json")
	}
	return Parse(data)
}

// LoadOrDefault reads the manifest from dir, returning an empty manifest when
// the file does not exist.
func LoadOrDefault(dir string) (*Manifest, error) {
	m, err := Load(dir)
	if err == errors.ErrManifestMissing {
		return &Manifest{}, nil
	}
	return m, err
}

// Parse decodes manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrManifestInvalid, err.Error())
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	m.doc = doc
	return &m, nil
}

// Save writes the manifest back to dir atomically. Only the dependency maps
// are synced into the document; every other field is written back as loaded.
func (m *Manifest) Save(dir string) error {
	doc := m.doc
	if doc == nil {
		seed, err := json.Marshal(m)
		if err != nil {
			return errors.Wrap(err, "failed to encode package.json")
		}
		if doc, err = parseDocument(seed); err != nil {
			return err
		}
		m.doc = doc
	}
	if err := doc.setMap("dependencies", m.Dependencies); err != nil {
		return errors.Wrap(err, "failed to encode package.json")
	}
	if err := doc.setMap("devDependencies", m.DevDependencies); err != nil {
		return errors.Wrap(err, "failed to encode package.json")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode package.json")
	}
	if err := atomic.WriteFile(filepath.Join(dir, Filename), &buf); err != nil {
		return errors.Wrap(err, "failed to write package.json")
	}
	return nil
}

// Requirements returns every declared dependency, regular before dev, each
// sorted by name for deterministic resolution order.
func (m *Manifest) Requirements() []Requirement {
	reqs := make([]Requirement, 0, len(m.Dependencies)+len(m.DevDependencies))
	for _, name := range sortedKeys(m.Dependencies) {
		reqs = append(reqs, Requirement{Spec: model.NewSpecifier(name, m.Dependencies[name])})
	}
	for _, name := range sortedKeys(m.DevDependencies) {
		reqs = append(reqs, Requirement{Spec: model.NewSpecifier(name, m.DevDependencies[name]), Dev: true})
	}
	return reqs
}

// Specifiers returns all requirements as bare specifiers.
func (m *Manifest) Specifiers() []model.Specifier {
	reqs := m.Requirements()
	specs := make([]model.Specifier, len(reqs))
	for i, r := range reqs {
		specs[i] = r.Spec
	}
	return specs
}

// SetDependency records a requirement in the dependencies (or
// devDependencies) map, replacing any previous range.
func (m *Manifest) SetDependency(name, versionRange string, dev bool) {
	target := &m.Dependencies
	if dev {
		target = &m.DevDependencies
	}
	if *target == nil {
		*target = map[string]string{}
	}
	(*target)[name] = versionRange
}

// RemoveDependency drops a requirement. It reports whether the name was
// declared in the selected map.
func (m *Manifest) RemoveDependency(name string, dev bool) bool {
	target := m.Dependencies
	if dev {
		target = m.DevDependencies
	}
	if _, ok := target[name]; !ok {
		return false
	}
	delete(target, name)
	return true
}

// Script returns the named script and whether it is declared.
func (m *Manifest) Script(name string) (string, bool) {
	s, ok := m.Scripts[name]
	return s, ok
}

// Bins normalizes the bin field into a command-to-script map, substituting
// the package name for the bare string form.
func (m *Manifest) Bins() map[string]string {
	if len(m.Bin) == 0 {
		return nil
	}
	bins := make(map[string]string, len(m.Bin))
	for cmd, script := range m.Bin {
		if cmd == "" {
			cmd = m.Name
		}
		bins[cmd] = script
	}
	return bins
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
