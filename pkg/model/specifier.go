// Package model provides data structures and types for representing package
// requirements, resolved dependencies, and dependency trees in the tressel
// package manager.
package model

import (
	"github.com/Masterminds/semver/v3"
)

// AnyRange matches every published version.
const AnyRange = "*"

// Specifier identifies a requirement: a package name plus a version range, as
// declared by a manifest or by another package's own dependency list. It is a
// value type and is used as a relation key in the dependency graph.
type Specifier struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

// NewSpecifier creates a specifier, normalizing an empty range to AnyRange.
func NewSpecifier(name, versionRange string) Specifier {
	if versionRange == "" {
		versionRange = AnyRange
	}
	return Specifier{Name: name, Range: versionRange}
}

// Constraint returns the parsed version constraint for this specifier.
func (s Specifier) Constraint() (*semver.Constraints, error) {
	r := s.Range
	if r == "" {
		r = AnyRange
	}
	return semver.NewConstraint(r)
}

// Satisfied checks whether the given concrete version satisfies this
// specifier's range. Unparseable ranges or versions never satisfy.
func (s Specifier) Satisfied(version string) bool {
	constraint, err := s.Constraint()
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return constraint.Check(v)
}

// IsExactTag reports whether the range is a dist-tag reference (such as
// "latest") rather than a parseable version range.
func (s Specifier) IsExactTag() bool {
	if s.Range == "" || s.Range == AnyRange {
		return false
	}
	_, err := semver.NewConstraint(s.Range)
	return err != nil
}

func (s Specifier) String() string {
	return s.Name + "@" + s.Range
}
