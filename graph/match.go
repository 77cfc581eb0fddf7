/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package graph

import (
	"net/url"
	"strings"

	"bennypowers.dev/cargo-new-deps/internal/semver"
	"bennypowers.dev/cargo-new-deps/metadata"
)

// Candidate is a package of a snapshot together with its parsed version.
type Candidate struct {
	Package *metadata.Package
	Version semver.Version
}

// NormalizeSource drops the fragment of a source location. Cargo records
// the resolved commit of git dependencies as the fragment of the package
// source ("git+https://host/repo?branch=main#1a2b3c"), while the declared
// dependency carries no fragment.
func NormalizeSource(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		before, _, _ := strings.Cut(raw, "#")
		return before
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// SameSource reports whether two optional source locations are equivalent:
// both absent, or both present and equal once normalized.
func SameSource(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return NormalizeSource(*a) == NormalizeSource(*b)
}

// Equivalent reports whether c can satisfy the declared dependency dep
// whose parsed requirement is req: same name, same source and a version
// meeting the requirement.
func Equivalent(dep metadata.Dependency, req semver.Constraint, c Candidate) bool {
	return c.Package.Name == dep.Name &&
		SameSource(c.Package.Source, dep.Source) &&
		semver.Satisfies(c.Version, req)
}

// Best returns the candidate with the highest version. When several share
// the highest version the earliest one wins.
func Best(candidates []Candidate) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range candidates {
		if !found || semver.Compare(c.Version, best.Version) > 0 {
			best = c
			found = true
		}
	}
	return best, found
}

// Matcher finds the package of a snapshot that a declared dependency
// resolved to.
type Matcher struct {
	byName map[string][]Candidate
	logger Logger
}

// NewMatcher prepares a matcher over the packages of one snapshot.
// Packages whose version cannot be parsed never match anything.
func NewMatcher(packages []metadata.Package, logger Logger) *Matcher {
	m := &Matcher{
		byName: make(map[string][]Candidate),
		logger: logger,
	}
	for i := range packages {
		pkg := &packages[i]
		v, err := semver.ParseVersion(pkg.Version)
		if err != nil {
			if logger != nil {
				logger.Debug("Ignoring package %s: %v", pkg.ID, err)
			}
			continue
		}
		m.byName[pkg.Name] = append(m.byName[pkg.Name], Candidate{Package: pkg, Version: v})
	}
	return m
}

// Resolve returns the package dep resolved to, or nil when no package of
// the snapshot is equivalent to it. A nil result is normal: optional,
// platform-specific and removed dependencies are absent from the graph.
func (m *Matcher) Resolve(dep metadata.Dependency) *metadata.Package {
	req, err := semver.ParseConstraint(dep.Req)
	if err != nil {
		if m.logger != nil {
			m.logger.Debug("Ignoring dependency %s: %v", dep.Name, err)
		}
		return nil
	}

	var matches []Candidate
	for _, c := range m.byName[dep.Name] {
		if Equivalent(dep, req, c) {
			matches = append(matches, c)
		}
	}

	best, ok := Best(matches)
	if !ok {
		return nil
	}
	return best.Package
}
