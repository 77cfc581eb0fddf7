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

// Package graph compares two resolved cargo dependency graphs and reports
// the crates and features that the newer graph pulls in through the
// workspace's direct dependencies.
//
// Package ids are local to the metadata document they come from. Anything
// that crosses from one snapshot to the other goes through package names
// (and, inside a snapshot, name + source + version requirement), never
// through ids.
package graph

import (
	"fmt"

	"bennypowers.dev/cargo-new-deps/metadata"
)

// Logger is an interface for logging messages while building the diff.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// Index maps package ids of one snapshot to their packages.
type Index map[metadata.PackageID]*metadata.Package

// NewIndex builds the id lookup for a snapshot. The returned pointers refer
// into m.Packages.
func NewIndex(m *metadata.Metadata) Index {
	idx := make(Index, len(m.Packages))
	for i := range m.Packages {
		pkg := &m.Packages[i]
		idx[pkg.ID] = pkg
	}
	return idx
}

// Lookup returns the package with the given id.
func (idx Index) Lookup(id metadata.PackageID) (*metadata.Package, bool) {
	pkg, ok := idx[id]
	return pkg, ok
}

// Get returns the package with the given id and panics with an
// *IntegrityError when the snapshot does not contain it. Snapshots are
// validated before they reach this package, so a miss means the input was
// malformed.
func (idx Index) Get(id metadata.PackageID) *metadata.Package {
	pkg, ok := idx[id]
	if !ok {
		panic(&IntegrityError{ID: id})
	}
	return pkg
}

// IntegrityError reports a package id referenced by a snapshot but missing
// from its package list.
type IntegrityError struct {
	ID metadata.PackageID
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("inconsistent metadata: package %q is referenced but not defined", e.ID)
}
