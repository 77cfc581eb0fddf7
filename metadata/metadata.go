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

// Package metadata models the JSON document printed by
// `cargo metadata --format-version 1`.
//
// Only the fields needed to compare two resolved dependency graphs are
// decoded; everything else in the document is ignored.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"

	"bennypowers.dev/cargo-new-deps/fs"
)

// FormatVersion is the metadata format version this package understands.
const FormatVersion = 1

var (
	// ErrNoResolve is returned when the metadata has no resolve graph,
	// e.g. because it was generated with --no-deps.
	ErrNoResolve = errors.New("metadata has no resolve graph (was it generated with --no-deps?)")

	// ErrUnknownPackage is returned when the resolve graph or the workspace
	// members reference a package id that is not in the package list.
	ErrUnknownPackage = errors.New("unknown package id")

	// ErrFormatVersion is returned for metadata in a format this tool cannot read.
	ErrFormatVersion = errors.New("unsupported metadata format version")
)

// PackageID identifies a package within one metadata document. Ids are
// only meaningful inside the document they came from.
type PackageID string

// Metadata is the root of a cargo metadata document.
type Metadata struct {
	Packages         []Package   `json:"packages"`
	WorkspaceMembers []PackageID `json:"workspace_members"`
	Resolve          *Resolve    `json:"resolve"`
	WorkspaceRoot    string      `json:"workspace_root,omitempty"`
	TargetDirectory  string      `json:"target_directory,omitempty"`
	Version          int         `json:"version"`
}

// Package is a single package known to the resolver.
type Package struct {
	ID      PackageID `json:"id"`
	Name    string    `json:"name"`
	Version string    `json:"version"`
	// Source is nil for path dependencies and workspace members.
	Source       *string             `json:"source"`
	Dependencies []Dependency        `json:"dependencies"`
	Features     map[string][]string `json:"features"`
	ManifestPath string              `json:"manifest_path,omitempty"`
}

// Dependency is a dependency as declared in a package manifest.
type Dependency struct {
	Name   string  `json:"name"`
	Source *string `json:"source"`
	// Req is the version requirement, e.g. "^1.0".
	Req                 string   `json:"req"`
	Kind                string   `json:"kind,omitempty"`
	Rename              *string  `json:"rename,omitempty"`
	Optional            bool     `json:"optional"`
	UsesDefaultFeatures bool     `json:"uses_default_features"`
	Features            []string `json:"features"`
	Target              *string  `json:"target,omitempty"`
}

// Resolve is the resolved dependency graph.
type Resolve struct {
	Nodes []Node     `json:"nodes"`
	Root  *PackageID `json:"root"`
}

// Node is one package instance in the resolve graph with the features that
// ended up enabled on it.
type Node struct {
	ID           PackageID   `json:"id"`
	Dependencies []PackageID `json:"dependencies"`
	Features     []string    `json:"features"`
}

// String returns "name version".
func (p *Package) String() string {
	return p.Name + " " + p.Version
}

// Parse parses cargo metadata JSON.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Version != 0 && m.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrFormatVersion, m.Version)
	}
	return &m, nil
}

// ParseFile parses a cargo metadata JSON file.
func ParseFile(fs fs.FileSystem, path string) (*Metadata, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Validate checks that the document can be diffed: it must carry a resolve
// graph, and every id referenced by the resolve graph or the workspace
// member list must name a package in the package list.
func (m *Metadata) Validate() error {
	if m.Resolve == nil {
		return ErrNoResolve
	}

	known := make(map[PackageID]struct{}, len(m.Packages))
	for _, pkg := range m.Packages {
		known[pkg.ID] = struct{}{}
	}

	for _, id := range m.WorkspaceMembers {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: workspace member %q", ErrUnknownPackage, id)
		}
	}

	for _, node := range m.Resolve.Nodes {
		if _, ok := known[node.ID]; !ok {
			return fmt.Errorf("%w: resolve node %q", ErrUnknownPackage, node.ID)
		}
		for _, dep := range node.Dependencies {
			if _, ok := known[dep]; !ok {
				return fmt.Errorf("%w: %q (dependency of %q)", ErrUnknownPackage, dep, node.ID)
			}
		}
	}

	return nil
}
