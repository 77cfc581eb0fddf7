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
	"bennypowers.dev/cargo-new-deps/metadata"
)

// Edge records that Parent depends on Dependency and switches on Features
// in it.
type Edge struct {
	Parent     metadata.PackageID
	Features   FeatureSet
	Dependency metadata.PackageID
}

// FirstLevel returns the ids of the packages that workspace members depend
// on directly.
func FirstLevel(m *metadata.Metadata) map[metadata.PackageID]bool {
	first := make(map[metadata.PackageID]bool)
	if m.Resolve == nil {
		return first
	}

	members := make(map[metadata.PackageID]bool, len(m.WorkspaceMembers))
	for _, id := range m.WorkspaceMembers {
		members[id] = true
	}

	for _, node := range m.Resolve.Nodes {
		if !members[node.ID] {
			continue
		}
		for _, dep := range node.Dependencies {
			first[dep] = true
		}
	}
	return first
}

// CollectEdges returns the dependency edges of a snapshot whose parent is a
// first-level dependency of the workspace.
//
// Every declared dependency of such a parent is matched against the whole
// package list of the snapshot; dependencies that match nothing are
// skipped. Edges come out in resolve-node order, then in declaration order,
// and the same edge may appear more than once.
func CollectEdges(m *metadata.Metadata, idx Index, logger Logger) []Edge {
	if m.Resolve == nil {
		return nil
	}

	firstLevel := FirstLevel(m)
	matcher := NewMatcher(m.Packages, logger)

	var edges []Edge
	for _, node := range m.Resolve.Nodes {
		parent := idx.Get(node.ID)
		if !firstLevel[node.ID] {
			continue
		}

		enabled := NewFeatureSet(node.Features...)
		for _, dep := range parent.Dependencies {
			pkg := matcher.Resolve(dep)
			if pkg == nil {
				continue
			}
			edges = append(edges, Edge{
				Parent:     parent.ID,
				Features:   Propagate(parent, enabled, pkg),
				Dependency: pkg.ID,
			})
		}
	}
	return edges
}
