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
package graph_test

import (
	"bennypowers.dev/cargo-new-deps/graph"
	"bennypowers.dev/cargo-new-deps/metadata"
)

const registry = "registry+https://github.com/rust-lang/crates.io-index"

func strPtr(s string) *string {
	return &s
}

func dep(name, req string) metadata.Dependency {
	return metadata.Dependency{
		Name:                name,
		Source:              strPtr(registry),
		Req:                 req,
		UsesDefaultFeatures: true,
	}
}

func registryPackage(name, version string) metadata.Package {
	return metadata.Package{
		ID:       metadata.PackageID(name + " " + version + " (" + registry + ")"),
		Name:     name,
		Version:  version,
		Source:   strPtr(registry),
		Features: map[string][]string{},
	}
}

// testPkg describes one package of a test snapshot. resolved lists the
// "name version" of the packages the resolve node depends on.
type testPkg struct {
	name     string
	version  string
	member   bool
	deps     []metadata.Dependency
	features map[string][]string
	enabled  []string
	resolved []string
}

func buildSnapshot(pkgs ...testPkg) *metadata.Metadata {
	m := &metadata.Metadata{Resolve: &metadata.Resolve{}, Version: metadata.FormatVersion}
	ids := make(map[string]metadata.PackageID)

	for _, tp := range pkgs {
		p := registryPackage(tp.name, tp.version)
		if tp.member {
			p.ID = metadata.PackageID(tp.name + " " + tp.version + " (path+file:///ws/" + tp.name + ")")
			p.Source = nil
			m.WorkspaceMembers = append(m.WorkspaceMembers, p.ID)
		}
		p.Dependencies = tp.deps
		if tp.features != nil {
			p.Features = tp.features
		}
		ids[tp.name+" "+tp.version] = p.ID
		m.Packages = append(m.Packages, p)
	}

	for _, tp := range pkgs {
		node := metadata.Node{
			ID:       ids[tp.name+" "+tp.version],
			Features: tp.enabled,
		}
		for _, r := range tp.resolved {
			id, ok := ids[r]
			if !ok {
				panic("unknown resolved package " + r)
			}
			node.Dependencies = append(node.Dependencies, id)
		}
		m.Resolve.Nodes = append(m.Resolve.Nodes, node)
	}
	return m
}

// names maps report ids back to "name version" for readable assertions.
func names(idx graph.Index, ids []metadata.PackageID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.Get(id).String())
	}
	return out
}

// recordingLogger collects log lines for assertions.
type recordingLogger struct {
	warnings []string
	debugs   []string
}

func (l *recordingLogger) Warning(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}

func (l *recordingLogger) Debug(format string, args ...any) {
	l.debugs = append(l.debugs, format)
}
