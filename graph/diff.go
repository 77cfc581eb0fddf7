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
	"cmp"
	"slices"
	"strings"

	"bennypowers.dev/cargo-new-deps/internal/semver"
	"bennypowers.dev/cargo-new-deps/metadata"
)

// Entry is one line of the report: a dependency of the new snapshot with a
// feature set, and the first-level packages that pulled it in that way.
type Entry struct {
	Dependency metadata.PackageID
	// Features is sorted and free of duplicates.
	Features []string
	// Parents is in order of first appearance and free of duplicates.
	Parents []metadata.PackageID
}

// Report is the result of comparing two snapshots. Ids in Entries refer to
// the new snapshot.
type Report struct {
	Entries []Entry
	index   Index
}

// Package returns the new-snapshot package with the given id.
func (r *Report) Package(id metadata.PackageID) *metadata.Package {
	return r.index.Get(id)
}

// IsEmpty returns true if nothing new was pulled in.
func (r *Report) IsEmpty() bool {
	return len(r.Entries) == 0
}

// Compare diffs two validated snapshots.
func Compare(old, new *metadata.Metadata, logger Logger) *Report {
	oldIdx := NewIndex(old)
	newIdx := NewIndex(new)

	oldEdges := CollectEdges(old, oldIdx, logger)
	newEdges := CollectEdges(new, newIdx, logger)

	return &Report{
		Entries: Diff(oldEdges, newEdges, oldIdx, newIdx),
		index:   newIdx,
	}
}

// IsKnown reports whether the old snapshot already had a dependency with
// the same name as edge's dependency and a feature set covering edge's.
// Versions are deliberately ignored: a version bump alone is not news.
func IsKnown(edge Edge, oldEdges []Edge, oldIdx, newIdx Index) bool {
	name := newIdx.Get(edge.Dependency).Name
	for _, old := range oldEdges {
		if oldIdx.Get(old.Dependency).Name == name && old.Features.IsSuperset(edge.Features) {
			return true
		}
	}
	return false
}

// Diff returns the edges of newEdges that are not known from oldEdges,
// grouped by (dependency, feature set) and sorted by dependency name, then
// feature list. Remaining ties (two versions of one crate with the same
// features) are broken by version, then id.
func Diff(oldEdges, newEdges []Edge, oldIdx, newIdx Index) []Entry {
	type groupKey struct {
		dependency metadata.PackageID
		features   string
	}

	var entries []Entry
	groups := make(map[groupKey]int)

	for _, edge := range newEdges {
		if IsKnown(edge, oldEdges, oldIdx, newIdx) {
			continue
		}

		features := edge.Features.Sorted()
		key := groupKey{dependency: edge.Dependency, features: strings.Join(features, "\x00")}

		i, ok := groups[key]
		if !ok {
			entries = append(entries, Entry{Dependency: edge.Dependency, Features: features})
			i = len(entries) - 1
			groups[key] = i
		}
		if !slices.Contains(entries[i].Parents, edge.Parent) {
			entries[i].Parents = append(entries[i].Parents, edge.Parent)
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		pa, pb := newIdx.Get(a.Dependency), newIdx.Get(b.Dependency)
		if c := cmp.Compare(pa.Name, pb.Name); c != 0 {
			return c
		}
		if c := slices.Compare(a.Features, b.Features); c != 0 {
			return c
		}
		if c := compareVersions(pa.Version, pb.Version); c != 0 {
			return c
		}
		return cmp.Compare(a.Dependency, b.Dependency)
	})

	return entries
}

func compareVersions(a, b string) int {
	va, errA := semver.ParseVersion(a)
	vb, errB := semver.ParseVersion(b)
	if errA != nil || errB != nil {
		return cmp.Compare(a, b)
	}
	return semver.Compare(va, vb)
}
