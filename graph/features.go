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
	"slices"
	"strings"

	"bennypowers.dev/cargo-new-deps/metadata"
)

// FeatureSet is a set of feature names.
type FeatureSet map[string]struct{}

// NewFeatureSet returns a set holding the given features.
func NewFeatureSet(features ...string) FeatureSet {
	s := make(FeatureSet, len(features))
	for _, f := range features {
		s[f] = struct{}{}
	}
	return s
}

// Add inserts a feature into the set.
func (s FeatureSet) Add(feature string) {
	s[feature] = struct{}{}
}

// Contains reports whether feature is in the set.
func (s FeatureSet) Contains(feature string) bool {
	_, ok := s[feature]
	return ok
}

// IsSuperset reports whether every feature of other is also in s.
// Equal sets are supersets of each other, and every set is a superset of
// the empty set.
func (s FeatureSet) IsSuperset(other FeatureSet) bool {
	if len(other) > len(s) {
		return false
	}
	for f := range other {
		if !s.Contains(f) {
			return false
		}
	}
	return true
}

// Sorted returns the features in ascending order. The result is never nil.
func (s FeatureSet) Sorted() []string {
	features := make([]string, 0, len(s))
	for f := range s {
		features = append(features, f)
	}
	slices.Sort(features)
	return features
}

// Propagate returns the features that parent switches on in dep through its
// own enabled features.
//
// For every feature of parent that is enabled, each activation of the form
// "crate/feature" whose crate is dep's name contributes "feature". Plain
// activations ("std", "dep:foo") and activations of other crates have no
// effect on dep.
func Propagate(parent *metadata.Package, enabled FeatureSet, dep *metadata.Package) FeatureSet {
	result := make(FeatureSet)
	for name, activations := range parent.Features {
		if !enabled.Contains(name) {
			continue
		}
		for _, activation := range activations {
			crate, feature, ok := strings.Cut(activation, "/")
			if !ok || crate != dep.Name {
				continue
			}
			result.Add(feature)
		}
	}
	return result
}
