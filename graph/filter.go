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
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidatePatterns checks exclude patterns without matching anything.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// Exclude returns a copy of the report without the entries whose dependency
// name matches one of the glob patterns (e.g. "windows-*", "{libc,winapi}").
func (r *Report) Exclude(patterns []string) (*Report, error) {
	if err := ValidatePatterns(patterns); err != nil {
		return nil, err
	}

	filtered := &Report{index: r.index}
	for _, entry := range r.Entries {
		name := r.index.Get(entry.Dependency).Name
		excluded := false
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, name); ok {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered.Entries = append(filtered.Entries, entry)
		}
	}
	return filtered, nil
}
