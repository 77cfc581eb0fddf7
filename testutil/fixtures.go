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

// Package testutil provides testing utilities for cargo-new-deps.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/cargo-new-deps/internal/mapfs"
	"bennypowers.dev/cargo-new-deps/metadata"
)

// updateGolden enables updating golden files with actual output when -update flag is set.
var updateGolden = flag.Bool("update", false, "update golden files with actual output")

// fixtureCandidates lists where a testdata-relative path may live, since go
// test runs each package from its own directory.
func fixtureCandidates(rel string) []string {
	return []string{
		filepath.Join("testdata", rel),
		filepath.Join("..", "testdata", rel),
		filepath.Join("..", "..", "testdata", rel),
	}
}

// FixturePath returns the on-disk path of a fixture relative to testdata/.
func FixturePath(t *testing.T, fixturePath string) string {
	t.Helper()
	for _, path := range fixtureCandidates(fixturePath) {
		if _, err := os.Stat(path); err == nil {
			abs, err := filepath.Abs(path)
			if err != nil {
				t.Fatalf("Failed to resolve fixture path %s: %v", path, err)
			}
			return abs
		}
	}
	t.Fatalf("Could not find fixture %s (tried all paths)", fixturePath)
	return ""
}

// LoadFixtureFile reads a single fixture file and returns its content.
// The fixturePath should be relative to testdata/.
func LoadFixtureFile(t *testing.T, fixturePath string) []byte {
	t.Helper()

	var content []byte
	var err error
	for _, path := range fixtureCandidates(fixturePath) {
		content, err = os.ReadFile(path)
		if err == nil {
			return content
		}
	}
	t.Fatalf("Failed to read fixture %s (tried all paths): %v", fixturePath, err)
	return nil
}

// LoadMetadata parses a cargo metadata fixture from testdata/metadata.
func LoadMetadata(t *testing.T, name string) *metadata.Metadata {
	t.Helper()
	m, err := metadata.Parse(LoadFixtureFile(t, filepath.Join("metadata", name)))
	if err != nil {
		t.Fatalf("Failed to parse metadata fixture %s: %v", name, err)
	}
	return m
}

// NewFixtureFS returns a MapFileSystem holding the given testdata fixtures,
// each stored under rootPath with its testdata-relative path.
func NewFixtureFS(t *testing.T, rootPath string, fixtures ...string) *mapfs.MapFileSystem {
	t.Helper()

	mfs := mapfs.New()
	for _, fixture := range fixtures {
		content := LoadFixtureFile(t, fixture)
		mfs.AddFile(filepath.Join(rootPath, fixture), string(content), 0644)
	}
	return mfs
}

// LoadGoldenFile reads a golden file (expected output) from testdata.
// If the -update flag is set, returns nil so the caller can write actual output.
func LoadGoldenFile(t *testing.T, goldenPath string) []byte {
	t.Helper()
	if *updateGolden {
		return nil
	}
	return LoadFixtureFile(t, goldenPath)
}

// UpdateGoldenFile writes actual output to the golden file when -update flag is set.
// No-ops when -update is not set. Creates parent directories as needed.
func UpdateGoldenFile(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()
	if !*updateGolden {
		return
	}

	possiblePaths := fixtureCandidates(goldenPath)

	// Use the first path that has an existing parent directory
	var targetPath string
	for _, path := range possiblePaths {
		parentDir := filepath.Dir(path)
		if _, err := os.Stat(parentDir); err == nil {
			targetPath = path
			break
		}
	}
	if targetPath == "" {
		targetPath = possiblePaths[0]
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		t.Fatalf("Failed to create directory for golden file %s: %v", goldenPath, err)
	}

	if err := os.WriteFile(targetPath, actual, 0644); err != nil {
		t.Fatalf("Failed to write golden file %s: %v", goldenPath, err)
	}

	t.Logf("Updated golden file: %s", targetPath)
}
