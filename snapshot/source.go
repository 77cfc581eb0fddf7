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

// Package snapshot acquires the cargo metadata snapshots to compare: from a
// JSON file, from a git revision checked out into a disposable working
// tree, or from the current working tree.
package snapshot

import (
	"context"
	"fmt"
	"path/filepath"

	"bennypowers.dev/cargo-new-deps/fs"
	"bennypowers.dev/cargo-new-deps/metadata"
)

// Source produces one metadata snapshot.
type Source interface {
	// Load acquires the snapshot.
	Load(ctx context.Context) (*metadata.Metadata, error)

	// Method names how the snapshot is acquired ("json", "revision",
	// "worktree"), for error messages.
	Method() string

	// Key identifies the snapshot; sources with equal keys load equal
	// snapshots.
	Key() string
}

// FileSource reads metadata previously saved with
// `cargo metadata --format-version 1 > file.json`.
type FileSource struct {
	fs   fs.FileSystem
	path string
}

// NewFileSource creates a source reading path.
func NewFileSource(fsys fs.FileSystem, path string) *FileSource {
	return &FileSource{fs: fsys, path: filepath.Clean(path)}
}

func (s *FileSource) Method() string { return "json" }

func (s *FileSource) Key() string { return "json:" + s.path }

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (*metadata.Metadata, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %s: %w", s.path, err)
	}
	m, err := metadata.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse metadata from file: %s: %w", s.path, err)
	}
	return m, nil
}

// WorkTreeSource runs cargo metadata in an existing working tree.
type WorkTreeSource struct {
	cargo *Cargo
	dir   string
}

// NewWorkTreeSource creates a source for the working tree at dir.
func NewWorkTreeSource(cargo *Cargo, dir string) *WorkTreeSource {
	return &WorkTreeSource{cargo: cargo, dir: dir}
}

func (s *WorkTreeSource) Method() string { return "worktree" }

func (s *WorkTreeSource) Key() string { return "worktree:" + s.dir }

// Load implements Source.
func (s *WorkTreeSource) Load(ctx context.Context) (*metadata.Metadata, error) {
	return s.cargo.Metadata(ctx, s.dir)
}

// RevisionSource runs cargo metadata on a git revision checked out into a
// temporary working tree. The working tree only lives for the duration of
// Load.
type RevisionSource struct {
	fs     fs.FileSystem
	git    *Git
	cargo  *Cargo
	rev    string
	logger Logger
}

// NewRevisionSource creates a source for rev. logger may be nil.
func NewRevisionSource(fsys fs.FileSystem, git *Git, cargo *Cargo, rev string, logger Logger) *RevisionSource {
	return &RevisionSource{fs: fsys, git: git, cargo: cargo, rev: rev, logger: logger}
}

func (s *RevisionSource) Method() string { return "revision" }

func (s *RevisionSource) Key() string { return "revision:" + s.rev }

// Revision returns the git revision this source checks out.
func (s *RevisionSource) Revision() string { return s.rev }

// Load implements Source.
func (s *RevisionSource) Load(ctx context.Context) (*metadata.Metadata, error) {
	var m *metadata.Metadata
	err := s.withWorktree(ctx, func(dir string) error {
		var err error
		m, err = s.cargo.Metadata(ctx, dir)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// withWorktree checks the revision out into a fresh temporary directory,
// calls fn with its path and removes it again on every return path.
func (s *RevisionSource) withWorktree(ctx context.Context, fn func(dir string) error) error {
	tmpDir, err := s.fs.MkdirTemp(s.fs.TempDir(), "cargo-new-deps-")
	if err != nil {
		return fmt.Errorf("could not create temporary directory: %w", err)
	}
	defer func() {
		if err := s.fs.RemoveAll(tmpDir); err != nil {
			s.warn("Failed to remove temporary directory %s: %v", tmpDir, err)
		}
	}()

	dir := filepath.Join(tmpDir, "worktree")
	if err := s.git.AddWorktree(ctx, dir, s.rev); err != nil {
		return fmt.Errorf("git working tree creation failed for %q: %w", s.rev, err)
	}
	s.debug("Checked out %s into %s", s.rev, dir)

	defer func() {
		// Clean up even when ctx has been cancelled.
		if err := s.git.RemoveWorktree(context.WithoutCancel(ctx), dir); err != nil {
			s.warn("Failed to remove git working tree %s: %v", dir, err)
		}
	}()

	return fn(dir)
}

func (s *RevisionSource) warn(format string, args ...any) {
	if s.logger != nil {
		s.logger.Warning(format, args...)
	}
}

func (s *RevisionSource) debug(format string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(format, args...)
	}
}
