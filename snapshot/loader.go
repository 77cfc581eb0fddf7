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

package snapshot

import (
	"context"
	"fmt"

	"bennypowers.dev/cargo-new-deps/fs"
	"bennypowers.dev/cargo-new-deps/metadata"
)

// Side is the side of the comparison a snapshot is loaded for.
type Side string

const (
	// From is the baseline snapshot.
	From Side = "from"
	// To is the snapshot being reviewed.
	To Side = "to"
)

// Method names for LoadError that are not tied to a Source.
const (
	MethodDefaultBranch = "default-branch"
)

// Logger is an interface for logging messages during acquisition.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// LoadError reports a snapshot that could not be acquired.
type LoadError struct {
	Side   Side
	Method string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s snapshot (%s): %v", e.Side, e.Method, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Spec is the user's choice of snapshot for one side. JSON takes
// precedence over Revision; when both are empty the side's default applies.
type Spec struct {
	JSON     string
	Revision string
}

// Loader resolves Specs to Sources and loads them.
type Loader struct {
	fs     fs.FileSystem
	runner Runner
	dir    string
	cargo  *Cargo
	cache  *Cache
	logger Logger
}

// NewLoader creates a Loader working on the repository and working tree
// at dir.
func NewLoader(fsys fs.FileSystem, runner Runner, dir string) *Loader {
	return &Loader{
		fs:     fsys,
		runner: runner,
		dir:    dir,
		cargo:  NewCargo(runner, ""),
		cache:  NewCache(),
	}
}

// WithCargo returns a new Loader that runs the given cargo binary with
// extra arguments appended to `cargo metadata`.
func (l *Loader) WithCargo(binary string, args []string) *Loader {
	return &Loader{
		fs:     l.fs,
		runner: l.runner,
		dir:    l.dir,
		cargo:  NewCargo(l.runner, binary, args...),
		cache:  l.cache,
		logger: l.logger,
	}
}

// WithLogger returns a new Loader with the specified logger.
func (l *Loader) WithLogger(logger Logger) *Loader {
	return &Loader{
		fs:     l.fs,
		runner: l.runner,
		dir:    l.dir,
		cargo:  l.cargo,
		cache:  l.cache,
		logger: logger,
	}
}

// Source picks the Source for one side. Without a JSON file or revision,
// From defaults to the repository's default branch and To to the working
// tree.
func (l *Loader) Source(ctx context.Context, side Side, spec Spec) (Source, error) {
	switch {
	case spec.JSON != "":
		return NewFileSource(l.fs, spec.JSON), nil
	case spec.Revision != "":
		return l.revision(spec.Revision), nil
	case side == From:
		branch, err := NewGit(l.runner, l.dir).DefaultBranch(ctx)
		if err != nil {
			return nil, &LoadError{Side: side, Method: MethodDefaultBranch, Err: err}
		}
		if l.logger != nil {
			l.logger.Debug("Comparing from default branch %s", branch)
		}
		return l.revision(branch), nil
	default:
		return NewWorkTreeSource(l.cargo, l.dir), nil
	}
}

// Load acquires and validates the snapshot of src. Failures are returned as
// *LoadError naming side and method; a returned snapshot is always safe to
// diff.
func (l *Loader) Load(ctx context.Context, side Side, src Source) (*metadata.Metadata, error) {
	m, err := l.cache.GetOrLoad(src.Key(), func() (*metadata.Metadata, error) {
		if l.logger != nil {
			l.logger.Debug("Loading %s snapshot from %s", side, src.Key())
		}
		m, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("invalid metadata: %w", err)
		}
		return m, nil
	})
	if err != nil {
		return nil, &LoadError{Side: side, Method: src.Method(), Err: err}
	}
	return m, nil
}

// LoadSpec is Source followed by Load.
func (l *Loader) LoadSpec(ctx context.Context, side Side, spec Spec) (*metadata.Metadata, error) {
	src, err := l.Source(ctx, side, spec)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, side, src)
}

func (l *Loader) revision(rev string) *RevisionSource {
	return NewRevisionSource(l.fs, NewGit(l.runner, l.dir), l.cargo, rev, l.logger)
}
