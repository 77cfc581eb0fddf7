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
	"errors"
	"strings"
)

// ErrNoDefaultBranch is returned when origin has no HEAD to compare against.
var ErrNoDefaultBranch = errors.New("could not get default branch")

// Git runs git commands inside a repository.
type Git struct {
	runner Runner
	repo   string
}

// NewGit creates a Git for the repository containing dir.
func NewGit(runner Runner, dir string) *Git {
	return &Git{runner: runner, repo: dir}
}

// DefaultBranch returns the remote branch origin/HEAD points to, e.g.
// "refs/remotes/origin/main".
func (g *Git) DefaultBranch(ctx context.Context) (string, error) {
	out, err := g.git(ctx, "symbolic-ref", "refs/remotes/origin/HEAD")
	if err != nil {
		return "", errors.Join(ErrNoDefaultBranch, err)
	}
	branch := strings.TrimSpace(string(out))
	if branch == "" {
		return "", ErrNoDefaultBranch
	}
	return branch, nil
}

// AddWorktree checks out rev into a new detached working tree at path.
// Detaching lets rev name a branch that is already checked out elsewhere.
func (g *Git) AddWorktree(ctx context.Context, path, rev string) error {
	_, err := g.git(ctx, "worktree", "add", "--detach", path, rev)
	return err
}

// RemoveWorktree deletes the working tree at path and unregisters it.
func (g *Git) RemoveWorktree(ctx context.Context, path string) error {
	_, err := g.git(ctx, "worktree", "remove", "-f", path)
	return err
}

func (g *Git) git(ctx context.Context, args ...string) ([]byte, error) {
	return g.runner.Run(ctx, g.repo, "git", args...)
}
