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
	"os"

	"bennypowers.dev/cargo-new-deps/metadata"
)

// Cargo runs `cargo metadata`.
type Cargo struct {
	runner Runner
	binary string
	args   []string
}

// NewCargo creates a Cargo using binary. An empty binary falls back to the
// CARGO environment variable, which cargo sets when it runs a subcommand,
// and then to "cargo" on PATH.
func NewCargo(runner Runner, binary string, args ...string) *Cargo {
	if binary == "" {
		binary = os.Getenv("CARGO")
	}
	if binary == "" {
		binary = "cargo"
	}
	return &Cargo{runner: runner, binary: binary, args: args}
}

// Binary returns the cargo executable in use.
func (c *Cargo) Binary() string {
	return c.binary
}

// Metadata runs `cargo metadata --format-version 1` in dir and parses the result.
func (c *Cargo) Metadata(ctx context.Context, dir string) (*metadata.Metadata, error) {
	args := append([]string{"metadata", "--format-version", fmt.Sprint(metadata.FormatVersion)}, c.args...)
	out, err := c.runner.Run(ctx, dir, c.binary, args...)
	if err != nil {
		return nil, err
	}
	m, err := metadata.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("could not parse metadata: %w", err)
	}
	return m, nil
}
