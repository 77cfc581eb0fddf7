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

// Package diff provides the diff command, the default command of
// cargo-new-deps.
package diff

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/cargo-new-deps/fs"
	"bennypowers.dev/cargo-new-deps/graph"
	"bennypowers.dev/cargo-new-deps/internal/output"
	"bennypowers.dev/cargo-new-deps/snapshot"
)

// Example shows typical invocations.
const Example = `  # Compare the working tree against the default branch
  cargo new-deps

  # Compare two revisions
  cargo new-deps --from v1.0.0 --to HEAD

  # Compare saved snapshots (cargo metadata --format-version 1 > main.json)
  cargo new-deps --from-json main.json --to-json branch.json

  # Ignore platform crates and emit JSON
  cargo new-deps --exclude 'windows*' --exclude '{libc,winapi}' --format json`

var flags = []string{
	"from-json",
	"to-json",
	"from",
	"to",
	"format",
	"color",
	"exclude",
	"cargo",
	"cargo-arg",
	"verbose",
}

// RegisterFlags adds the diff flags to cmd and binds them to viper.
func RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from-json", "", "Read the baseline snapshot from a cargo metadata JSON file")
	cmd.Flags().String("to-json", "", "Read the new snapshot from a cargo metadata JSON file")
	cmd.Flags().String("from", "", "Git revision of the baseline (default: origin/HEAD)")
	cmd.Flags().String("to", "", "Git revision to compare (default: the working tree)")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	cmd.Flags().String("color", "auto", "Colorize output (auto, always, never)")
	cmd.Flags().StringArray("exclude", nil, "Glob pattern of dependency names to leave out (can be repeated)")
	cmd.Flags().String("cargo", "", "Cargo executable (default: $CARGO, then cargo)")
	cmd.Flags().StringArray("cargo-arg", nil, "Extra argument for cargo metadata, e.g. --all-features (can be repeated)")
	cmd.Flags().BoolP("verbose", "v", false, "Print debug messages and cargo progress to stderr")

	for _, name := range flags {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
}

// Run compares the two snapshots and writes the report. Nothing is written
// to the output unless both snapshots load.
func Run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	format, err := output.ParseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}
	colorMode, err := output.ParseColorMode(viper.GetString("color"))
	if err != nil {
		return err
	}
	excludes := viper.GetStringSlice("exclude")
	if err := graph.ValidatePatterns(excludes); err != nil {
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not get working directory: %w", err)
	}

	verbose := viper.GetBool("verbose")
	logger := output.NewLogger(cmd.ErrOrStderr(), verbose, colorMode.Enabled(os.Stderr))

	runner := snapshot.NewExecRunner()
	if verbose {
		runner.Stderr = cmd.ErrOrStderr()
	}
	loader := snapshot.NewLoader(osfs, runner, dir).
		WithCargo(viper.GetString("cargo"), viper.GetStringSlice("cargo-arg")).
		WithLogger(logger)

	ctx := cmd.Context()
	from, err := loader.LoadSpec(ctx, snapshot.From, snapshot.Spec{
		JSON:     viper.GetString("from-json"),
		Revision: viper.GetString("from"),
	})
	if err != nil {
		return err
	}
	to, err := loader.LoadSpec(ctx, snapshot.To, snapshot.Spec{
		JSON:     viper.GetString("to-json"),
		Revision: viper.GetString("to"),
	})
	if err != nil {
		return err
	}

	report, err := graph.Compare(from, to, logger).Exclude(excludes)
	if err != nil {
		return err
	}
	logger.Debug("%d new dependency entries", len(report.Entries))

	useColor := !output.ToFile() && colorMode.Enabled(os.Stdout)
	out, err := output.Render(report, format, useColor)
	if err != nil {
		return err
	}
	return output.Write(osfs, cmd.OutOrStdout(), out)
}
