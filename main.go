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

// Command cargo-new-deps lists the crates, and the crate features, that a
// change pulls into a Cargo workspace, together with the direct
// dependencies responsible.
//
// Installed on PATH it runs as `cargo new-deps`.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/cargo-new-deps/cmd/diff"
	"bennypowers.dev/cargo-new-deps/cmd/version"
)

// subcommandName is the first argument cargo passes to external subcommands.
const subcommandName = "new-deps"

var (
	cpuprofile     string
	cpuprofileFile *os.File
	rootCmd        = &cobra.Command{
		Use:   "cargo-new-deps",
		Short: "List dependencies and features newly pulled in by a change",
		Long: `cargo-new-deps compares the resolved dependency graphs of two cargo metadata
snapshots and prints each third-party crate that is new or gained features,
with the direct dependencies of the workspace that pulled it in.

By default the working tree is compared against the default branch of origin.
Settings can also come from NEW_DEPS_* environment variables or from
.cargo/new-deps.toml (or .yaml, .json).`,
		Example:      diff.Example,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         diff.Run,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

func init() {
	// Root flags (persistent across all commands)
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	diff.RegisterFlags(rootCmd)

	rootCmd.AddCommand(version.Cmd)
}

// loadConfig reads NEW_DEPS_* environment variables and the optional
// .cargo/new-deps.{toml,yaml,json} file.
func loadConfig() error {
	viper.SetEnvPrefix("NEW_DEPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("new-deps")
	viper.AddConfigPath(".cargo")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("could not read config file: %w", err)
	}
	return nil
}

// cliArgs drops the subcommand name cargo inserts when run as `cargo new-deps`.
func cliArgs(args []string) []string {
	if len(args) > 0 && args[0] == subcommandName {
		return args[1:]
	}
	return args
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd.SetArgs(cliArgs(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
