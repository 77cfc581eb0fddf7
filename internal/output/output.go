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

// Package output renders reports and writes command output for
// cargo-new-deps.
package output

import (
	"io"

	"github.com/spf13/viper"

	"bennypowers.dev/cargo-new-deps/fs"
)

// Write writes content to the file named by viper's "output" key, or to w
// when no output file is configured.
func Write(osfs fs.FileSystem, w io.Writer, content []byte) error {
	if outputPath := viper.GetString("output"); outputPath != "" {
		return osfs.WriteFile(outputPath, content, 0644)
	}
	_, err := w.Write(content)
	return err
}

// ToFile returns true if output is redirected to a file.
func ToFile() bool {
	return viper.GetString("output") != ""
}
