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

package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"

	"bennypowers.dev/cargo-new-deps/graph"
	"bennypowers.dev/cargo-new-deps/metadata"
)

// Format is the report format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch format := Format(s); format {
	case FormatText, FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be 'text' or 'json'", s)
	}
}

// Render formats a report. Colors only apply to the text format.
func Render(report *graph.Report, format Format, useColor bool) ([]byte, error) {
	if format == FormatJSON {
		return JSON(report)
	}
	return Text(report, useColor), nil
}

// Text renders one line per entry:
//
//	name +feature1 +feature2 pulled by: parent1, parent2
//
// An empty report renders as nothing.
func Text(report *graph.Report, useColor bool) []byte {
	name := newColor(useColor, color.FgGreen, color.Bold)
	feature := newColor(useColor, color.FgRed, color.Bold)
	parent := newColor(useColor, color.FgYellow, color.Bold)

	var buf bytes.Buffer
	for _, entry := range report.Entries {
		buf.WriteString(name.Sprint(report.Package(entry.Dependency).Name))
		for _, f := range entry.Features {
			buf.WriteString(" +")
			buf.WriteString(feature.Sprint(f))
		}
		buf.WriteString(" pulled by: ")
		for i, id := range entry.Parents {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(parent.Sprint(report.Package(id).Name))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// PackageRef identifies a package in JSON output.
type PackageRef struct {
	Name    string             `json:"name"`
	Version string             `json:"version"`
	ID      metadata.PackageID `json:"id"`
}

// EntryJSON is the JSON form of a report entry.
type EntryJSON struct {
	PackageRef
	Features []string     `json:"features"`
	PulledBy []PackageRef `json:"pulledBy"`
}

// JSON renders the report as an indented JSON array, "[]" when empty.
func JSON(report *graph.Report) ([]byte, error) {
	entries := make([]EntryJSON, 0, len(report.Entries))
	for _, entry := range report.Entries {
		e := EntryJSON{
			PackageRef: ref(report.Package(entry.Dependency)),
			Features:   entry.Features,
			PulledBy:   make([]PackageRef, 0, len(entry.Parents)),
		}
		if e.Features == nil {
			e.Features = []string{}
		}
		for _, id := range entry.Parents {
			e.PulledBy = append(e.PulledBy, ref(report.Package(id)))
		}
		entries = append(entries, e)
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshaling report: %w", err)
	}
	return append(out, '\n'), nil
}

func ref(pkg *metadata.Package) PackageRef {
	return PackageRef{Name: pkg.Name, Version: pkg.Version, ID: pkg.ID}
}

// newColor returns a color that ignores the global NO_COLOR detection of
// the color package; the caller has already decided.
func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
