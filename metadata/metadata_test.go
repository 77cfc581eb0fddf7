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
package metadata_test

import (
	"errors"
	"strings"
	"testing"

	"bennypowers.dev/cargo-new-deps/internal/mapfs"
	"bennypowers.dev/cargo-new-deps/metadata"
	"bennypowers.dev/cargo-new-deps/testutil"
)

func TestParseFixture(t *testing.T) {
	m := testutil.LoadMetadata(t, "router-3.json")

	if len(m.WorkspaceMembers) != 1 {
		t.Fatalf("len(WorkspaceMembers) = %d, want 1", len(m.WorkspaceMembers))
	}
	if m.Resolve == nil {
		t.Fatal("Expected resolve graph")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	var logger *metadata.Package
	for i := range m.Packages {
		if m.Packages[i].Name == "logger" {
			logger = &m.Packages[i]
		}
	}
	if logger == nil {
		t.Fatal("Expected logger package")
	}
	if logger.String() != "logger 0.4.1" {
		t.Errorf("String() = %q, want %q", logger.String(), "logger 0.4.1")
	}
	if logger.Source == nil || !strings.HasPrefix(*logger.Source, "registry+") {
		t.Errorf("Source = %v, want registry source", logger.Source)
	}
	if got := logger.Features["json"]; len(got) != 2 {
		t.Errorf("Features[json] = %v, want 2 entries", got)
	}

	var itoa *metadata.Dependency
	for i := range logger.Dependencies {
		if logger.Dependencies[i].Name == "itoa" {
			itoa = &logger.Dependencies[i]
		}
	}
	if itoa == nil || !itoa.Optional {
		t.Errorf("itoa dependency = %+v, want optional", itoa)
	}
}

func TestParseMemberHasNoSource(t *testing.T) {
	m := testutil.LoadMetadata(t, "main.json")
	for _, pkg := range m.Packages {
		if pkg.Name == "app" && pkg.Source != nil {
			t.Errorf("app Source = %q, want nil", *pkg.Source)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"future format", `{"packages": [], "version": 2}`, metadata.ErrFormatVersion},
		{"not json", `cargo metadata`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "/work", "metadata/main.json")

	m, err := metadata.ParseFile(mfs, "/work/metadata/main.json")
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if m.Version != metadata.FormatVersion {
		t.Errorf("Version = %d, want %d", m.Version, metadata.FormatVersion)
	}

	if _, err := metadata.ParseFile(mapfs.New(), "/missing.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	pkg := func(id string) metadata.Package {
		return metadata.Package{ID: metadata.PackageID(id), Name: id, Version: "1.0.0"}
	}

	tests := []struct {
		name    string
		m       metadata.Metadata
		wantErr error
		wantMsg string
	}{
		{
			name: "valid",
			m: metadata.Metadata{
				Packages:         []metadata.Package{pkg("a"), pkg("b")},
				WorkspaceMembers: []metadata.PackageID{"a"},
				Resolve: &metadata.Resolve{Nodes: []metadata.Node{
					{ID: "a", Dependencies: []metadata.PackageID{"b"}},
					{ID: "b"},
				}},
			},
		},
		{
			name:    "no resolve",
			m:       metadata.Metadata{Packages: []metadata.Package{pkg("a")}},
			wantErr: metadata.ErrNoResolve,
		},
		{
			name: "unknown member",
			m: metadata.Metadata{
				Packages:         []metadata.Package{pkg("a")},
				WorkspaceMembers: []metadata.PackageID{"z"},
				Resolve:          &metadata.Resolve{},
			},
			wantErr: metadata.ErrUnknownPackage,
			wantMsg: `workspace member "z"`,
		},
		{
			name: "unknown node",
			m: metadata.Metadata{
				Packages: []metadata.Package{pkg("a")},
				Resolve:  &metadata.Resolve{Nodes: []metadata.Node{{ID: "z"}}},
			},
			wantErr: metadata.ErrUnknownPackage,
			wantMsg: `resolve node "z"`,
		},
		{
			name: "unknown node dependency",
			m: metadata.Metadata{
				Packages: []metadata.Package{pkg("a")},
				Resolve: &metadata.Resolve{Nodes: []metadata.Node{
					{ID: "a", Dependencies: []metadata.PackageID{"z"}},
				}},
			},
			wantErr: metadata.ErrUnknownPackage,
			wantMsg: `"z" (dependency of "a")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %q, want it to mention %s", err, tt.wantMsg)
			}
		})
	}
}
