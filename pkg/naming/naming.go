// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package naming defines the file naming scheme used by managed file groups.
// A scheme both generates full file names from bare names and recognizes
// which files in a directory belong to the group that owns it.
package naming

import "strings"

// Scheme describes how the members of a file group are named: an optional
// subfolder under the group's root, and an optional prefix/suffix wrapped
// around each bare file name. The zero value matches every file name and
// passes names through unchanged.
type Scheme struct {
	// Subfolder is an extra directory component under the group's resolved
	// root. Empty means the group lives directly in the root.
	Subfolder string `json:"subfolder,omitempty" yaml:"subfolder,omitempty" hcl:"subfolder,optional"`

	// Prefix is prepended to every bare name.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" hcl:"prefix,optional"`

	// Suffix is appended to every bare name.
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty" hcl:"suffix,optional"`
}

// ResolveFileName returns the full on-disk file name for a bare name.
func (s Scheme) ResolveFileName(bare string) string {
	if s.Prefix == "" && s.Suffix == "" {
		return bare
	}
	return s.Prefix + bare + s.Suffix
}

// ParseFileName extracts the bare name from a full file name. It reports
// ok=false when the name is too short to contain both prefix and suffix, or
// when either anchor does not match. A scheme without prefix and suffix
// accepts any name and returns it unchanged.
//
// ParseFileName and Matches accept exactly the same set of names, so every
// file an iterator yields has a recoverable bare name.
func (s Scheme) ParseFileName(full string) (string, bool) {
	if len(full) < len(s.Prefix)+len(s.Suffix) {
		return "", false
	}
	if !strings.HasPrefix(full, s.Prefix) {
		return "", false
	}
	if !strings.HasSuffix(full, s.Suffix) {
		return "", false
	}
	return full[len(s.Prefix) : len(full)-len(s.Suffix)], true
}

// Matches reports whether a full file name belongs to this scheme.
func (s Scheme) Matches(full string) bool {
	_, ok := s.ParseFileName(full)
	return ok
}

// SpansEntireSubfolder reports whether the scheme owns its subfolder
// outright: a subfolder is set and no prefix or suffix narrows membership.
// Only a spanning scheme authorizes whole-directory operations such as bulk
// removal or a single-rename migration.
func (s Scheme) SpansEntireSubfolder() bool {
	return s.Subfolder != "" && s.Prefix == "" && s.Suffix == ""
}

// String returns a compact description for logging.
func (s Scheme) String() string {
	var b strings.Builder
	b.WriteString("scheme(")
	if s.Subfolder != "" {
		b.WriteString(s.Subfolder)
		b.WriteString("/")
	}
	b.WriteString(s.Prefix)
	b.WriteString("*")
	b.WriteString(s.Suffix)
	b.WriteString(")")
	return b.String()
}
