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

// Package group implements managed file groups: logical collections of
// files that share a directory, a naming scheme, and a protection policy.
// A group resolves its directory once at construction; member files are
// short-lived handles produced on demand.
//
// All operations are synchronous filesystem calls. Callers confine a group
// to one goroutine at a time; no locking is provided.
package group

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/stash/pkg/attrs"
	"github.com/walteh/stash/pkg/naming"
	"github.com/walteh/stash/pkg/role"
	"gitlab.com/tozd/go/errors"
)

// Group is a managed collection of files below one resolved directory.
type Group struct {
	dir        string
	role       role.Role
	scheme     naming.Scheme
	protection attrs.Class
}

type options struct {
	locator    role.Locator
	appID      string
	protection attrs.Class
}

// Option configures group construction.
type Option func(*options)

// WithLocator overrides the platform directory locator. Tests use this to
// root groups in a temp directory.
func WithLocator(l role.Locator) Option {
	return func(o *options) { o.locator = l }
}

// WithAppID sets the application identifier appended below cache and
// internal-data roots.
func WithAppID(id string) Option {
	return func(o *options) { o.appID = id }
}

// WithProtection sets the protection class applied to the group's directory
// and files. The default is attrs.ClassStandard.
func WithProtection(c attrs.Class) Option {
	return func(o *options) { o.protection = c }
}

// New resolves a group's directory from its role and naming scheme. The
// resolution is eager: a misconfigured role/scheme pair fails here, wrapped
// in role.ErrConfig, rather than on first use.
func New(r role.Role, scheme naming.Scheme, opts ...Option) (*Group, error) {
	o := options{locator: role.DefaultLocator(), protection: attrs.ClassStandard}
	for _, opt := range opts {
		opt(&o)
	}

	root, appendAppID, err := r.Resolve(o.locator)
	if err != nil {
		return nil, errors.Errorf("resolving role %s: %w", r, err)
	}

	dir := root
	if appendAppID {
		if o.appID == "" {
			return nil, errors.Errorf("role %s requires an application id: %w", r, role.ErrConfig)
		}
		if err := validatePathComponent(o.appID); err != nil {
			return nil, errors.Errorf("application id %q: %w: %w", o.appID, err, role.ErrConfig)
		}
		dir = filepath.Join(dir, o.appID)
	}
	if scheme.Subfolder != "" {
		if err := validatePathComponent(scheme.Subfolder); err != nil {
			return nil, errors.Errorf("subfolder %q: %w: %w", scheme.Subfolder, err, role.ErrConfig)
		}
		dir = filepath.Join(dir, scheme.Subfolder)
	}

	return &Group{
		dir:        dir,
		role:       r,
		scheme:     scheme,
		protection: o.protection,
	}, nil
}

// validatePathComponent rejects components that would escape the resolved
// root.
func validatePathComponent(c string) error {
	if strings.ContainsAny(c, `/\`) || c == "." || c == ".." {
		return errors.New("contains path separators")
	}
	return nil
}

// Dir returns the group's resolved absolute directory.
func (g *Group) Dir() string {
	return g.dir
}

// Role returns the group's storage role.
func (g *Group) Role() role.Role {
	return g.role
}

// Scheme returns the group's naming scheme.
func (g *Group) Scheme() naming.Scheme {
	return g.scheme
}

// Protection returns the group's protection class.
func (g *Group) Protection() attrs.Class {
	return g.protection
}

// CreateDirectory creates the group's directory, intermediates included,
// and applies the protection class and backup-exclusion attributes to it.
// Idempotent.
func (g *Group) CreateDirectory(ctx context.Context) error {
	if err := os.MkdirAll(g.dir, g.protection.DirMode()); err != nil {
		return errors.Errorf("creating directory %s: %w", g.dir, err)
	}
	if err := attrs.Apply(ctx, g.dir, g.protection, g.role.ShouldExcludeFromBackup()); err != nil {
		return errors.Errorf("applying directory attributes: %w", err)
	}
	return nil
}

// ResetAttributes re-applies protection and backup attributes to the
// directory itself. It only acts when the naming scheme spans the entire
// subfolder; otherwise the per-file reset is the unit of truth.
func (g *Group) ResetAttributes(ctx context.Context) error {
	if !g.scheme.SpansEntireSubfolder() {
		return nil
	}
	if err := attrs.Apply(ctx, g.dir, g.protection, g.role.ShouldExcludeFromBackup()); err != nil {
		return errors.Errorf("resetting directory attributes: %w", err)
	}
	return nil
}

// ResetAttributesOnAllFiles ensures the directory exists, then re-applies
// attributes to every member file and, for spanning schemes, the directory.
func (g *Group) ResetAttributesOnAllFiles(ctx context.Context) error {
	if err := g.CreateDirectory(ctx); err != nil {
		return err
	}
	files, err := g.Files(ctx)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := f.ResetAttributes(ctx); err != nil {
			return errors.Errorf("resetting attributes on %s: %w", f.Name(), err)
		}
	}
	return g.ResetAttributes(ctx)
}

// RemoveAll deletes the group's members. A spanning scheme removes the
// whole directory in one operation; otherwise each matching file is removed
// individually and the directory and non-matching siblings are preserved.
func (g *Group) RemoveAll(ctx context.Context) error {
	if g.scheme.SpansEntireSubfolder() {
		zerolog.Ctx(ctx).Debug().Str("dir", g.dir).Msg("removing entire group directory")
		if err := os.RemoveAll(g.dir); err != nil {
			return errors.Errorf("removing directory %s: %w", g.dir, err)
		}
		return nil
	}

	files, err := g.Files(ctx)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f.Path()); err != nil {
			return errors.Errorf("removing %s: %w", f.Name(), err)
		}
	}
	return nil
}

// Files lists the group's members: the immediate children of the directory
// whose names match the naming scheme. A missing directory yields an empty
// list. Enumeration is best-effort: a partial listing error is logged and
// the readable entries are still returned.
func (g *Group) Files(ctx context.Context) ([]File, error) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if len(entries) == 0 {
			return nil, errors.Errorf("listing %s: %w", g.dir, err)
		}
		// Partial listing: keep what was readable.
		zerolog.Ctx(ctx).Warn().Err(err).Str("dir", g.dir).Msg("partial directory listing")
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !g.scheme.Matches(entry.Name()) {
			continue
		}
		files = append(files, File{path: filepath.Join(g.dir, entry.Name()), group: g})
	}
	return files, nil
}

// FilesMatching lists members whose bare names match any of the given
// doublestar patterns. No patterns means all members.
func (g *Group) FilesMatching(ctx context.Context, patterns ...string) ([]File, error) {
	files, err := g.Files(ctx)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return files, nil
	}

	var matched []File
	for _, f := range files {
		bare, _ := g.scheme.ParseFileName(f.Name())
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, bare)
			if err != nil {
				return nil, errors.Errorf("matching pattern %q: %w", pattern, err)
			}
			if ok {
				matched = append(matched, f)
				break
			}
		}
	}
	return matched, nil
}

// File returns the member handle for a bare name. The file need not
// exist. Bare names are single path components; one that would resolve
// outside the group directory is a programming error and panics.
func (g *Group) File(bare string) File {
	if err := validatePathComponent(bare); err != nil {
		panic("group: bare name " + bare + " escapes the group directory")
	}
	return File{
		path:  filepath.Join(g.dir, g.scheme.ResolveFileName(bare)),
		group: g,
	}
}

// FileWithFullName returns the member handle for a literal full file name.
// A name that does not match the group's scheme is a programming error and
// panics: every member handle must have a recoverable bare name.
func (g *Group) FileWithFullName(full string) File {
	if err := validatePathComponent(full); err != nil {
		panic("group: file name " + full + " escapes the group directory")
	}
	if !g.scheme.Matches(full) {
		panic("group: file name " + full + " does not match naming scheme " + g.scheme.String())
	}
	return File{path: filepath.Join(g.dir, full), group: g}
}
