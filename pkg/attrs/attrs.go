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

// Package attrs applies storage policy to paths as filesystem metadata: a
// protection class expressed as permission bits, and a backup-exclusion flag
// stored as an extended attribute. Backup tooling that honors the flag can
// skip excluded paths without reading file content.
package attrs

import (
	"context"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Class is the protection level applied to managed paths.
type Class int

const (
	// ClassStandard is world-readable content (0644 files, 0755 dirs).
	ClassStandard Class = iota
	// ClassGroup restricts access to the owning user's group (0640/0750).
	ClassGroup
	// ClassPrivate restricts access to the owning user (0600/0700).
	ClassPrivate
	// ClassNone leaves permission bits untouched.
	ClassNone
)

// FileMode returns the permission bits for regular files of this class.
func (c Class) FileMode() fs.FileMode {
	switch c {
	case ClassGroup:
		return 0o640
	case ClassPrivate:
		return 0o600
	default:
		return 0o644
	}
}

// DirMode returns the permission bits for directories of this class.
func (c Class) DirMode() fs.FileMode {
	switch c {
	case ClassGroup:
		return 0o750
	case ClassPrivate:
		return 0o700
	default:
		return 0o755
	}
}

// String returns the config-file spelling of the class.
func (c Class) String() string {
	switch c {
	case ClassGroup:
		return "group"
	case ClassPrivate:
		return "private"
	case ClassNone:
		return "none"
	default:
		return "standard"
	}
}

// ParseClass parses the config-file spelling of a protection class. The
// empty string means ClassStandard.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return ClassStandard, nil
	case "group":
		return ClassGroup, nil
	case "private":
		return ClassPrivate, nil
	case "none":
		return ClassNone, nil
	default:
		return ClassStandard, errors.Errorf("unknown protection class %q", s)
	}
}

// Apply sets the protection class and backup-exclusion flag on path. It is
// idempotent: re-applying the same policy is a no-op at the filesystem
// level. The path must exist.
func Apply(ctx context.Context, path string, class Class, excludeFromBackup bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stating %s: %w", path, err)
	}

	if class != ClassNone {
		mode := class.FileMode()
		if info.IsDir() {
			mode = class.DirMode()
		}
		if err := os.Chmod(path, mode); err != nil {
			return errors.Errorf("setting protection class on %s: %w", path, err)
		}
	}

	if err := setBackupExclusion(path, excludeFromBackup); err != nil {
		return errors.Errorf("setting backup exclusion on %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("class", class.String()).
		Bool("exclude_from_backup", excludeFromBackup).
		Msg("applied attributes")
	return nil
}

// ExcludedFromBackup reports whether path carries the backup-exclusion flag.
func ExcludedFromBackup(path string) (bool, error) {
	return backupExclusion(path)
}
