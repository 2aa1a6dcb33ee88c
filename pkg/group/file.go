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

package group

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/stash/pkg/attrs"
	"gitlab.com/tozd/go/errors"
)

// File is a short-lived handle to one member of a group: an absolute path
// plus the owning group's policy. Handles are values, produced on demand by
// Group.File and friends, and carry no cached filesystem state; existence,
// size, and timestamps are live reads.
type File struct {
	path  string
	group *Group
}

// Path returns the file's absolute path.
func (f File) Path() string {
	return f.path
}

// Name returns the full on-disk file name.
func (f File) Name() string {
	return filepath.Base(f.path)
}

// BareName returns the caller-meaningful name, with the scheme's prefix and
// suffix stripped.
func (f File) BareName() string {
	bare, _ := f.group.scheme.ParseFileName(f.Name())
	return bare
}

// Group returns the owning group.
func (f File) Group() *Group {
	return f.group
}

// Exists reports whether the file currently exists. Stat errors other than
// not-exist read as absent; existence probes are best-effort.
func (f File) Exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && !info.IsDir()
}

// Size returns the file's current size in bytes.
func (f File) Size() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, errors.Errorf("stating %s: %w", f.Name(), err)
	}
	return info.Size(), nil
}

// ModifiedAt returns the file's current modification time.
func (f File) ModifiedAt() (time.Time, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return time.Time{}, errors.Errorf("stating %s: %w", f.Name(), err)
	}
	return info.ModTime(), nil
}

// ResetAttributes re-applies the group's protection class and backup flag
// to this file. This is the unit of truth for groups whose scheme does not
// span its subfolder.
func (f File) ResetAttributes(ctx context.Context) error {
	if err := attrs.Apply(ctx, f.path, f.group.protection, f.group.role.ShouldExcludeFromBackup()); err != nil {
		return errors.Errorf("resetting attributes: %w", err)
	}
	return nil
}

// ReplaceWith replaces this file with the file at srcPath. The parent
// directory is created first and any existing destination is removed
// best-effort. With keepSource the source is copied; otherwise it is moved.
// On failure no partial destination is left behind. Attributes are reset
// after the content lands.
func (f File) ReplaceWith(ctx context.Context, srcPath string, keepSource bool) error {
	logger := zerolog.Ctx(ctx)

	if err := f.group.CreateDirectory(ctx); err != nil {
		return err
	}

	// Best-effort removal of the old destination. A missing file is the
	// common case; anything else is logged and the copy/move decides.
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", f.path).Msg("removing existing destination")
	}

	if keepSource {
		if err := copyFileAtomic(srcPath, f.path, f.group.protection.FileMode()); err != nil {
			return errors.Errorf("copying %s into place: %w", srcPath, err)
		}
	} else {
		if err := os.Rename(srcPath, f.path); err != nil {
			// Rename cannot cross filesystems; fall back to copy+delete.
			if err := copyFileAtomic(srcPath, f.path, f.group.protection.FileMode()); err != nil {
				return errors.Errorf("moving %s into place: %w", srcPath, err)
			}
			if err := os.Remove(srcPath); err != nil {
				logger.Warn().Err(err).Str("path", srcPath).Msg("removing source after copy")
			}
		}
	}

	return f.ResetAttributes(ctx)
}

// copyFileAtomic copies src to dst through a temp file in dst's directory,
// so a failed copy never leaves a partial destination.
func copyFileAtomic(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("copying content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// LoadData reads the file's content.
func (f File) LoadData() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", f.Name(), err)
	}
	return data, nil
}

// SaveData writes content to the file, creating the parent directory first
// and resetting attributes afterwards. The write goes through a temp file
// and rename.
func (f File) SaveData(ctx context.Context, data []byte) error {
	if err := f.group.CreateDirectory(ctx); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.group.dir, "."+f.Name()+".tmp-")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, f.group.protection.FileMode()); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return f.ResetAttributes(ctx)
}

// Migrate moves a legacy file at oldPath into this member's place. A
// missing legacy file is a no-op. When this file already exists, the legacy
// file is deleted best-effort and its content is not migrated: new-format
// data always wins over stale legacy data.
func (f File) Migrate(ctx context.Context, oldPath string) error {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(oldPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("stating legacy file %s: %w", oldPath, err)
	}

	if f.Exists() {
		if err := os.Remove(oldPath); err != nil {
			logger.Warn().Err(err).Str("path", oldPath).Msg("removing superseded legacy file")
		} else {
			logger.Debug().Str("path", oldPath).Str("kept", f.path).Msg("dropped legacy file, new data wins")
		}
		return nil
	}

	return f.ReplaceWith(ctx, oldPath, false)
}
