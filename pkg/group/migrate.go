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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Migrate moves the members of a legacy group into this group. A missing
// legacy directory is a no-op.
//
// When both schemes span their entire subfolder and this group's directory
// does not exist yet, the whole directory is renamed in one operation and
// attributes are reset on everything it now contains.
//
// Otherwise each legacy member is migrated individually by bare name. The
// pass is partial-failure tolerant: one bad file does not block the rest,
// and the first error encountered is returned after every file has been
// attempted. The emptied legacy directory is only removed after a fully
// successful pass, and only when the legacy scheme spans it.
func (g *Group) Migrate(ctx context.Context, old *Group) error {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(old.dir); err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("dir", old.dir).Msg("no legacy directory, nothing to migrate")
			return nil
		}
		return errors.Errorf("stating legacy directory %s: %w", old.dir, err)
	}

	if g.canMigrateWholeDirectory(old) {
		return g.migrateWholeDirectory(ctx, old)
	}
	return g.migrateFileByFile(ctx, old)
}

// canMigrateWholeDirectory reports whether the single-rename fast path is
// safe: both schemes must own their directories outright and the target
// must not exist yet.
func (g *Group) canMigrateWholeDirectory(old *Group) bool {
	if !old.scheme.SpansEntireSubfolder() || !g.scheme.SpansEntireSubfolder() {
		return false
	}
	_, err := os.Stat(g.dir)
	return os.IsNotExist(err)
}

func (g *Group) migrateWholeDirectory(ctx context.Context, old *Group) error {
	zerolog.Ctx(ctx).Info().
		Str("from", old.dir).
		Str("to", g.dir).
		Msg("migrating group directory")

	if err := os.MkdirAll(filepath.Dir(g.dir), g.protection.DirMode()); err != nil {
		return errors.Errorf("creating parent of %s: %w", g.dir, err)
	}
	if err := os.Rename(old.dir, g.dir); err != nil {
		return errors.Errorf("renaming %s to %s: %w", old.dir, g.dir, err)
	}
	return g.ResetAttributesOnAllFiles(ctx)
}

func (g *Group) migrateFileByFile(ctx context.Context, old *Group) error {
	logger := zerolog.Ctx(ctx)

	files, err := old.Files(ctx)
	if err != nil {
		return err
	}

	// First-error-wins: keep attempting every remaining file, report the
	// first failure after the pass completes.
	var firstErr error
	migrated := 0
	for _, legacy := range files {
		bare, ok := old.scheme.ParseFileName(legacy.Name())
		if !ok {
			// Files() only yields matching names.
			continue
		}
		if err := g.File(bare).Migrate(ctx, legacy.Path()); err != nil {
			logger.Error().Err(err).Str("name", legacy.Name()).Msg("migrating file")
			if firstErr == nil {
				firstErr = errors.Errorf("migrating %s: %w", legacy.Name(), err)
			}
			continue
		}
		migrated++
	}

	logger.Info().
		Str("from", old.dir).
		Str("to", g.dir).
		Int("migrated", migrated).
		Int("failed", len(files)-migrated).
		Msg("migrated group files")

	if firstErr != nil {
		return firstErr
	}

	if old.scheme.SpansEntireSubfolder() {
		if err := os.RemoveAll(old.dir); err != nil {
			return errors.Errorf("removing emptied legacy directory %s: %w", old.dir, err)
		}
	}
	return nil
}
