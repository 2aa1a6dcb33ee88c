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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/stash/pkg/naming"
	"github.com/walteh/stash/pkg/role"
)

// newGroupPair builds old/new groups sharing one locator root, so renames
// stay on one filesystem.
func newGroupPair(t *testing.T, oldScheme, newScheme naming.Scheme) (*Group, *Group) {
	t.Helper()
	loc := testLocator{root: t.TempDir()}

	oldGroup, err := New(role.Cache(false), oldScheme,
		WithLocator(loc), WithAppID("com.walteh.stashtest"))
	require.NoError(t, err)

	newGroup, err := New(role.Cache(false), newScheme,
		WithLocator(loc), WithAppID("com.walteh.stashtest"))
	require.NoError(t, err)

	return oldGroup, newGroup
}

func TestMigrateMissingLegacyDirectory(t *testing.T) {
	oldGroup, newGroup := newGroupPair(t,
		naming.Scheme{Subfolder: "v1"},
		naming.Scheme{Subfolder: "v2"})

	require.NoError(t, newGroup.Migrate(context.Background(), oldGroup))
	_, err := os.Stat(newGroup.Dir())
	assert.True(t, os.IsNotExist(err), "nothing to migrate, nothing created")
}

func TestMigrateFastPath(t *testing.T) {
	ctx := context.Background()
	oldGroup, newGroup := newGroupPair(t,
		naming.Scheme{Subfolder: "v1"},
		naming.Scheme{Subfolder: "v2"})

	writeMember(t, oldGroup, "a", "1")
	writeMember(t, oldGroup, "b", "2")

	require.NoError(t, newGroup.Migrate(ctx, oldGroup))

	_, err := os.Stat(oldGroup.Dir())
	assert.True(t, os.IsNotExist(err), "legacy directory is renamed away")

	files, err := newGroup.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, memberNames(t, files))
}

func TestMigrateSlowPathMixedSchemes(t *testing.T) {
	ctx := context.Background()
	oldGroup, newGroup := newGroupPair(t,
		naming.Scheme{Subfolder: "v1", Suffix: ".dat"},
		naming.Scheme{Subfolder: "v2", Prefix: "n-", Suffix: ".dat"})

	writeMember(t, oldGroup, "a.dat", "1")
	writeMember(t, oldGroup, "b.dat", "2")
	writeMember(t, oldGroup, "ignore.txt", "x")

	require.NoError(t, newGroup.Migrate(ctx, oldGroup))

	files, err := newGroup.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"n-a.dat", "n-b.dat"}, memberNames(t, files),
		"members are renamed through their bare names")

	_, err = os.Stat(oldGroup.Dir())
	assert.NoError(t, err, "non-spanning legacy scheme leaves the directory in place")
	_, err = os.Stat(filepath.Join(oldGroup.Dir(), "ignore.txt"))
	assert.NoError(t, err, "non-members are untouched")
}

func TestMigrateSlowPathExistingTargetWins(t *testing.T) {
	ctx := context.Background()
	oldGroup, newGroup := newGroupPair(t,
		naming.Scheme{Subfolder: "v1"},
		naming.Scheme{Subfolder: "v2"})

	writeMember(t, oldGroup, "settings", "stale")
	writeMember(t, newGroup, "settings", "new")

	// The new directory exists, so the fast path is off.
	require.NoError(t, newGroup.Migrate(ctx, oldGroup))

	data, err := newGroup.File("settings").LoadData()
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data, "existing new-format data wins")

	_, err = os.Stat(filepath.Join(oldGroup.Dir(), "settings"))
	assert.True(t, os.IsNotExist(err), "stale legacy file is deleted")
}

func TestMigrateSlowPathRemovesEmptiedSpanningDir(t *testing.T) {
	ctx := context.Background()
	oldGroup, newGroup := newGroupPair(t,
		naming.Scheme{Subfolder: "v1"},
		naming.Scheme{Subfolder: "v2"})

	writeMember(t, oldGroup, "a", "1")
	require.NoError(t, newGroup.CreateDirectory(ctx), "pre-existing target forces the slow path")

	require.NoError(t, newGroup.Migrate(ctx, oldGroup))

	_, err := os.Stat(oldGroup.Dir())
	assert.True(t, os.IsNotExist(err), "spanning legacy dir is removed after a clean pass")
	assert.True(t, newGroup.File("a").Exists())
}

func TestMigrateSlowPathFirstErrorWins(t *testing.T) {
	ctx := context.Background()
	oldGroup, newGroup := newGroupPair(t,
		naming.Scheme{Subfolder: "v1"},
		naming.Scheme{Subfolder: "v2"})

	writeMember(t, oldGroup, "a", "1")
	writeMember(t, oldGroup, "b", "2")
	writeMember(t, oldGroup, "c", "3")

	// Occupy b's destination with a non-empty directory so its migration
	// fails while a and c succeed.
	blocker := filepath.Join(newGroup.Dir(), "b")
	require.NoError(t, os.MkdirAll(blocker, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "occupied"), []byte("x"), 0o644))

	err := newGroup.Migrate(ctx, oldGroup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b", "the failing member is named in the error")

	assert.True(t, newGroup.File("a").Exists(), "files before the failure migrate")
	assert.True(t, newGroup.File("c").Exists(), "files after the failure still migrate")

	_, statErr := os.Stat(filepath.Join(oldGroup.Dir(), "b"))
	assert.NoError(t, statErr, "the failed member stays in the legacy directory")
	_, statErr = os.Stat(oldGroup.Dir())
	assert.NoError(t, statErr, "legacy directory survives a failed pass")
}
