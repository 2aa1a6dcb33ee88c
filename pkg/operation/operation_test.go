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

package operation

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/stash/pkg/config"
	"github.com/walteh/stash/pkg/group"
	"github.com/walteh/stash/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// testLocator roots all well-known directories under one temp dir.
type testLocator struct {
	root string
}

func (l testLocator) CacheDir() (string, error)      { return filepath.Join(l.root, "caches"), nil }
func (l testLocator) AppSupportDir() (string, error) { return filepath.Join(l.root, "support"), nil }
func (l testLocator) DocumentsDir() (string, error)  { return filepath.Join(l.root, "docs"), nil }
func (l testLocator) TempDir() string                { return filepath.Join(l.root, "tmp") }

func (l testLocator) AppGroupDir(id string) (string, error) {
	return filepath.Join(l.root, "shared", id), nil
}

// testEnv wires a config, locator, and reporter for operation tests.
type testEnv struct {
	cfg      *config.Config
	loc      testLocator
	reporter *status.Reporter
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	return &testEnv{
		cfg:      cfg,
		loc:      testLocator{root: t.TempDir()},
		reporter: status.NewReporter(nil),
	}
}

func (e *testEnv) options() Options {
	return Options{
		Config:    e.cfg,
		Reporter:  e.reporter,
		GroupOpts: []group.Option{group.WithLocator(e.loc)},
	}
}

// seed writes a member file into the named group's directory.
func (e *testEnv) seed(t *testing.T, groupName, fileName, content string) *group.Group {
	t.Helper()
	g, err := e.cfg.BuildNamed(groupName, group.WithLocator(e.loc))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(g.Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(g.Dir(), fileName), []byte(content), 0o644))
	return g
}

func twoGroupConfig() *config.Config {
	return &config.Config{
		AppID: "com.walteh.stashtest",
		Groups: []config.GroupDefinition{
			{Name: "thumbs", Role: "cache", Subfolder: "thumbnails"},
			{Name: "state", Role: "internal-data", Subfolder: "state", Suffix: ".json"},
		},
	}
}

func TestListOperation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, twoGroupConfig())

	env.seed(t, "thumbs", "a.png", "x")
	env.seed(t, "state", "db.json", "{}")
	env.seed(t, "state", "notes.txt", "skip me")

	op, err := NewListOperation(env.options())
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	entries := env.reporter.Entries()
	require.Len(t, entries, 2, "only scheme members are listed")
	names := []string{entries[0].Name, entries[1].Name}
	assert.Contains(t, names, "a.png")
	assert.Contains(t, names, "db.json")
	assert.Equal(t, int64(2), entriesByName(entries, "db.json").Size)
}

func entriesByName(entries []status.Entry, name string) status.Entry {
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	return status.Entry{}
}

func TestListOperationSelectsGroups(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, twoGroupConfig())
	env.seed(t, "thumbs", "a.png", "x")
	env.seed(t, "state", "db.json", "{}")

	opts := env.options()
	opts.Groups = []string{"state"}
	op, err := NewListOperation(opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	entries := env.reporter.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "state", entries[0].Group)

	opts.Groups = []string{"nope"}
	op, err = NewListOperation(opts)
	require.NoError(t, err)
	require.Error(t, op.Execute(ctx), "unknown group selection is an error")
}

func TestCleanOperation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, twoGroupConfig())

	thumbs := env.seed(t, "thumbs", "a.png", "x")
	state := env.seed(t, "state", "db.json", "{}")
	env.seed(t, "state", "keep.txt", "not a member")

	op, err := NewCleanOperation(env.options())
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	_, statErr := os.Stat(thumbs.Dir())
	assert.True(t, os.IsNotExist(statErr), "spanning group directory is removed")

	_, statErr = os.Stat(filepath.Join(state.Dir(), "db.json"))
	assert.True(t, os.IsNotExist(statErr), "member of non-spanning group is removed")
	_, statErr = os.Stat(filepath.Join(state.Dir(), "keep.txt"))
	assert.NoError(t, statErr, "non-member sibling survives")

	counts := env.reporter.Summary()
	assert.Equal(t, 2, counts[status.OutcomeRemoved], "summary spans all cleaned groups")
}

func TestCleanOperationWithPatterns(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, twoGroupConfig())

	state := env.seed(t, "state", "users.json", "{}")
	env.seed(t, "state", "sessions.json", "{}")

	opts := env.options()
	opts.Groups = []string{"state"}
	opts.Patterns = []string{"users*"}
	op, err := NewCleanOperation(opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	_, statErr := os.Stat(filepath.Join(state.Dir(), "users.json"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(state.Dir(), "sessions.json"))
	assert.NoError(t, statErr, "non-matching member survives a filtered clean")
}

func TestResetAttrsOperation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, twoGroupConfig())

	state := env.seed(t, "state", "db.json", "{}")
	require.NoError(t, os.Chmod(filepath.Join(state.Dir(), "db.json"), 0o777))

	op, err := NewResetAttrsOperation(env.options())
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	info, err := os.Stat(filepath.Join(state.Dir(), "db.json"))
	require.NoError(t, err)
	assert.Equal(t, state.Protection().FileMode(), info.Mode().Perm())
}

func TestMigrateOperation(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		AppID: "com.walteh.stashtest",
		Groups: []config.GroupDefinition{
			{Name: "thumbs", Role: "cache", Subfolder: "thumbnails"},
		},
		Migrations: []config.MigrationDefinition{
			{To: "thumbs", From: config.GroupDefinition{Role: "cache", Subfolder: "thumbs-v1"}},
		},
	}
	env := newTestEnv(t, cfg)

	// Seed the legacy layout by hand.
	legacy, err := cfg.Build(cfg.Migrations[0].From, group.WithLocator(env.loc))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(legacy.Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacy.Dir(), "a.png"), []byte("x"), 0o644))

	op, err := NewMigrateOperation(env.options())
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	target, err := cfg.BuildNamed("thumbs", group.WithLocator(env.loc))
	require.NoError(t, err)
	assert.True(t, target.File("a.png").Exists())
	_, statErr := os.Stat(legacy.Dir())
	assert.True(t, os.IsNotExist(statErr), "legacy directory is gone after the fast path")

	counts := env.reporter.Summary()
	assert.Equal(t, 1, counts[status.OutcomeMigrated])
}

func TestMigrateOperationCountsOnlyMovedFiles(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		AppID: "com.walteh.stashtest",
		Groups: []config.GroupDefinition{
			{Name: "thumbs", Role: "cache", Subfolder: "thumbnails"},
		},
		Migrations: []config.MigrationDefinition{
			{To: "thumbs", From: config.GroupDefinition{Role: "cache", Subfolder: "thumbs-v1"}},
		},
	}
	env := newTestEnv(t, cfg)

	// The target already holds a.png; the legacy layout has a.png and b.png.
	env.seed(t, "thumbs", "a.png", "current")
	legacy, err := cfg.Build(cfg.Migrations[0].From, group.WithLocator(env.loc))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(legacy.Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacy.Dir(), "a.png"), []byte("stale"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(legacy.Dir(), "b.png"), []byte("y"), 0o644))

	op, err := NewMigrateOperation(env.options())
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	target, err := cfg.BuildNamed("thumbs", group.WithLocator(env.loc))
	require.NoError(t, err)
	data, err := target.File("a.png").LoadData()
	require.NoError(t, err)
	assert.Equal(t, "current", string(data), "existing target content wins")

	entries := env.reporter.Entries()
	require.Len(t, entries, 1, "only the moved file is reported")
	assert.Equal(t, "b.png", entries[0].Name)
	assert.Equal(t, status.OutcomeMigrated, entries[0].Outcome)
}

// fakeOperation counts executions for runner tests.
type fakeOperation struct {
	name string
	runs *atomic.Int32
	err  error
}

func (f *fakeOperation) Name() string { return f.name }

func (f *fakeOperation) Execute(ctx context.Context) error {
	f.runs.Add(1)
	return f.err
}

func TestRunner(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("sequential", func(t *testing.T) {
		var runs atomic.Int32
		r := NewRunner(&logger, false)
		err := r.Run(context.Background(),
			&fakeOperation{name: "a", runs: &runs},
			&fakeOperation{name: "b", runs: &runs},
		)
		require.NoError(t, err)
		assert.Equal(t, int32(2), runs.Load())
	})

	t.Run("sequential_stops_on_error", func(t *testing.T) {
		var runs atomic.Int32
		r := NewRunner(&logger, false)
		err := r.Run(context.Background(),
			&fakeOperation{name: "a", runs: &runs, err: errors.New("boom")},
			&fakeOperation{name: "b", runs: &runs},
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "executing a")
		assert.Equal(t, int32(1), runs.Load())
	})

	t.Run("concurrent", func(t *testing.T) {
		var runs atomic.Int32
		r := NewRunner(&logger, true)
		err := r.Run(context.Background(),
			&fakeOperation{name: "a", runs: &runs},
			&fakeOperation{name: "b", runs: &runs},
			&fakeOperation{name: "c", runs: &runs, err: errors.New("boom")},
		)
		require.Error(t, err)
		assert.Equal(t, int32(3), runs.Load())
	})
}
