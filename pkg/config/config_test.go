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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_config",
			config: `
app_id: com.example.notes
shared_container_root: /srv/shared
groups:
  - name: thumbnails
    role: cache
    subfolder: thumbnails
    suffix: .png
    protection: private
  - name: documents
    role: exposed-user-data
    prefix: "notes-"
    preserve_for_backup: true
migrations:
  - to: thumbnails
    from:
      role: cache
      subfolder: thumbs
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "com.example.notes", cfg.AppID)
				assert.Equal(t, "/srv/shared", cfg.SharedContainerRoot)
				require.Len(t, cfg.Groups, 2)
				assert.Equal(t, "thumbnails", cfg.Groups[0].Name)
				assert.Equal(t, "cache", cfg.Groups[0].Role)
				assert.Equal(t, ".png", cfg.Groups[0].Suffix)
				assert.Equal(t, "private", cfg.Groups[0].Protection)
				assert.True(t, cfg.Groups[1].PreserveForBackup)
				require.Len(t, cfg.Migrations, 1)
				assert.Equal(t, "thumbnails", cfg.Migrations[0].To)
				assert.Equal(t, "thumbs", cfg.Migrations[0].From.Subfolder)
			},
		},
		{
			name: "unknown_role",
			config: `
app_id: com.example.notes
groups:
  - name: bad
    role: documents
`,
			wantErr:     true,
			errContains: "role kind",
		},
		{
			name: "duplicate_group_name",
			config: `
app_id: com.example.notes
groups:
  - name: a
    role: temporary
  - name: a
    role: temporary
`,
			wantErr:     true,
			errContains: "duplicate",
		},
		{
			name: "cache_without_app_id",
			config: `
groups:
  - name: a
    role: cache
`,
			wantErr:     true,
			errContains: "app_id",
		},
		{
			name: "app_group_without_id",
			config: `
app_id: com.example.notes
groups:
  - name: a
    role: app-group
`,
			wantErr:     true,
			errContains: "app_group_id",
		},
		{
			name: "migration_to_unknown_group",
			config: `
app_id: com.example.notes
groups:
  - name: a
    role: temporary
migrations:
  - to: b
    from:
      role: temporary
`,
			wantErr:     true,
			errContains: "unknown target group",
		},
		{
			name: "unknown_field_rejected",
			config: `
app_id: com.example.notes
grops: []
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "cfg.yaml", tt.config)
			cfg, err := Load(context.Background(), path)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadHCL(t *testing.T) {
	path := writeConfig(t, "cfg.hcl", `
app_id = "com.example.notes"

group "thumbnails" {
  role       = "cache"
  subfolder  = "thumbnails"
  suffix     = ".png"
  protection = "private"
}

group "shared-state" {
  role                = "app-group"
  app_group_id        = "team.notes"
  preserve_for_backup = true
}

migration {
  to = "thumbnails"

  from "legacy-thumbs" {
    role      = "cache"
    subfolder = "thumbs"
  }
}
`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, cfg.Groups, 2)
	assert.Equal(t, "thumbnails", cfg.Groups[0].Name)
	assert.Equal(t, "private", cfg.Groups[0].Protection)
	assert.Equal(t, "team.notes", cfg.Groups[1].AppGroupID)
	require.Len(t, cfg.Migrations, 1)
	assert.Equal(t, "thumbs", cfg.Migrations[0].From.Subfolder)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{
  "app_id": "com.example.notes",
  "groups": [
    {"name": "state", "role": "internal-data", "subfolder": "state"}
  ]
}`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "internal-data", cfg.Groups[0].Role)
}

func TestLoadStashExtensionTriesBothFormats(t *testing.T) {
	yamlPath := writeConfig(t, "a.stash", `
app_id: com.example.notes
groups:
  - name: a
    role: temporary
`)
	cfg, err := Load(context.Background(), yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "com.example.notes", cfg.AppID)

	hclPath := writeConfig(t, "b.stash", `
app_id = "com.example.notes"

group "a" {
  role = "temporary"
}
`)
	cfg, err = Load(context.Background(), hclPath)
	require.NoError(t, err)
	require.Len(t, cfg.Groups, 1)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "cfg.toml", `app_id = "x"`)
	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

func TestBuildNamed(t *testing.T) {
	path := writeConfig(t, "cfg.yaml", `
app_id: com.example.notes
groups:
  - name: thumbs
    role: cache
    subfolder: thumbnails
    suffix: .png
`)
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	g, err := cfg.BuildNamed("thumbs")
	require.NoError(t, err)
	assert.Contains(t, g.Dir(), "com.example.notes")
	assert.Contains(t, g.Dir(), "thumbnails")
	assert.Equal(t, ".png", g.Scheme().Suffix)

	_, err = cfg.BuildNamed("missing")
	require.Error(t, err)
}
