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

// Package config describes an application's managed storage in a .stash
// config file: the application identifier, the file groups it owns, and
// the migrations between legacy and current group layouts.
package config

import (
	"github.com/walteh/stash/pkg/attrs"
	"github.com/walteh/stash/pkg/group"
	"github.com/walteh/stash/pkg/naming"
	"github.com/walteh/stash/pkg/role"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is the complete stash configuration.
type Config struct {
	// AppID namespaces cache and internal-data roots (reverse-DNS style).
	AppID string `json:"app_id" yaml:"app_id" hcl:"app_id"`

	// SharedContainerRoot overrides where app-group containers live.
	SharedContainerRoot string `json:"shared_container_root,omitempty" yaml:"shared_container_root,omitempty" hcl:"shared_container_root,optional"`

	// Groups are the file groups this application owns.
	Groups []GroupDefinition `json:"groups" yaml:"groups" hcl:"group,block"`

	// Migrations move legacy group layouts into current ones.
	Migrations []MigrationDefinition `json:"migrations,omitempty" yaml:"migrations,omitempty" hcl:"migration,block"`

	location string // config file path, set by Load
}

// 📦 GroupDefinition declares one file group.
type GroupDefinition struct {
	Name string `json:"name" yaml:"name" hcl:"name,label"`

	// Role is the policy bucket: cache, internal-data, exposed-user-data,
	// app-group, or temporary.
	Role string `json:"role" yaml:"role" hcl:"role"`

	// AppGroupID names the shared container for app-group roles.
	AppGroupID string `json:"app_group_id,omitempty" yaml:"app_group_id,omitempty" hcl:"app_group_id,optional"`

	// PreserveForBackup keeps the group's files in system backups.
	PreserveForBackup bool `json:"preserve_for_backup,omitempty" yaml:"preserve_for_backup,omitempty" hcl:"preserve_for_backup,optional"`

	// Protection is the class applied to the group's paths: standard,
	// group, private, or none.
	Protection string `json:"protection,omitempty" yaml:"protection,omitempty" hcl:"protection,optional"`

	// Naming scheme of the group's members.
	Subfolder string `json:"subfolder,omitempty" yaml:"subfolder,omitempty" hcl:"subfolder,optional"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty" hcl:"prefix,optional"`
	Suffix    string `json:"suffix,omitempty" yaml:"suffix,omitempty" hcl:"suffix,optional"`
}

// 🔀 MigrationDefinition declares a legacy-to-current migration. From is a
// full group definition for the legacy layout; To names a configured group.
type MigrationDefinition struct {
	To   string          `json:"to" yaml:"to" hcl:"to"`
	From GroupDefinition `json:"from" yaml:"from" hcl:"from,block"`
}

// Location returns the path the config was loaded from.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks the configuration and applies defaults.
func (cfg *Config) Validate() error {
	seen := map[string]bool{}
	for i := range cfg.Groups {
		def := &cfg.Groups[i]
		if def.Name == "" {
			return errors.Errorf("group %d: name is required", i)
		}
		if seen[def.Name] {
			return errors.Errorf("group %q: duplicate name", def.Name)
		}
		seen[def.Name] = true
		if err := def.validate(cfg); err != nil {
			return errors.Errorf("group %q: %w", def.Name, err)
		}
	}

	for i, mig := range cfg.Migrations {
		if mig.To == "" {
			return errors.Errorf("migration %d: to is required", i)
		}
		if !seen[mig.To] {
			return errors.Errorf("migration %d: unknown target group %q", i, mig.To)
		}
		from := mig.From
		if err := (&from).validate(cfg); err != nil {
			return errors.Errorf("migration %d: from: %w", i, err)
		}
	}

	return nil
}

func (def *GroupDefinition) validate(cfg *Config) error {
	kind, err := role.ParseKind(def.Role)
	if err != nil {
		return err
	}
	if kind == role.KindAppGroup && def.AppGroupID == "" {
		return errors.Errorf("app-group role requires app_group_id")
	}
	if (kind == role.KindCache || kind == role.KindInternalData) && cfg.AppID == "" {
		return errors.Errorf("role %s requires a top-level app_id", kind)
	}
	if _, err := attrs.ParseClass(def.Protection); err != nil {
		return err
	}
	return nil
}

// GroupNamed returns the definition with the given name.
func (cfg *Config) GroupNamed(name string) (GroupDefinition, bool) {
	for _, def := range cfg.Groups {
		if def.Name == name {
			return def, true
		}
	}
	return GroupDefinition{}, false
}

// scheme returns the definition's naming scheme.
func (def GroupDefinition) scheme() naming.Scheme {
	return naming.Scheme{Subfolder: def.Subfolder, Prefix: def.Prefix, Suffix: def.Suffix}
}

// buildRole returns the definition's role value.
func (def GroupDefinition) buildRole() (role.Role, error) {
	kind, err := role.ParseKind(def.Role)
	if err != nil {
		return role.Role{}, err
	}
	switch kind {
	case role.KindCache:
		return role.Cache(def.PreserveForBackup), nil
	case role.KindInternalData:
		return role.InternalData(def.PreserveForBackup), nil
	case role.KindExposedUserData:
		return role.ExposedUserData(def.PreserveForBackup), nil
	case role.KindAppGroup:
		return role.AppGroup(def.AppGroupID, def.PreserveForBackup), nil
	case role.KindTemporary:
		return role.Temporary(), nil
	default:
		return role.Role{}, errors.Errorf("unsupported role kind %s: %w", kind, role.ErrConfig)
	}
}

// 🏭 Build resolves a group definition into a live file group. Extra
// options (a test locator, for one) append after the config-derived ones.
func (cfg *Config) Build(def GroupDefinition, extra ...group.Option) (*group.Group, error) {
	r, err := def.buildRole()
	if err != nil {
		return nil, errors.Errorf("group %q: %w", def.Name, err)
	}
	class, err := attrs.ParseClass(def.Protection)
	if err != nil {
		return nil, errors.Errorf("group %q: %w", def.Name, err)
	}

	opts := []group.Option{
		group.WithAppID(cfg.AppID),
		group.WithProtection(class),
	}
	if cfg.SharedContainerRoot != "" {
		opts = append(opts, group.WithLocator(role.NewPlatformLocator(cfg.SharedContainerRoot)))
	}
	opts = append(opts, extra...)

	g, err := group.New(r, def.scheme(), opts...)
	if err != nil {
		return nil, errors.Errorf("group %q: %w", def.Name, err)
	}
	return g, nil
}

// BuildNamed resolves the named group definition.
func (cfg *Config) BuildNamed(name string, extra ...group.Option) (*group.Group, error) {
	def, ok := cfg.GroupNamed(name)
	if !ok {
		return nil, errors.Errorf("unknown group %q", name)
	}
	return cfg.Build(def, extra...)
}
