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

// Package operation provides the operations the stash CLI runs over
// configured file groups: listing, cleaning, attribute reset, and
// migration.
package operation

import (
	"context"

	"github.com/walteh/stash/pkg/config"
	"github.com/walteh/stash/pkg/group"
	"github.com/walteh/stash/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work over the configured groups.
type Operation interface {
	// Name identifies the operation in logs.
	Name() string
	// Execute runs the operation.
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration shared by all operations.
type Options struct {
	// Config is the loaded stash configuration.
	Config *config.Config
	// Reporter tracks per-file outcomes.
	Reporter *status.Reporter
	// Groups selects group names to operate on; empty means all.
	Groups []string
	// Patterns are doublestar filters applied to bare names where the
	// operation supports them.
	Patterns []string
	// GroupOpts append to every built group (tests inject a locator here).
	GroupOpts []group.Option
}

// 🏗️ NewBaseOperation validates shared options.
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Config == nil {
		return BaseOperation{}, errors.Errorf("config is required")
	}
	if opts.Reporter == nil {
		opts.Reporter = status.NewReporter(nil)
	}
	return BaseOperation{Options: opts}, nil
}

// 📦 BaseOperation carries the shared pieces of every operation.
type BaseOperation struct {
	Options
}

// selected resolves the group definitions this operation targets, in
// config order.
func (op BaseOperation) selected() ([]config.GroupDefinition, error) {
	if len(op.Groups) == 0 {
		return op.Config.Groups, nil
	}

	var defs []config.GroupDefinition
	for _, name := range op.Groups {
		def, ok := op.Config.GroupNamed(name)
		if !ok {
			return nil, errors.Errorf("unknown group %q", name)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// build resolves a definition into a live group with the shared options.
func (op BaseOperation) build(def config.GroupDefinition) (*group.Group, error) {
	return op.Config.Build(def, op.GroupOpts...)
}
