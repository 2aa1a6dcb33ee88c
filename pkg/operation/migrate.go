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

	"github.com/walteh/stash/pkg/config"
	"github.com/walteh/stash/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔀 NewMigrateOperation creates a new migrate operation
func NewMigrateOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &migrateOperation{BaseOperation: base}, nil
}

// 🔀 migrateOperation runs the configured legacy-to-current migrations.
type migrateOperation struct {
	BaseOperation
}

func (op *migrateOperation) Name() string { return "migrate" }

// 🏃 Execute runs every configured migration whose target is selected.
// Migrations keep going past a failed one; the first error is reported
// after all of them have been attempted.
func (op *migrateOperation) Execute(ctx context.Context) error {
	selected := map[string]bool{}
	for _, name := range op.Groups {
		selected[name] = true
	}

	var firstErr error
	for _, mig := range op.Config.Migrations {
		if len(selected) > 0 && !selected[mig.To] {
			continue
		}
		if err := op.runMigration(ctx, mig); err != nil {
			op.Reporter.Record(ctx, status.Entry{
				Group: mig.To, Name: mig.To, Outcome: status.OutcomeFailed, Error: err,
			})
			if firstErr == nil {
				firstErr = errors.Errorf("migrating into %s: %w", mig.To, err)
			}
		}
	}
	return firstErr
}

func (op *migrateOperation) runMigration(ctx context.Context, mig config.MigrationDefinition) error {
	toDef, ok := op.Config.GroupNamed(mig.To)
	if !ok {
		return errors.Errorf("unknown target group %q", mig.To)
	}
	toGroup, err := op.build(toDef)
	if err != nil {
		return err
	}
	fromGroup, err := op.Config.Build(mig.From, op.GroupOpts...)
	if err != nil {
		return err
	}

	// Only files the migration moved count as migrated; members already in
	// the target keep their content and stay out of the report.
	before, err := toGroup.Files(ctx)
	if err != nil {
		return err
	}
	preexisting := map[string]bool{}
	for _, f := range before {
		preexisting[f.Name()] = true
	}

	if err := toGroup.Migrate(ctx, fromGroup); err != nil {
		return err
	}

	files, err := toGroup.Files(ctx)
	if err != nil {
		return err
	}
	for _, f := range files {
		if preexisting[f.Name()] {
			continue
		}
		size, _ := f.Size()
		op.Reporter.Record(ctx, status.Entry{
			Group: mig.To, Name: f.Name(), Outcome: status.OutcomeMigrated, Size: size,
		})
	}
	return nil
}
