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

	"github.com/walteh/stash/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🧹 NewCleanOperation creates a new clean operation
func NewCleanOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &cleanOperation{BaseOperation: base}, nil
}

// 🧹 cleanOperation removes group members (or whole group directories).
type cleanOperation struct {
	BaseOperation
}

func (op *cleanOperation) Name() string { return "clean" }

// 🏃 Execute runs the clean operation
func (op *cleanOperation) Execute(ctx context.Context) error {
	defs, err := op.selected()
	if err != nil {
		return err
	}

	for _, def := range defs {
		if err := op.cleanGroup(ctx, def.Name); err != nil {
			return errors.Errorf("cleaning group %s: %w", def.Name, err)
		}
	}
	return nil
}

func (op *cleanOperation) cleanGroup(ctx context.Context, name string) error {
	def, _ := op.Config.GroupNamed(name)
	g, err := op.build(def)
	if err != nil {
		return err
	}

	// With patterns only the matching members go; otherwise the group's
	// own removal semantics apply (whole directory for spanning schemes).
	if len(op.Patterns) > 0 {
		files, err := g.FilesMatching(ctx, op.Patterns...)
		if err != nil {
			return err
		}
		op.Reporter.StartOperation(ctx, len(files))
		defer op.Reporter.FinishOperation(ctx)

		for _, f := range files {
			if err := os.Remove(f.Path()); err != nil {
				op.Reporter.Record(ctx, status.Entry{
					Group: name, Name: f.Name(), Outcome: status.OutcomeFailed, Error: err,
				})
				return errors.Errorf("removing %s: %w", f.Name(), err)
			}
			op.Reporter.Record(ctx, status.Entry{
				Group: name, Name: f.Name(), Outcome: status.OutcomeRemoved,
			})
		}
		return nil
	}

	files, err := g.Files(ctx)
	if err != nil {
		return err
	}
	op.Reporter.StartOperation(ctx, len(files))
	defer op.Reporter.FinishOperation(ctx)

	if err := g.RemoveAll(ctx); err != nil {
		return err
	}
	for _, f := range files {
		op.Reporter.Record(ctx, status.Entry{
			Group: name, Name: f.Name(), Outcome: status.OutcomeRemoved,
		})
	}
	return nil
}
