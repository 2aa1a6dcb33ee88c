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

	"github.com/walteh/stash/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 NewResetAttrsOperation creates a new attribute-reset operation
func NewResetAttrsOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &resetAttrsOperation{BaseOperation: base}, nil
}

// 🔧 resetAttrsOperation re-applies protection and backup attributes.
type resetAttrsOperation struct {
	BaseOperation
}

func (op *resetAttrsOperation) Name() string { return "reset-attrs" }

// 🏃 Execute runs the attribute reset
func (op *resetAttrsOperation) Execute(ctx context.Context) error {
	defs, err := op.selected()
	if err != nil {
		return err
	}

	for _, def := range defs {
		g, err := op.build(def)
		if err != nil {
			return err
		}

		files, err := g.Files(ctx)
		if err != nil {
			return errors.Errorf("listing group %s: %w", def.Name, err)
		}
		op.Reporter.StartOperation(ctx, len(files))

		if err := g.ResetAttributesOnAllFiles(ctx); err != nil {
			op.Reporter.FinishOperation(ctx)
			return errors.Errorf("resetting group %s: %w", def.Name, err)
		}
		for _, f := range files {
			op.Reporter.Record(ctx, status.Entry{
				Group: def.Name, Name: f.Name(), Outcome: status.OutcomeReset,
			})
		}
		op.Reporter.FinishOperation(ctx)
	}
	return nil
}
