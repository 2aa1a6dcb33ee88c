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

// 📋 NewListOperation creates a new list operation
func NewListOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &listOperation{BaseOperation: base}, nil
}

// 📋 listOperation enumerates the members of the selected groups with
// their live sizes.
type listOperation struct {
	BaseOperation
}

func (op *listOperation) Name() string { return "list" }

// 🏃 Execute runs the list operation
func (op *listOperation) Execute(ctx context.Context) error {
	defs, err := op.selected()
	if err != nil {
		return err
	}

	for _, def := range defs {
		g, err := op.build(def)
		if err != nil {
			return err
		}

		files, err := g.FilesMatching(ctx, op.Patterns...)
		if err != nil {
			return errors.Errorf("listing group %s: %w", def.Name, err)
		}

		for _, f := range files {
			size, err := f.Size()
			if err != nil {
				// The file can vanish between enumeration and stat.
				op.Reporter.Record(ctx, status.Entry{
					Group: def.Name, Name: f.Name(), Outcome: status.OutcomeFailed, Error: err,
				})
				continue
			}
			op.Reporter.Record(ctx, status.Entry{
				Group: def.Name, Name: f.Name(), Outcome: status.OutcomeUnchanged, Size: size,
			})
		}
	}
	return nil
}
