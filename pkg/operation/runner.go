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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes operations, optionally concurrently. Concurrency is
// only safe when the operations touch disjoint groups; the CLI runs one
// operation per group in that mode.
type Runner struct {
	logger     *zerolog.Logger
	concurrent bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, concurrent bool) *Runner {
	return &Runner{
		logger:     logger,
		concurrent: concurrent,
	}
}

// 🏃 Run executes the operations in order, or concurrently when enabled.
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	if r.concurrent {
		return r.runConcurrent(ctx, ops)
	}
	return r.runSequential(ctx, ops)
}

func (r *Runner) runSequential(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		r.logger.Debug().Str("operation", op.Name()).Msg("running operation")
		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("executing %s: %w", op.Name(), err)
		}
	}
	return nil
}

func (r *Runner) runConcurrent(ctx context.Context, ops []Operation) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, op := range ops {
		op := op
		g.Go(func() error {
			r.logger.Debug().Str("operation", op.Name()).Msg("running operation")
			if err := op.Execute(ctx); err != nil {
				return errors.Errorf("executing %s: %w", op.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
