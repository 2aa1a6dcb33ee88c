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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/stash/cmd/stash/opts"
	"github.com/walteh/stash/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewMigrateCmd creates a new migrate command
func NewMigrateCmd(ro *opts.RootOpts) *cobra.Command {
	var groups []string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move files from legacy layouts into the configured groups",
		Long: `Migrate runs the configured migrations. When both the legacy layout
and the target group own their whole subfolders the directory is renamed
in one step; otherwise files move one by one, existing files in the
target winning over their legacy counterparts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := operation.NewMigrateOperation(operation.Options{
				Config:   ro.Config,
				Reporter: ro.Reporter,
				Groups:   groups,
			})
			if err != nil {
				return errors.Errorf("creating migrate operation: %w", err)
			}

			ro.UserLogger.LogOperation("Migrating legacy files")
			if err := ro.Runner.Run(ctx, op); err != nil {
				return errors.Errorf("migrating files: %w", err)
			}

			ro.UserLogger.LogSummary(ro.Reporter.Summary())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "limit to migrations targeting named groups")

	return cmd
}
