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

// NewResetAttrsCmd creates a new reset-attrs command
func NewResetAttrsCmd(ro *opts.RootOpts) *cobra.Command {
	var groups []string

	cmd := &cobra.Command{
		Use:   "reset-attrs",
		Short: "Re-apply protection and backup attributes",
		Long: `Reset-attrs walks each group and re-applies the configured protection
class and backup-exclusion attribute to every member file and to the
group directory itself. Useful after restoring files from an archive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := operation.NewResetAttrsOperation(operation.Options{
				Config:   ro.Config,
				Reporter: ro.Reporter,
				Groups:   groups,
			})
			if err != nil {
				return errors.Errorf("creating reset-attrs operation: %w", err)
			}

			ro.UserLogger.LogOperation("Resetting file attributes")
			if err := ro.Runner.Run(ctx, op); err != nil {
				return errors.Errorf("resetting attributes: %w", err)
			}

			ro.UserLogger.LogSummary(ro.Reporter.Summary())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "limit to named groups")

	return cmd
}
