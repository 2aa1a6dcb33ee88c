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

// NewListCmd creates a new list command
func NewListCmd(ro *opts.RootOpts) *cobra.Command {
	var groups []string
	var patterns []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the files of the configured groups",
		Long: `List enumerates the members of each configured group with their
current sizes. Non-member files sharing a directory are ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := operation.NewListOperation(operation.Options{
				Config:   ro.Config,
				Reporter: ro.Reporter,
				Groups:   groups,
				Patterns: patterns,
			})
			if err != nil {
				return errors.Errorf("creating list operation: %w", err)
			}

			ro.UserLogger.LogOperation("Listing groups")
			if err := ro.Runner.Run(ctx, op); err != nil {
				return errors.Errorf("listing files: %w", err)
			}

			for _, e := range ro.Reporter.Entries() {
				ro.UserLogger.LogEntry(e)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "limit to named groups")
	cmd.Flags().StringSliceVarP(&patterns, "pattern", "p", nil, "glob patterns on bare file names")

	return cmd
}
