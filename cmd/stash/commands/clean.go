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

// NewCleanCmd creates a new clean command
func NewCleanCmd(ro *opts.RootOpts) *cobra.Command {
	var groups []string
	var patterns []string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the files of the configured groups",
		Long: `Clean removes group members. A group whose naming scheme owns its
whole subfolder is removed directory and all; otherwise only the member
files go and sibling files are preserved. With --pattern only matching
members are removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := operation.NewCleanOperation(operation.Options{
				Config:   ro.Config,
				Reporter: ro.Reporter,
				Groups:   groups,
				Patterns: patterns,
			})
			if err != nil {
				return errors.Errorf("creating clean operation: %w", err)
			}

			ro.UserLogger.LogOperation("Cleaning groups")
			if err := ro.Runner.Run(ctx, op); err != nil {
				return errors.Errorf("cleaning files: %w", err)
			}

			ro.UserLogger.LogSummary(ro.Reporter.Summary())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "limit to named groups")
	cmd.Flags().StringSliceVarP(&patterns, "pattern", "p", nil, "glob patterns on bare file names")

	return cmd
}
