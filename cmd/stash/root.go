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

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/stash/cmd/stash/opts"
	"github.com/walteh/stash/pkg/config"
	"github.com/walteh/stash/pkg/operation"
	"github.com/walteh/stash/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
	async      bool
)

// newRootCmd creates the root command. The shared RootOpts are filled in
// once the persistent flags have been parsed, before any subcommand runs.
func newRootCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stash",
		Short: "A tool for managing an application's sandboxed files",
		Long: `stash manages an application's files through named groups: each group
binds a storage role (cache, internal data, exposed user data, app group,
temporary) to a naming scheme and a protection class. Groups can be
listed, cleaned, migrated from legacy layouts, and have their file
attributes re-applied.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			ro.Config = cfg
			ro.Reporter = status.NewReporter(status.NewConsoleFormatter())
			ro.UserLogger = status.NewUserLogger(ctx)
			ro.Runner = operation.NewRunner(zerolog.Ctx(ctx), async)
			return nil
		},
	}

	addRootFlags(cmd)
	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".stash.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&async, "async", false, "run operations concurrently")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
