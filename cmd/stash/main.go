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
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/stash/cmd/stash/commands"
	"github.com/walteh/stash/cmd/stash/opts"
)

func main() {
	// Set up logger
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	// Shared options, populated by the root command once flags are parsed
	ro := &opts.RootOpts{}

	rootCmd := newRootCmd(ro)
	rootCmd.AddCommand(
		commands.NewListCmd(ro),
		commands.NewCleanCmd(ro),
		commands.NewResetAttrsCmd(ro),
		commands.NewMigrateCmd(ro),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
