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

package status

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about group operations,
// printed via pterm and mirrored to the structured log.
type UserLogger struct {
	log zerolog.Logger
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogEntry prints one file outcome with appropriate prefix and color.
func (u *UserLogger) LogEntry(e Entry) {
	var printer *pterm.PrefixPrinter
	var action string
	switch e.Outcome {
	case OutcomeMigrated:
		action = "Migrated"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"})
	case OutcomeRemoved:
		action = "Removed"
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "🗑️"})
	case OutcomeReset:
		action = "Reset"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "🔧"})
	case OutcomeFailed:
		action = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	default:
		action = "Unchanged"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
	}

	msg := fmt.Sprintf("%s %s", action, e.Name)
	if e.Group != "" {
		msg += fmt.Sprintf(" (%s)", e.Group)
	}

	if e.Error != nil {
		printer.Println(msg)
		pterm.Error.Println(e.Error)
		u.log.Error().Err(e.Error).Msg(msg)
	} else {
		printer.Println(msg)
		u.log.Info().Msg(msg)
	}
}

// 📊 LogOperation logs a group-level operation message.
func (u *UserLogger) LogOperation(description string) {
	printer := pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"})
	printer.Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogSummary prints the per-outcome counts of a finished operation.
func (u *UserLogger) LogSummary(counts map[Outcome]int) {
	if counts[OutcomeFailed] > 0 {
		pterm.Warning.Printf("done: %d migrated, %d removed, %d reset, %d unchanged, %d failed\n",
			counts[OutcomeMigrated], counts[OutcomeRemoved], counts[OutcomeReset],
			counts[OutcomeUnchanged], counts[OutcomeFailed])
	} else {
		pterm.Success.Printf("done: %d migrated, %d removed, %d reset, %d unchanged\n",
			counts[OutcomeMigrated], counts[OutcomeRemoved], counts[OutcomeReset],
			counts[OutcomeUnchanged])
	}
	u.log.Info().
		Int("migrated", counts[OutcomeMigrated]).
		Int("removed", counts[OutcomeRemoved]).
		Int("reset", counts[OutcomeReset]).
		Int("unchanged", counts[OutcomeUnchanged]).
		Int("failed", counts[OutcomeFailed]).
		Msg("operation summary")
}
