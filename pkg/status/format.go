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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // Base width for filename
	groupWidth = 15 // Width for the owning group
)

// Formatter defines how entries and progress should be formatted
type Formatter interface {
	// FormatEntry formats one file outcome
	FormatEntry(e Entry) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
}

// DefaultFormatter provides a plain-text implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatEntry formats a file outcome with emojis
func (f *DefaultFormatter) FormatEntry(e Entry) string {
	switch e.Outcome {
	case OutcomeMigrated:
		return fmt.Sprintf("✨ Migrated %s", e.Name)
	case OutcomeRemoved:
		return fmt.Sprintf("🗑️  Removed %s", e.Name)
	case OutcomeReset:
		return fmt.Sprintf("🔧 Reset %s", e.Name)
	case OutcomeFailed:
		return fmt.Sprintf("❌ Failed %s: %v", e.Name, e.Error)
	default:
		return fmt.Sprintf("👍 Unchanged %s", e.Name)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// 🎯 ConsoleFormatter renders aligned, colorized rows for terminal output.
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatEntry formats a file outcome as an aligned row
func (f *ConsoleFormatter) FormatEntry(e Entry) string {
	var prefix string
	switch e.Outcome {
	case OutcomeMigrated:
		prefix = color.GreenString("✓")
	case OutcomeReset:
		prefix = color.YellowString("⟳")
	case OutcomeRemoved:
		prefix = color.RedString("✗")
	case OutcomeFailed:
		prefix = color.RedString("!")
	default:
		prefix = color.HiBlackString("-")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, e.Name)
	groupPart := fmt.Sprintf("%-*s", groupWidth, e.Group)

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		groupPart,
		e.Outcome,
	)
}

// FormatProgress formats a progress message
func (f *ConsoleFormatter) FormatProgress(current, total int) string {
	return (&DefaultFormatter{}).FormatProgress(current, total)
}
