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

// Package status tracks the per-file outcomes of group operations and
// reports them in a user-friendly format.
package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// 📊 Outcome represents what happened to one file during an operation.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeMigrated         // File was moved into its new group
	OutcomeRemoved          // File was deleted
	OutcomeReset            // File attributes were re-applied
	OutcomeUnchanged        // File needed no work
	OutcomeFailed           // Operation on the file failed
)

// String returns a string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeMigrated:
		return "migrated"
	case OutcomeRemoved:
		return "removed"
	case OutcomeReset:
		return "reset"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Entry is one tracked file outcome.
type Entry struct {
	Group   string  // Group name the file belongs to
	Name    string  // Full file name
	Outcome Outcome // What happened
	Size    int64   // Size in bytes, when known
	Error   error   // The failure, for OutcomeFailed
}

// 🔧 Reporter collects entries across an operation and reports progress.
type Reporter struct {
	formatter Formatter

	mu      sync.Mutex
	entries []Entry
	total   int
	done    int
}

// 🏭 NewReporter creates a reporter backed by the given formatter.
func NewReporter(formatter Formatter) *Reporter {
	if formatter == nil {
		formatter = NewDefaultFormatter()
	}
	return &Reporter{formatter: formatter}
}

// StartOperation begins progress tracking over a known total. Only the
// progress counters reset; entries accumulate for the reporter's lifetime
// so a multi-group run summarizes every group, not just the last one.
func (r *Reporter) StartOperation(ctx context.Context, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
	r.done = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg("operation started")
}

// Record tracks one file outcome and logs it.
func (r *Reporter) Record(ctx context.Context, e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.done++
	done, total := r.done, r.total
	r.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	msg := r.formatter.FormatEntry(e)
	if e.Error != nil {
		logger.Error().Err(e.Error).Str("group", e.Group).Str("name", e.Name).Msg(msg)
	} else {
		logger.Info().Str("group", e.Group).Str("name", e.Name).Msg(msg)
	}
	logger.Debug().Msg(r.formatter.FormatProgress(done, total))
}

// Entries returns a copy of the tracked entries.
func (r *Reporter) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Summary returns counts per outcome.
func (r *Reporter) Summary() map[Outcome]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[Outcome]int{}
	for _, e := range r.entries {
		counts[e.Outcome]++
	}
	return counts
}

// FinishOperation logs the final progress line.
func (r *Reporter) FinishOperation(ctx context.Context) {
	r.mu.Lock()
	done, total := r.done, r.total
	r.mu.Unlock()
	zerolog.Ctx(ctx).Info().Msg(r.formatter.FormatProgress(done, total))
}
