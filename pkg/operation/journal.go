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
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/walteh/renamerc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📒 JournalEntry is one operation that went through
type JournalEntry struct {
	Line        int
	Mode        config.Mode
	DryRun      bool
	Source      string
	Destination string
}

// 📒 Journal collects the operations of a run so they can be reviewed or
// undone later. It is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	entries []JournalEntry
}

// NewJournal creates an empty journal
func NewJournal() *Journal {
	return &Journal{}
}

// Record adds an entry
func (j *Journal) Record(e JournalEntry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

// Entries returns the recorded entries ordered by mapping line, then source
func (j *Journal) Entries() []JournalEntry {
	j.mu.Lock()
	entries := make([]JournalEntry, len(j.entries))
	copy(entries, j.entries)
	j.mu.Unlock()

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].Line != entries[b].Line {
			return entries[a].Line < entries[b].Line
		}
		return entries[a].Source < entries[b].Source
	})
	return entries
}

// 💾 WriteCSV writes the journal as CSV with a header row
func (j *Journal) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"line", "mode", "status", "source", "destination"}); err != nil {
		return errors.Errorf("writing journal header: %w", err)
	}

	for _, e := range j.Entries() {
		status := "done"
		if e.DryRun {
			status = "planned"
		}
		row := []string{strconv.Itoa(e.Line), string(e.Mode), status, e.Source, e.Destination}
		if err := cw.Write(row); err != nil {
			return errors.Errorf("writing journal row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Errorf("flushing journal: %w", err)
	}
	return nil
}
