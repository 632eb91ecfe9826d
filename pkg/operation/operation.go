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
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/log"
	"github.com/walteh/renamerc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Executor performs, or reports, the file operation for one match
type Executor interface {
	Execute(ctx context.Context, match rule.MatchResult) error
}

// ❌ FileOperationError reports a rename or copy that failed
type FileOperationError struct {
	Op          string
	Source      string
	Destination string
	Err         error
}

func (e *FileOperationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Destination, e.Err)
	}
	return fmt.Sprintf("%s %s → %s: %v", e.Op, e.Source, e.Destination, e.Err)
}

func (e *FileOperationError) Unwrap() error {
	return e.Err
}

// 🔧 ExecutorOptions contains configuration for the file executor
type ExecutorOptions struct {
	// Fs is where files are renamed or copied
	Fs afero.Fs
	// Mode selects rename or copy
	Mode config.Mode
	// DryRun reports operations without touching Fs
	DryRun bool
	// Journal, when set, records every operation that succeeded
	Journal *Journal
}

// 🏭 NewExecutor creates a new file executor with the given options
func NewExecutor(opts ExecutorOptions) (*FileExecutor, error) {
	if opts.Fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	switch opts.Mode {
	case config.ModeRename, config.ModeCopy:
	default:
		return nil, errors.Errorf("unknown mode %q", opts.Mode)
	}
	return &FileExecutor{
		fs:      opts.Fs,
		mode:    opts.Mode,
		dryRun:  opts.DryRun,
		journal: opts.Journal,
	}, nil
}

// 🎮 FileExecutor implements the Executor interface on an afero filesystem
type FileExecutor struct {
	fs      afero.Fs
	mode    config.Mode
	dryRun  bool
	journal *Journal
}

// 🏃 Execute renames or copies match.SourcePath to match.DestinationPath. In dry
// run mode the filesystem is never touched.
func (e *FileExecutor) Execute(ctx context.Context, match rule.MatchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !e.dryRun {
		var err error
		switch e.mode {
		case config.ModeCopy:
			err = copyFile(ctx, e.fs, match.SourcePath, match.DestinationPath)
		default:
			err = e.fs.Rename(match.SourcePath, match.DestinationPath)
		}
		if err != nil {
			return &FileOperationError{
				Op:          string(e.mode),
				Source:      match.SourcePath,
				Destination: match.DestinationPath,
				Err:         err,
			}
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("rule", match.Rule.String()).
		Int("line", match.Rule.Line).
		Msg("file operation complete")

	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Source:      match.SourcePath,
		Destination: match.DestinationPath,
		Mode:        string(e.mode),
		DryRun:      e.dryRun,
	})

	if e.journal != nil {
		e.journal.Record(JournalEntry{
			Line:        match.Rule.Line,
			Mode:        e.mode,
			DryRun:      e.dryRun,
			Source:      match.SourcePath,
			Destination: match.DestinationPath,
		})
	}

	return nil
}
