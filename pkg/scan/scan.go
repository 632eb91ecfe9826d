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

// Package scan lists the candidate names of a source folder.
package scan

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// 📂 DirectoryReadError reports a folder that could not be listed
type DirectoryReadError struct {
	Folder string
	Err    error
}

func (e *DirectoryReadError) Error() string {
	return fmt.Sprintf("reading directory %s: %v", e.Folder, e.Err)
}

func (e *DirectoryReadError) Unwrap() error {
	return e.Err
}

// 🔭 Scanner lists folders on a filesystem
type Scanner struct {
	fs     afero.Fs
	ignore []string
}

// 🏭 New creates a scanner. Names matching any of the ignore globs are dropped
// from every listing.
func New(fs afero.Fs, ignore []string) *Scanner {
	return &Scanner{fs: fs, ignore: ignore}
}

// 📋 List returns the names of the immediate entries of folder, in the order the
// filesystem reports them. Subfolders are listed but never descended into.
func (s *Scanner) List(ctx context.Context, folder string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := s.fs.Open(folder)
	if err != nil {
		return nil, &DirectoryReadError{Folder: folder, Err: err}
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, &DirectoryReadError{Folder: folder, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("folder", folder).Int("entries", len(names)).Msg("listed folder")

	return Filter(ctx, names, s.ignore), nil
}

// 🚫 Filter drops the names matching any of the globs
func Filter(ctx context.Context, names []string, globs []string) []string {
	if len(globs) == 0 {
		return names
	}

	kept := make([]string, 0, len(names))
	for _, name := range names {
		if ignored(ctx, name, globs) {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}

func ignored(ctx context.Context, name string, globs []string) bool {
	for _, pattern := range globs {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("name", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("name", name).Str("pattern", pattern).Msg("name ignored by pattern")
			return true
		}
	}
	return false
}
