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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/walteh/renamerc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🔀 Mode selects what happens to a matched file
type Mode string

const (
	ModeRename Mode = "rename"
	ModeCopy   Mode = "copy"
)

// DefaultParallelism bounds rules in flight, and file operations per rule
const DefaultParallelism = 10

// 📚 RunConfiguration is everything a run needs. Build it with Defaults, layer
// settings and flags on top, then Resolve and Validate before use.
type RunConfiguration struct {
	InputFile         string
	SourceFolder      string
	DestinationFolder string
	Mode              Mode
	DryRun            bool
	Verbose           bool
	Parallelism       int
	Columns           rule.Columns
	Delimiter         rune
	Literal           bool
	IgnoreFiles       []string
}

// 🎯 Defaults returns the configuration used when nothing else is given
func Defaults() RunConfiguration {
	return RunConfiguration{
		InputFile:         "mapping.csv",
		SourceFolder:      "images",
		DestinationFolder: "images-renamed",
		Mode:              ModeRename,
		Parallelism:       DefaultParallelism,
		Columns:           rule.DefaultColumns(),
		Delimiter:         ',',
	}
}

// ❌ ConfigurationError reports a setting that makes the run impossible
type ConfigurationError struct {
	Setting string
	Reason  string // shown to the user as is
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s (%v)", e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// 🏠 Resolve expands a leading ~ and makes every path absolute against workdir
func (c *RunConfiguration) Resolve(workdir string) error {
	paths := []struct {
		setting string
		value   *string
	}{
		{"mapping-file", &c.InputFile},
		{"images", &c.SourceFolder},
		{"output", &c.DestinationFolder},
	}
	for _, p := range paths {
		resolved, err := resolvePath(*p.value, workdir)
		if err != nil {
			return &ConfigurationError{Setting: p.setting, Reason: "Could not resolve path.", Err: err}
		}
		*p.value = resolved
	}
	return nil
}

func resolvePath(path, workdir string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("expanding %q: %w", path, err)
		}
		path = filepath.Join(home, path[1:])
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workdir, path)
	}
	return filepath.Clean(path), nil
}

// 🔍 Validate checks the configuration against the filesystem. Every failure is
// a *ConfigurationError.
func (c *RunConfiguration) Validate(fs afero.Fs) error {
	info, err := fs.Stat(c.InputFile)
	if err != nil {
		return &ConfigurationError{Setting: "mapping-file", Reason: "Specified input-file does not exist.", Err: err}
	}
	if info.IsDir() {
		return &ConfigurationError{Setting: "mapping-file", Reason: "Specified input-file is a directory.", Err: errors.Errorf("%s is a directory", c.InputFile)}
	}

	info, err = fs.Stat(c.SourceFolder)
	if err != nil {
		return &ConfigurationError{Setting: "images", Reason: "Specified image folder does not exist.", Err: err}
	}
	if !info.IsDir() {
		return &ConfigurationError{Setting: "images", Reason: "Specified image folder is not a directory.", Err: errors.Errorf("%s is not a directory", c.SourceFolder)}
	}

	switch c.Mode {
	case ModeRename, ModeCopy:
	default:
		return &ConfigurationError{Setting: "mode", Reason: "Unknown mode.", Err: errors.Errorf("mode %q is neither %q nor %q", c.Mode, ModeRename, ModeCopy)}
	}

	if c.Parallelism < 1 {
		return &ConfigurationError{Setting: "parallel", Reason: "Parallelism must be at least 1.", Err: errors.Errorf("got %d", c.Parallelism)}
	}

	if c.Columns.Pattern == "" || c.Columns.Replacement == "" {
		return &ConfigurationError{Setting: "columns", Reason: "Pattern and replacement column names are required."}
	}

	if !validDelimiter(c.Delimiter) {
		return &ConfigurationError{Setting: "delimiter", Reason: "Invalid delimiter.", Err: errors.Errorf("delimiter %q cannot separate fields", c.Delimiter)}
	}

	for _, pattern := range c.IgnoreFiles {
		if !doublestar.ValidatePattern(pattern) {
			return &ConfigurationError{Setting: "ignore_files", Reason: "Invalid ignore pattern.", Err: errors.Errorf("pattern %q", pattern)}
		}
	}

	return nil
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}

// 📋 SettingsRows lists the effective settings for the verbose dump
func (c *RunConfiguration) SettingsRows() [][]string {
	ignore := "-"
	if len(c.IgnoreFiles) > 0 {
		ignore = strings.Join(c.IgnoreFiles, ", ")
	}
	return [][]string{
		{"input file", c.InputFile},
		{"image folder", c.SourceFolder},
		{"output folder", c.DestinationFolder},
		{"mode", string(c.Mode)},
		{"dry run", strconv.FormatBool(c.DryRun)},
		{"verbose", strconv.FormatBool(c.Verbose)},
		{"parallel", strconv.Itoa(c.Parallelism)},
		{"literal", strconv.FormatBool(c.Literal)},
		{"delimiter", strconv.QuoteRune(c.Delimiter)},
		{"columns", fmt.Sprintf("%s, %s, %s", c.Columns.Pattern, c.Columns.Replacement, c.Columns.Renumber)},
		{"ignore files", ignore},
	}
}
