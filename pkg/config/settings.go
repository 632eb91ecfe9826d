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
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/renamerc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for settings file parsers
type Parser interface {
	// 📝 Parse parses settings from bytes
	Parse(ctx context.Context, data []byte, filename string) (*Settings, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// ⚙️ Settings is the content of a settings file. A nil field was not set.
type Settings struct {
	Images      *string       `json:"images,omitempty" yaml:"images,omitempty" hcl:"images,optional"`
	Output      *string       `json:"output,omitempty" yaml:"output,omitempty" hcl:"output,optional"`
	Copy        *bool         `json:"copy,omitempty" yaml:"copy,omitempty" hcl:"copy,optional"`
	DryRun      *bool         `json:"dryrun,omitempty" yaml:"dryrun,omitempty" hcl:"dryrun,optional"`
	Verbose     *bool         `json:"verbose,omitempty" yaml:"verbose,omitempty" hcl:"verbose,optional"`
	Parallel    *int          `json:"parallel,omitempty" yaml:"parallel,omitempty" hcl:"parallel,optional"`
	Literal     *bool         `json:"literal,omitempty" yaml:"literal,omitempty" hcl:"literal,optional"`
	Delimiter   *string       `json:"delimiter,omitempty" yaml:"delimiter,omitempty" hcl:"delimiter,optional"`
	IgnoreFiles []string      `json:"ignore_files,omitempty" yaml:"ignore_files,omitempty" hcl:"ignore_files,optional"`
	Columns     *rule.Columns `json:"columns,omitempty" yaml:"columns,omitempty" hcl:"columns,block"`
}

// 🎯 Load reads a settings file. Any failure is a *ConfigurationError.
func Load(ctx context.Context, fs afero.Fs, path string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading settings")

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &ConfigurationError{Setting: "config", Reason: "Could not read settings file.", Err: err}
	}

	p := GetParser(path)
	if p == nil {
		return nil, &ConfigurationError{Setting: "config", Reason: "Unsupported settings file.", Err: errors.Errorf("no parser found for file: %s", path)}
	}

	settings, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, &ConfigurationError{Setting: "config", Reason: "Could not parse settings file.", Err: err}
	}

	return settings, nil
}

// 🔄 Apply layers the settings that were set over cfg
func (s *Settings) Apply(cfg *RunConfiguration) error {
	if s.Images != nil {
		cfg.SourceFolder = *s.Images
	}
	if s.Output != nil {
		cfg.DestinationFolder = *s.Output
	}
	if s.Copy != nil {
		cfg.Mode = ModeRename
		if *s.Copy {
			cfg.Mode = ModeCopy
		}
	}
	if s.DryRun != nil {
		cfg.DryRun = *s.DryRun
	}
	if s.Verbose != nil {
		cfg.Verbose = *s.Verbose
	}
	if s.Parallel != nil {
		cfg.Parallelism = *s.Parallel
	}
	if s.Literal != nil {
		cfg.Literal = *s.Literal
	}
	if s.Delimiter != nil {
		r, err := ParseDelimiter(*s.Delimiter)
		if err != nil {
			return err
		}
		cfg.Delimiter = r
	}
	if s.IgnoreFiles != nil {
		cfg.IgnoreFiles = s.IgnoreFiles
	}
	if s.Columns != nil {
		if s.Columns.Pattern != "" {
			cfg.Columns.Pattern = s.Columns.Pattern
		}
		if s.Columns.Replacement != "" {
			cfg.Columns.Replacement = s.Columns.Replacement
		}
		if s.Columns.Renumber != "" {
			cfg.Columns.Renumber = s.Columns.Renumber
		}
	}
	return nil
}

// ParseDelimiter turns a one character string into a delimiter. "tab" is
// accepted for a tab.
func ParseDelimiter(s string) (rune, error) {
	if s == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, &ConfigurationError{Setting: "delimiter", Reason: "Invalid delimiter.", Err: errors.Errorf("delimiter %q must be a single character", s)}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
