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
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/renamerc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestLoad(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		name      string
		filename  string
		content   string
		wantError string
		check     func(t *testing.T, cfg RunConfiguration)
	}{
		{
			name:     "yaml_settings",
			filename: "renamerc.yaml",
			content: `
images: ./photos
output: ./renamed
copy: true
dryrun: true
parallel: 3
delimiter: ";"
ignore_files:
  - .DS_Store
  - "*.tmp"
columns:
  pattern: from
  replacement: to
`,
			check: func(t *testing.T, cfg RunConfiguration) {
				assert.Equal(t, "./photos", cfg.SourceFolder, "images should match")
				assert.Equal(t, "./renamed", cfg.DestinationFolder, "output should match")
				assert.Equal(t, ModeCopy, cfg.Mode, "copy should select copy mode")
				assert.True(t, cfg.DryRun, "dryrun should be set")
				assert.False(t, cfg.Verbose, "verbose should keep its default")
				assert.Equal(t, 3, cfg.Parallelism, "parallel should match")
				assert.Equal(t, ';', cfg.Delimiter, "delimiter should match")
				assert.Equal(t, []string{".DS_Store", "*.tmp"}, cfg.IgnoreFiles, "ignore files should match")
				assert.Equal(t, rule.Columns{Pattern: "from", Replacement: "to", Renumber: "renumber"}, cfg.Columns, "unset columns keep their defaults")
			},
		},
		{
			name:     "yml_extension",
			filename: "renamerc.yml",
			content:  "verbose: true\n",
			check: func(t *testing.T, cfg RunConfiguration) {
				assert.True(t, cfg.Verbose, "verbose should be set")
				assert.Equal(t, "images", cfg.SourceFolder, "images should keep its default")
			},
		},
		{
			name:     "empty_yaml",
			filename: "renamerc.yaml",
			content:  "",
			check: func(t *testing.T, cfg RunConfiguration) {
				assert.Equal(t, Defaults(), cfg, "an empty file changes nothing")
			},
		},
		{
			name:     "json_settings",
			filename: "renamerc.json",
			content:  `{"images": "in", "copy": false, "literal": true, "delimiter": "tab", "columns": {"renumber": "offset"}}`,
			check: func(t *testing.T, cfg RunConfiguration) {
				assert.Equal(t, "in", cfg.SourceFolder, "images should match")
				assert.Equal(t, ModeRename, cfg.Mode, "copy false should select rename mode")
				assert.True(t, cfg.Literal, "literal should be set")
				assert.Equal(t, '\t', cfg.Delimiter, "tab should be a tab")
				assert.Equal(t, "offset", cfg.Columns.Renumber, "renumber column should match")
				assert.Equal(t, "old_name", cfg.Columns.Pattern, "pattern column should keep its default")
			},
		},
		{
			name:     "hcl_settings",
			filename: "renamerc.hcl",
			content: `
images       = "${home}/Pictures"
copy         = true
parallel     = 4
ignore_files = [".DS_Store"]

columns {
  pattern = "from"
}
`,
			check: func(t *testing.T, cfg RunConfiguration) {
				assert.Equal(t, "/home/tester/Pictures", cfg.SourceFolder, "home should be interpolated")
				assert.Equal(t, ModeCopy, cfg.Mode, "copy should select copy mode")
				assert.Equal(t, 4, cfg.Parallelism, "parallel should match")
				assert.Equal(t, []string{".DS_Store"}, cfg.IgnoreFiles, "ignore files should match")
				assert.Equal(t, "from", cfg.Columns.Pattern, "pattern column should match")
				assert.Equal(t, "new_name", cfg.Columns.Replacement, "replacement column should keep its default")
			},
		},
		{
			name:      "yaml_unknown_key",
			filename:  "renamerc.yaml",
			content:   "imges: typo\n",
			wantError: "parsing YAML",
		},
		{
			name:      "json_unknown_key",
			filename:  "renamerc.json",
			content:   `{"imges": "typo"}`,
			wantError: "parsing JSON",
		},
		{
			name:      "hcl_syntax_error",
			filename:  "renamerc.hcl",
			content:   "images = \n",
			wantError: "parsing HCL",
		},
		{
			name:      "hcl_unknown_attribute",
			filename:  "renamerc.hcl",
			content:   "imges = \"typo\"\n",
			wantError: "decoding HCL",
		},
		{
			name:      "unsupported_extension",
			filename:  "renamerc.toml",
			content:   "images = \"x\"\n",
			wantError: "no parser found",
		},
		{
			name:      "bad_delimiter",
			filename:  "renamerc.yaml",
			content:   "delimiter: \"::\"\n",
			wantError: "single character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/work/"+tt.filename, []byte(tt.content), 0644))

			cfg := Defaults()
			settings, err := Load(ctx, fs, "/work/"+tt.filename)
			if err == nil {
				err = settings.Apply(&cfg)
			}

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError, "error should contain expected message")

				var cerr *ConfigurationError
				assert.True(t, errors.As(err, &cerr), "should be a configuration error")
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(testContext(t), afero.NewMemMapFs(), "/work/renamerc.yaml")
	require.Error(t, err)

	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr), "should be a configuration error")
	assert.Equal(t, "config", cerr.Setting)
	assert.Equal(t, "Could not read settings file.", cerr.Reason)
}

func TestResolve(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg := Defaults()
	cfg.InputFile = "~/lists/mapping.csv"
	cfg.SourceFolder = "/abs/images/"
	cfg.DestinationFolder = "../out"

	require.NoError(t, cfg.Resolve("/work/project"))

	assert.Equal(t, "/home/tester/lists/mapping.csv", cfg.InputFile)
	assert.Equal(t, "/abs/images", cfg.SourceFolder)
	assert.Equal(t, "/work/out", cfg.DestinationFolder)
	assert.True(t, filepath.IsAbs(cfg.DestinationFolder))
}

func TestValidate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/mapping.csv", []byte("old_name,new_name\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/work/notes.txt", []byte("x"), 0644))
	require.NoError(t, fs.MkdirAll("/work/images", 0755))

	valid := func() RunConfiguration {
		cfg := Defaults()
		cfg.InputFile = "/work/mapping.csv"
		cfg.SourceFolder = "/work/images"
		cfg.DestinationFolder = "/work/out"
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(cfg *RunConfiguration)
		wantSetting string
		wantReason  string
	}{
		{
			name:   "valid",
			mutate: func(cfg *RunConfiguration) {},
		},
		{
			name:   "missing_output_is_fine",
			mutate: func(cfg *RunConfiguration) { cfg.DestinationFolder = "/nowhere/at/all" },
		},
		{
			name:        "missing_input_file",
			mutate:      func(cfg *RunConfiguration) { cfg.InputFile = "/work/missing.csv" },
			wantSetting: "mapping-file",
			wantReason:  "Specified input-file does not exist.",
		},
		{
			name:        "input_file_is_directory",
			mutate:      func(cfg *RunConfiguration) { cfg.InputFile = "/work/images" },
			wantSetting: "mapping-file",
			wantReason:  "Specified input-file is a directory.",
		},
		{
			name:        "missing_image_folder",
			mutate:      func(cfg *RunConfiguration) { cfg.SourceFolder = "/work/missing" },
			wantSetting: "images",
			wantReason:  "Specified image folder does not exist.",
		},
		{
			name:        "image_folder_is_file",
			mutate:      func(cfg *RunConfiguration) { cfg.SourceFolder = "/work/notes.txt" },
			wantSetting: "images",
			wantReason:  "Specified image folder is not a directory.",
		},
		{
			name:        "unknown_mode",
			mutate:      func(cfg *RunConfiguration) { cfg.Mode = "move" },
			wantSetting: "mode",
		},
		{
			name:        "zero_parallelism",
			mutate:      func(cfg *RunConfiguration) { cfg.Parallelism = 0 },
			wantSetting: "parallel",
		},
		{
			name:        "empty_pattern_column",
			mutate:      func(cfg *RunConfiguration) { cfg.Columns.Pattern = "" },
			wantSetting: "columns",
		},
		{
			name:        "quote_delimiter",
			mutate:      func(cfg *RunConfiguration) { cfg.Delimiter = '"' },
			wantSetting: "delimiter",
		},
		{
			name:        "invalid_ignore_glob",
			mutate:      func(cfg *RunConfiguration) { cfg.IgnoreFiles = []string{"[unclosed"} },
			wantSetting: "ignore_files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate(fs)
			if tt.wantSetting == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr), "should be a configuration error")
			assert.Equal(t, tt.wantSetting, cerr.Setting)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, cerr.Reason)
			}
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	for input, want := range map[string]rune{",": ',', ";": ';', "|": '|', "tab": '\t', "\t": '\t'} {
		got, err := ParseDelimiter(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	for _, input := range []string{"", ",,", "comma"} {
		_, err := ParseDelimiter(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestSettingsRows(t *testing.T) {
	cfg := Defaults()
	cfg.IgnoreFiles = []string{".DS_Store", "*.tmp"}

	rows := cfg.SettingsRows()
	got := map[string]string{}
	for _, row := range rows {
		require.Len(t, row, 2)
		got[row[0]] = row[1]
	}

	assert.Equal(t, "mapping.csv", got["input file"])
	assert.Equal(t, "rename", got["mode"])
	assert.Equal(t, "10", got["parallel"])
	assert.Equal(t, "','", got["delimiter"])
	assert.Equal(t, "old_name, new_name, renumber", got["columns"])
	assert.Equal(t, ".DS_Store, *.tmp", got["ignore files"])
}
