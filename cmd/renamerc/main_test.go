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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultMapping = "old_name,new_name,renumber\nIMG,Vacation,10\n"

type result struct {
	code   int
	stdout string
	stderr string
}

// 🧪 execute runs the command in dir with files created relative to it
func execute(t *testing.T, files map[string]string, args ...string) (string, result) {
	t.Helper()

	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(context.Background(), args, Environment{
		Fs:      afero.NewOsFs(),
		Stdout:  stdout,
		Stderr:  stderr,
		Workdir: dir,
	})

	return dir, result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func exists(t *testing.T, path string) bool {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		args     []string
		wantCode int
		check    func(t *testing.T, dir string, res result)
	}{
		{
			name: "rename_with_defaults",
			files: map[string]string{
				"mapping.csv":        defaultMapping,
				"images/IMG_001.jpg": "one",
			},
			wantCode: 0,
			check: func(t *testing.T, dir string, res result) {
				assert.True(t, exists(t, filepath.Join(dir, "images-renamed", "Vacation_011.jpg")), "renamed file should exist")
				assert.False(t, exists(t, filepath.Join(dir, "images", "IMG_001.jpg")), "source should be gone")
				assert.Contains(t, res.stdout, "Completed processing input file.")
				assert.NotContains(t, res.stdout, "→", "performed operations are quiet without verbose")
			},
		},
		{
			name: "dry_run",
			files: map[string]string{
				"mapping.csv":        defaultMapping,
				"images/IMG_001.jpg": "one",
			},
			args:     []string{"--dryrun"},
			wantCode: 0,
			check: func(t *testing.T, dir string, res result) {
				want := filepath.Join(dir, "images", "IMG_001.jpg") + " → " + filepath.Join(dir, "images-renamed", "Vacation_011.jpg")
				assert.Contains(t, res.stdout, "Starting dry run...")
				assert.Contains(t, res.stdout, want)
				assert.False(t, exists(t, filepath.Join(dir, "images-renamed")), "destination should stay absent")
				assert.True(t, exists(t, filepath.Join(dir, "images", "IMG_001.jpg")), "source should stay")
			},
		},
		{
			name: "copy_with_short_flags",
			files: map[string]string{
				"lists/rules.csv":    "old_name,new_name,renumber\nDSC,Party,false\n",
				"photos/DSC_004.jpg": "four",
			},
			args:     []string{"lists/rules.csv", "-i=photos", "-o=out", "-c"},
			wantCode: 0,
			check: func(t *testing.T, dir string, res result) {
				got, err := os.ReadFile(filepath.Join(dir, "out", "Party_004.jpg"))
				require.NoError(t, err)
				assert.Equal(t, "four", string(got), "copy should be byte identical")
				assert.True(t, exists(t, filepath.Join(dir, "photos", "DSC_004.jpg")), "source should stay")
			},
		},
		{
			name: "missing_image_folder",
			files: map[string]string{
				"mapping.csv": defaultMapping,
			},
			args:     []string{"-i", "nope"},
			wantCode: 1,
			check: func(t *testing.T, dir string, res result) {
				assert.Contains(t, res.stderr, "Specified image folder does not exist.")
				assert.False(t, exists(t, filepath.Join(dir, "images-renamed")), "nothing should be created")
				assert.Empty(t, res.stdout)
			},
		},
		{
			name: "missing_mapping_file",
			files: map[string]string{
				"images/IMG_001.jpg": "one",
			},
			args:     []string{"missing.csv"},
			wantCode: 1,
			check: func(t *testing.T, dir string, res result) {
				assert.Contains(t, res.stderr, "Specified input-file does not exist.")
				assert.True(t, exists(t, filepath.Join(dir, "images", "IMG_001.jpg")))
			},
		},
		{
			name: "parse_error_prints_record",
			files: map[string]string{
				"mapping.csv":        "old_name,new_name,renumber\nIMG,Vacation,ten\n",
				"images/IMG_001.jpg": "one",
			},
			wantCode: 2,
			check: func(t *testing.T, dir string, res result) {
				assert.Contains(t, res.stderr, "Parse error.")
				assert.Contains(t, res.stderr, "line 2")
				assert.Contains(t, res.stderr, "Data used:")
				assert.Contains(t, res.stderr, `"renumber": "ten"`)
				assert.True(t, exists(t, filepath.Join(dir, "images", "IMG_001.jpg")), "nothing should be renamed")
			},
		},
		{
			name: "noop_rows_change_nothing",
			files: map[string]string{
				"mapping.csv":        "old_name,new_name,renumber\nIMG,IMG,5\n",
				"images/IMG_001.jpg": "one",
			},
			wantCode: 0,
			check: func(t *testing.T, dir string, res result) {
				assert.True(t, exists(t, filepath.Join(dir, "images", "IMG_001.jpg")))
				entries, err := os.ReadDir(filepath.Join(dir, "images-renamed"))
				require.NoError(t, err)
				assert.Empty(t, entries)
			},
		},
		{
			name:     "unknown_flag",
			args:     []string{"--frobnicate"},
			wantCode: 1,
			check: func(t *testing.T, dir string, res result) {
				assert.Contains(t, res.stderr, "Invalid arguments.")
			},
		},
		{
			name:     "too_many_arguments",
			args:     []string{"a.csv", "b.csv"},
			wantCode: 1,
			check: func(t *testing.T, dir string, res result) {
				assert.Contains(t, res.stderr, "Invalid arguments.")
			},
		},
		{
			name: "flags_override_settings_file",
			files: map[string]string{
				"renamerc.yaml":      "output: from-settings\ncopy: true\ndryrun: true\n",
				"mapping.csv":        defaultMapping,
				"images/IMG_001.jpg": "one",
			},
			args:     []string{"--config", "renamerc.yaml", "--dryrun=false", "-o", "flag-out"},
			wantCode: 0,
			check: func(t *testing.T, dir string, res result) {
				assert.True(t, exists(t, filepath.Join(dir, "flag-out", "Vacation_011.jpg")), "flag output should win")
				assert.False(t, exists(t, filepath.Join(dir, "from-settings")), "settings output should lose")
				assert.True(t, exists(t, filepath.Join(dir, "images", "IMG_001.jpg")), "copy from settings should apply")
			},
		},
		{
			name: "hcl_settings_delimiter",
			files: map[string]string{
				"renamerc.hcl":       "delimiter = \";\"\n",
				"mapping.csv":        "old_name;new_name;renumber\nIMG;Vacation;false\n",
				"images/IMG_001.jpg": "one",
			},
			args:     []string{"--config", "renamerc.hcl"},
			wantCode: 0,
			check: func(t *testing.T, dir string, res result) {
				assert.True(t, exists(t, filepath.Join(dir, "images-renamed", "Vacation_001.jpg")))
			},
		},
		{
			name: "bad_settings_file",
			files: map[string]string{
				"renamerc.json": `{"imges": "typo"}`,
				"mapping.csv":   defaultMapping,
			},
			args:     []string{"--config", "renamerc.json"},
			wantCode: 1,
			check: func(t *testing.T, dir string, res result) {
				assert.Contains(t, res.stderr, "Could not parse settings file.")
			},
		},
		{
			name: "verbose_run",
			files: map[string]string{
				"mapping.csv":        defaultMapping,
				"images/IMG_001.jpg": "one",
			},
			args:     []string{"-v", "-d"},
			wantCode: 0,
			check: func(t *testing.T, dir string, res result) {
				assert.Contains(t, res.stdout, "Proceeding with settings:")
				assert.Contains(t, res.stdout, filepath.Join(dir, "mapping.csv"))
				assert.Contains(t, res.stdout, "1 rules applied, 0 skipped, 1 files matched")
			},
		},
		{
			name: "journal_is_written",
			files: map[string]string{
				"mapping.csv":        defaultMapping,
				"images/IMG_001.jpg": "one",
			},
			args:     []string{"--journal", "ops.csv"},
			wantCode: 0,
			check: func(t *testing.T, dir string, res result) {
				got, err := os.ReadFile(filepath.Join(dir, "ops.csv"))
				require.NoError(t, err)
				want := "line,mode,status,source,destination\n" +
					"2,rename,done," + filepath.Join(dir, "images", "IMG_001.jpg") + "," + filepath.Join(dir, "images-renamed", "Vacation_011.jpg") + "\n"
				assert.Equal(t, want, string(got))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, res := execute(t, tt.files, tt.args...)
			require.Equal(t, tt.wantCode, res.code, "exit code should match\nstdout: %s\nstderr: %s", res.stdout, res.stderr)
			tt.check(t, dir, res)
		})
	}
}

func TestHelp(t *testing.T) {
	_, res := execute(t, nil, "--help")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "renamerc [mapping-file]")
	assert.Contains(t, res.stdout, "--dryrun")
	assert.Contains(t, res.stdout, "-i, --images")
}

func TestVersion(t *testing.T) {
	_, res := execute(t, nil, "--version")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "renamerc version info")
}
