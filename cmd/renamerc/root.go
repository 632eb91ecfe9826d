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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/log"
	"github.com/walteh/renamerc/pkg/mapping"
	"github.com/walteh/renamerc/pkg/operation"
	"github.com/walteh/renamerc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

const (
	exitOK            = 0
	exitConfiguration = 1
	exitRun           = 2
)

// 🌍 Environment is what the command runs against
type Environment struct {
	Fs      afero.Fs
	Stdout  io.Writer
	Stderr  io.Writer
	Workdir string
}

// 🎮 Handler holds the flags of one invocation
type Handler struct {
	env Environment

	configFile string
	images     string
	output     string
	verbose    bool
	dryRun     bool
	copy       bool
	literal    bool
	parallel   int
	journal    string
	debug      bool
}

func newRootCmd(h *Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renamerc [mapping-file]",
		Short: "Rename or copy files according to a CSV mapping file",
		Long: `renamerc reads rules from a CSV mapping file and applies each of them to the
files of an image folder. A rule replaces the first case-insensitive match of
old_name with new_name and may shift the trailing number of the file name by
the offset in the renumber column.

The mapping file defaults to mapping.csv in the working directory.`,
		Example: `  renamerc -i ./photos -o ./renamed --dryrun
  renamerc list.csv -i=./photos --copy --verbose`,
		Version:       FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return &config.ConfigurationError{Setting: "args", Reason: "Invalid arguments.", Err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.Run(cmd.Context(), cmd, args)
		},
	}

	cmd.SetVersionTemplate("{{.Version}}")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &config.ConfigurationError{Setting: "flags", Reason: "Invalid arguments.", Err: err}
	})

	addRootFlags(cmd, h)
	return cmd
}

func addRootFlags(cmd *cobra.Command, h *Handler) {
	defaults := config.Defaults()
	flags := cmd.Flags()
	flags.StringVarP(&h.images, "images", "i", defaults.SourceFolder, "folder holding the files to rename")
	flags.StringVarP(&h.output, "output", "o", defaults.DestinationFolder, "folder receiving the renamed files")
	flags.BoolVarP(&h.verbose, "verbose", "v", false, "print settings and every file operation")
	flags.BoolVarP(&h.dryRun, "dryrun", "d", false, "only print what would be done")
	flags.BoolVarP(&h.copy, "copy", "c", false, "copy files instead of renaming them")
	flags.StringVar(&h.configFile, "config", "", "settings file (.yaml, .yml, .json or .hcl)")
	flags.IntVar(&h.parallel, "parallel", defaults.Parallelism, "rules, and files per rule, processed at once")
	flags.BoolVar(&h.literal, "literal", false, "match patterns as plain text instead of regular expressions")
	flags.StringVar(&h.journal, "journal", "", "write a CSV record of every operation to this file")
	flags.BoolVar(&h.debug, "debug", false, "enable structured debug logging on stderr")
}

func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.Disabled
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(level).With().Timestamp().Logger()
}

// 🧩 configuration layers defaults, the settings file and explicitly set flags
func (h *Handler) configuration(ctx context.Context, cmd *cobra.Command, args []string) (config.RunConfiguration, error) {
	cfg := config.Defaults()

	if h.configFile != "" {
		path := h.configFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(h.env.Workdir, path)
		}
		settings, err := config.Load(ctx, h.env.Fs, path)
		if err != nil {
			return cfg, err
		}
		if err := settings.Apply(&cfg); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("images") {
		cfg.SourceFolder = h.images
	}
	if flags.Changed("output") {
		cfg.DestinationFolder = h.output
	}
	if flags.Changed("verbose") {
		cfg.Verbose = h.verbose
	}
	if flags.Changed("dryrun") {
		cfg.DryRun = h.dryRun
	}
	if flags.Changed("copy") {
		cfg.Mode = config.ModeRename
		if h.copy {
			cfg.Mode = config.ModeCopy
		}
	}
	if flags.Changed("parallel") {
		cfg.Parallelism = h.parallel
	}
	if flags.Changed("literal") {
		cfg.Literal = h.literal
	}
	if len(args) == 1 {
		cfg.InputFile = args[0]
	}

	if err := cfg.Resolve(h.env.Workdir); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(h.env.Fs); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// 🏃 Run executes one invocation
func (h *Handler) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	zlog := setupLogging(h.env.Stderr, h.debug)
	ctx = zlog.WithContext(ctx)

	cfg, err := h.configuration(ctx, cmd, args)
	if err != nil {
		return err
	}

	logger := log.New(h.env.Stdout, h.env.Stderr, zlog, cfg.Verbose)
	ctx = log.NewContext(ctx, logger)

	logger.Settings(cfg.SettingsRows())

	reader, err := mapping.Open(h.env.Fs, cfg.InputFile, cfg.Delimiter)
	if err != nil {
		return err
	}
	defer reader.Close()

	var journal *operation.Journal
	if h.journal != "" {
		journal = operation.NewJournal()
	}

	pipeline, err := operation.New(operation.Options{
		Config:  cfg,
		Fs:      h.env.Fs,
		Journal: journal,
	})
	if err != nil {
		return errors.Errorf("creating pipeline: %w", err)
	}

	summary, runErr := pipeline.Run(ctx, reader)

	if journal != nil {
		if err := h.writeJournal(journal); err != nil {
			if runErr != nil {
				logger.Warningf("could not write journal: %v", err)
			} else {
				return err
			}
		}
	}

	if runErr != nil {
		return runErr
	}

	logger.Verbosef("%d rules applied, %d skipped, %d files matched", summary.Rules, summary.Skipped, summary.Matched)
	logger.Success("Completed processing input file.")
	return nil
}

func (h *Handler) writeJournal(journal *operation.Journal) error {
	path := h.journal
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.env.Workdir, path)
	}

	f, err := h.env.Fs.Create(path)
	if err != nil {
		return errors.Errorf("creating journal: %w", err)
	}

	if err := journal.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing journal: %w", err)
	}
	return nil
}

// 🚦 run executes the command and maps its outcome to an exit code
func run(ctx context.Context, args []string, env Environment) int {
	h := &Handler{env: env}
	cmd := newRootCmd(h)
	cmd.SetArgs(args)
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	return report(env.Stderr, err)
}

// 📣 report prints err for the user and picks the exit code
func report(w io.Writer, err error) int {
	logger := log.New(io.Discard, w, zerolog.Nop(), false)

	var cerr *config.ConfigurationError
	if errors.As(err, &cerr) {
		logger.Failure(cerr.Reason, cerr.Err)
		return exitConfiguration
	}

	var perr *rule.ParseError
	if errors.As(err, &perr) {
		logger.Failure("Parse error.", err)
		data, jerr := json.MarshalIndent(perr.Record.Fields, "", "  ")
		if jerr == nil {
			fmt.Fprintf(w, "Data used:\n%s\n", data)
		}
		return exitRun
	}

	logger.Failure("Run failed.", err)
	return exitRun
}
