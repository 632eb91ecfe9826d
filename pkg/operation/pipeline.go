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
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/log"
	"github.com/walteh/renamerc/pkg/mapping"
	"github.com/walteh/renamerc/pkg/rule"
	"github.com/walteh/renamerc/pkg/scan"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔭 Lister lists the candidate names of a folder
type Lister interface {
	List(ctx context.Context, folder string) ([]string, error)
}

// 🔧 Options contains configuration for the pipeline
type Options struct {
	// Config is the validated run configuration
	Config config.RunConfiguration
	// Fs is the filesystem the run works on
	Fs afero.Fs
	// Lister defaults to a scan.Scanner over Fs honoring Config.IgnoreFiles
	Lister Lister
	// Executor defaults to a FileExecutor over Fs
	Executor Executor
	// Journal is handed to the default executor
	Journal *Journal
}

// 📊 Summary counts what a run did
type Summary struct {
	Rules   int // rules applied
	Skipped int // no-op rules
	Matched int // file operations dispatched
}

// 🚂 Pipeline applies the rules of a mapping file to the source folder
type Pipeline struct {
	cfg      config.RunConfiguration
	fs       afero.Fs
	lister   Lister
	executor Executor
}

// 🏭 New creates a new pipeline with the given options
func New(opts Options) (*Pipeline, error) {
	if opts.Fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	if opts.Config.Parallelism < 1 {
		return nil, errors.Errorf("parallelism must be at least 1, got %d", opts.Config.Parallelism)
	}

	lister := opts.Lister
	if lister == nil {
		lister = scan.New(opts.Fs, opts.Config.IgnoreFiles)
	}

	executor := opts.Executor
	if executor == nil {
		fe, err := NewExecutor(ExecutorOptions{
			Fs:      opts.Fs,
			Mode:    opts.Config.Mode,
			DryRun:  opts.Config.DryRun,
			Journal: opts.Journal,
		})
		if err != nil {
			return nil, errors.Errorf("creating executor: %w", err)
		}
		executor = fe
	}

	return &Pipeline{
		cfg:      opts.Config,
		fs:       opts.Fs,
		lister:   lister,
		executor: executor,
	}, nil
}

type counters struct {
	rules, skipped, matched atomic.Int64
}

func (c *counters) summary() Summary {
	return Summary{
		Rules:   int(c.rules.Load()),
		Skipped: int(c.skipped.Load()),
		Matched: int(c.matched.Load()),
	}
}

// 🏃 Run consumes records in order and applies each rule. Up to Parallelism
// rules are in flight at once. The first error stops the run; Run returns it
// once all in-flight work has stopped.
func (p *Pipeline) Run(ctx context.Context, records mapping.Source) (Summary, error) {
	logger := log.FromContext(ctx)

	if p.cfg.DryRun {
		logger.Info("Starting dry run...")
	} else {
		logger.Verbosef("creating output folder %s", p.cfg.DestinationFolder)
		if err := p.fs.MkdirAll(p.cfg.DestinationFolder, 0o755); err != nil {
			return Summary{}, &FileOperationError{Op: "mkdir", Destination: p.cfg.DestinationFolder, Err: err}
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(p.cfg.Parallelism)

	var c counters
	dispatchErr := p.dispatch(gctx, g, records, &c)
	if dispatchErr != nil {
		cancel()
	}
	err := g.Wait()

	switch {
	case dispatchErr != nil:
		return c.summary(), dispatchErr
	case err != nil:
		return c.summary(), err
	case ctx.Err() != nil:
		return c.summary(), errors.Errorf("run interrupted: %w", ctx.Err())
	}
	return c.summary(), nil
}

// dispatch reads records until the source is exhausted, a record is invalid,
// or ctx is done. Valid rules are handed to g.
func (p *Pipeline) dispatch(ctx context.Context, g *errgroup.Group, records mapping.Source, c *counters) error {
	logger := log.FromContext(ctx)

	for ctx.Err() == nil {
		rec, err := records.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Errorf("reading mapping file: %w", err)
		}

		r, err := rule.Parse(rec, p.cfg.Columns)
		if err != nil {
			return err
		}

		if r.IsNoop() {
			c.skipped.Add(1)
			logger.Verbosef("skipping line %d: %s changes nothing", r.Line, r)
			continue
		}

		m, err := rule.NewMatcher(r, p.cfg.SourceFolder, p.cfg.DestinationFolder, p.cfg.Literal)
		if err != nil {
			return &rule.ParseError{Record: rec, Reason: "invalid pattern", Err: err}
		}

		c.rules.Add(1)
		g.Go(func() error {
			return p.applyRule(ctx, m, c)
		})
	}
	return nil
}

// applyRule lists the source folder once and executes every match of m
func (p *Pipeline) applyRule(ctx context.Context, m *rule.Matcher, c *counters) error {
	names, err := p.lister.List(ctx, p.cfg.SourceFolder)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("rule", m.Rule().String()).
		Int("line", m.Rule().Line).
		Int("candidates", len(names)).
		Msg("applying rule")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Parallelism)

	for _, name := range names {
		match, ok := m.Match(name)
		if !ok {
			continue
		}
		if reason := rule.InvalidNameReason(match.NewName); reason != "" {
			log.FromContext(ctx).Warningf("skipping %s: rule on line %d gives %q (%s)", name, m.Rule().Line, match.NewName, reason)
			continue
		}

		c.matched.Add(1)
		g.Go(func() error {
			return p.executor.Execute(gctx, match)
		})
	}

	return g.Wait()
}
