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

package rule

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/walteh/renamerc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 MatchResult is a single file a rule applies to
type MatchResult struct {
	SourcePath      string
	DestinationPath string
	NewName         string // DestinationPath before joining the destination folder
	Rule            Rule
}

// 🧲 Matcher applies one rule to the names of a directory listing
type Matcher struct {
	rule        Rule
	rx          *regexp.Regexp
	source      string
	destination string
}

// 🏭 NewMatcher compiles the rule's pattern. Source and destination folders are
// used to resolve matched names into paths.
func NewMatcher(r Rule, source, destination string, literal bool) (*Matcher, error) {
	rx, err := text.CompilePattern(r.Pattern, literal)
	if err != nil {
		return nil, errors.Errorf("creating matcher: %w", err)
	}
	return &Matcher{
		rule:        r,
		rx:          rx,
		source:      source,
		destination: destination,
	}, nil
}

// Rule returns the rule this matcher applies
func (m *Matcher) Rule() Rule {
	return m.rule
}

// 🔍 Match reports whether the rule applies to name and, if so, where the file goes
func (m *Matcher) Match(name string) (MatchResult, bool) {
	newName, ok := m.NewName(name)
	if !ok {
		return MatchResult{}, false
	}
	return MatchResult{
		SourcePath:      filepath.Join(m.source, name),
		DestinationPath: filepath.Join(m.destination, newName),
		NewName:         newName,
		Rule:            m.rule,
	}, true
}

// NewName computes the renamed form of name, without resolving any folder
func (m *Matcher) NewName(name string) (string, bool) {
	newName, ok := text.ReplaceFirst(m.rx, name, m.rule.Replacement)
	if !ok {
		return name, false
	}
	if m.rule.Renumber != nil {
		newName = text.Renumber(newName, *m.rule.Renumber)
	}
	return newName, true
}

// 🚧 InvalidNameReason returns why name cannot be written into the destination
// folder as is, or "" when it can. Names must be a single path element.
func InvalidNameReason(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "empty name"
	case name == "." || name == "..":
		return "reserved name"
	case strings.ContainsAny(name, `/\`):
		return "path separator in name"
	}
	return ""
}
