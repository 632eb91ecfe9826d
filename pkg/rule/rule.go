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
	"fmt"
	"strconv"
	"strings"

	"github.com/walteh/renamerc/pkg/mapping"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ Columns names the mapping file fields a rule is read from
type Columns struct {
	Pattern     string `json:"pattern" yaml:"pattern" hcl:"pattern,optional"`
	Replacement string `json:"replacement" yaml:"replacement" hcl:"replacement,optional"`
	Renumber    string `json:"renumber" yaml:"renumber" hcl:"renumber,optional"`
}

// DefaultColumns matches the header of the stock mapping.csv
func DefaultColumns() Columns {
	return Columns{
		Pattern:     "old_name",
		Replacement: "new_name",
		Renumber:    "renumber",
	}
}

// 📏 Rule is one row of the mapping file
type Rule struct {
	Pattern     string
	Replacement string
	Renumber    *int // nil when the row does not renumber
	Line        int
}

// IsNoop reports whether the rule maps its pattern onto itself. Such rules are
// skipped, renumber offset included.
func (r Rule) IsNoop() bool {
	return r.Pattern == r.Replacement
}

// String returns a short description for logs
func (r Rule) String() string {
	s := fmt.Sprintf("%q -> %q", r.Pattern, r.Replacement)
	if r.Renumber != nil {
		s += fmt.Sprintf(" (renumber %+d)", *r.Renumber)
	}
	return s
}

// ❌ ParseError reports a mapping row that cannot become a rule
type ParseError struct {
	Record mapping.Record
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Record.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// 🔍 Parse converts a mapping record into a rule.
//
// The pattern and replacement fields must be present and the pattern must not
// be empty. The renumber field is optional; "false" or an empty value means no
// renumbering, anything else must be a base-10 integer.
func Parse(rec mapping.Record, cols Columns) (Rule, error) {
	pattern, ok := rec.Fields[cols.Pattern]
	if !ok {
		return Rule{}, &ParseError{Record: rec, Reason: fmt.Sprintf("missing field %q", cols.Pattern)}
	}
	if pattern == "" {
		return Rule{}, &ParseError{Record: rec, Reason: fmt.Sprintf("field %q is empty", cols.Pattern)}
	}

	replacement, ok := rec.Fields[cols.Replacement]
	if !ok {
		return Rule{}, &ParseError{Record: rec, Reason: fmt.Sprintf("missing field %q", cols.Replacement)}
	}

	r := Rule{
		Pattern:     pattern,
		Replacement: replacement,
		Line:        rec.Line,
	}

	raw := strings.TrimSpace(rec.Fields[cols.Renumber])
	if cols.Renumber == "" || raw == "" || raw == "false" {
		return r, nil
	}

	offset, err := strconv.Atoi(raw)
	if err != nil {
		return Rule{}, &ParseError{
			Record: rec,
			Reason: fmt.Sprintf("field %q is not an integer", cols.Renumber),
			Err:    errors.Errorf("parsing %q: %w", raw, err),
		}
	}
	r.Renumber = &offset

	return r, nil
}
