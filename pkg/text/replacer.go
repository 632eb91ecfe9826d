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

package text

import (
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// 🔧 CompilePattern compiles a filename pattern for case-insensitive matching.
// When literal is set the pattern is escaped first, so "a.b" only matches a
// literal dot.
func CompilePattern(pattern string, literal bool) (*regexp.Regexp, error) {
	if literal {
		pattern = regexp.QuoteMeta(pattern)
	}
	rx, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return rx, nil
}

// 🔄 ReplaceFirst replaces the first match of rx in s with repl. The
// replacement is inserted as-is; "$1" style group references are not expanded.
// The second return value reports whether rx matched at all.
func ReplaceFirst(rx *regexp.Regexp, s, repl string) (string, bool) {
	loc := rx.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return s[:loc[0]] + repl + s[loc[1]:], true
}
