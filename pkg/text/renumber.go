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
	"fmt"
	"path/filepath"
	"strconv"
)

// 🔢 Renumber shifts the number at the end of a filename's stem by offset.
//
// The digit run must sit immediately before the extension ("IMG_001.jpg"), or
// at the very end of a name without one. Names without such a run are returned
// unchanged. A run with a leading zero keeps its width, zero padded; any other
// run is written as the plain decimal value:
//
//	Renumber("IMG_001.jpg", 10) // "IMG_011.jpg"
//	Renumber("IMG_10.jpg", -5)  // "IMG_5.jpg"
//	Renumber("IMG_99.jpg", 1)   // "IMG_100.jpg"
//	Renumber("IMG.jpg", 5)      // "IMG.jpg"
//
// Shifting by n and then by -n restores the name, except when a padded run
// outgrows its width ("099" + 1 is "100") or the value drops below zero.
func Renumber(name string, offset int) string {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]

	start := len(stem)
	for start > 0 && isDigit(stem[start-1]) {
		start--
	}
	if start == len(stem) {
		return name
	}

	digits := stem[start:]
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// out of range for int64, leave the name alone
		return name
	}

	return stem[:start] + formatLike(n+int64(offset), digits) + ext
}

// formatLike renders v the way original was written: zero padded to its
// width when it starts with a zero, plain otherwise.
func formatLike(v int64, original string) string {
	width := 0
	if len(original) > 1 && original[0] == '0' {
		width = len(original)
	}
	if v < 0 {
		return "-" + fmt.Sprintf("%0*d", width, -v)
	}
	return fmt.Sprintf("%0*d", width, v)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
