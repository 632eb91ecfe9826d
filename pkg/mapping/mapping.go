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

// Package mapping reads the rows of a delimited mapping file as records keyed
// by the names in its header row.
package mapping

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 📄 Record is one data row of a mapping file
type Record struct {
	Line   int               // line in the mapping file the row starts on
	Fields map[string]string // header name -> value
}

// 🔌 Source yields records in file order. Next returns io.EOF once exhausted.
type Source interface {
	Next() (Record, error)
}

// 📖 Reader is a Source over delimited text with a header row
type Reader struct {
	csv    *csv.Reader
	header []string
	closer io.Closer
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// 🏭 NewReader creates a reader over r using the given field delimiter
func NewReader(r io.Reader, delimiter rune) *Reader {
	br := bufio.NewReader(r)
	if peek, err := br.Peek(len(bom)); err == nil && string(peek) == string(bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.Comma = delimiter

	return &Reader{csv: cr}
}

// 📂 Open opens the mapping file at path on fs. The caller must Close it.
func Open(fs afero.Fs, path string, delimiter rune) (*Reader, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening mapping file: %w", err)
	}
	r := NewReader(f, delimiter)
	r.closer = f
	return r, nil
}

// ⏭️ Next returns the next data row. The header row is consumed on the first call.
func (r *Reader) Next() (Record, error) {
	if r.header == nil {
		header, err := r.csv.Read()
		if err == io.EOF {
			return Record{}, io.EOF
		}
		if err != nil {
			return Record{}, errors.Errorf("reading header: %w", err)
		}
		r.header = header
	}

	values, err := r.csv.Read()
	if err == io.EOF {
		return Record{}, io.EOF
	}
	if err != nil {
		return Record{}, errors.Errorf("reading row: %w", err)
	}

	line, _ := r.csv.FieldPos(0)
	rec := Record{
		Line:   line,
		Fields: make(map[string]string, len(r.header)),
	}
	for i, name := range r.header {
		rec.Fields[name] = values[i]
	}
	return rec, nil
}

// Header returns the field names, or nil before the first call to Next.
func (r *Reader) Header() []string {
	return r.header
}

// 🔒 Close releases the underlying file, if the reader owns one
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// 📋 SliceSource is a Source over records already in memory
type SliceSource struct {
	records []Record
	next    int
}

// NewSliceSource creates a Source yielding records in order
func NewSliceSource(records ...Record) *SliceSource {
	return &SliceSource{records: records}
}

// Next implements Source
func (s *SliceSource) Next() (Record, error) {
	if s.next >= len(s.records) {
		return Record{}, io.EOF
	}
	rec := s.records[s.next]
	s.next++
	return rec, nil
}
