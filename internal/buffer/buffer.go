// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package buffer holds an immutable line-oriented view of a source file.
// Implements: prd004-insertion-planner R1 (source buffer), R4 (splicing);
//
//	docs/ARCHITECTURE § Source Buffer.
package buffer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Buffer is a snapshot of source text as ordered lines plus the line-ending
// style detected on read. Buffers are immutable; every transformation
// returns a new Buffer. Reassembly uses the detected style, so a file read
// and written back is byte-identical.
type Buffer struct {
	lines        []string
	eol          string // "\n" or "\r\n"
	finalNewline bool
}

// Insertion is one planned line insertion. At uses insert-before semantics:
// 0 prepends, Len() appends.
type Insertion struct {
	At    int
	Lines []string
}

// FromString builds a Buffer from raw file content.
func FromString(content string) *Buffer {
	b := &Buffer{eol: detectEOL(content)}
	if content == "" {
		return b
	}
	b.finalNewline = strings.HasSuffix(content, "\n")
	trimmed := strings.TrimSuffix(content, "\n")
	trimmed = strings.TrimSuffix(trimmed, "\r")
	b.lines = strings.Split(trimmed, "\n")
	for i, line := range b.lines {
		b.lines[i] = strings.TrimSuffix(line, "\r")
	}
	return b
}

// FromBytes builds a Buffer from raw file bytes.
func FromBytes(data []byte) *Buffer {
	return FromString(string(data))
}

// FromLines builds a Buffer directly from lines, using "\n" endings and a
// trailing final newline. Used by tests and callers that synthesize content.
func FromLines(lines []string) *Buffer {
	return &Buffer{lines: append([]string(nil), lines...), eol: "\n", finalNewline: true}
}

// Load reads a file into a Buffer.
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromBytes(data), nil
}

// detectEOL inspects the first line break; a preceding carriage return marks
// the whole buffer as CRLF.
func detectEOL(content string) string {
	idx := strings.IndexByte(content, '\n')
	if idx > 0 && content[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Len returns the number of lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Line returns the line at index i.
func (b *Buffer) Line(i int) string {
	return b.lines[i]
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

// EOL returns the detected line-ending style.
func (b *Buffer) EOL() string {
	return b.eol
}

// NextNonBlank returns the index of the first line at or after from whose
// content is not only whitespace. The second return is false when every
// remaining line is blank or from is past the end.
func (b *Buffer) NextNonBlank(from int) (int, bool) {
	for i := from; i < len(b.lines); i++ {
		if strings.TrimSpace(b.lines[i]) != "" {
			return i, true
		}
	}
	return 0, false
}

// Indentation returns the leading whitespace of line i.
func (b *Buffer) Indentation(i int) string {
	line := b.lines[i]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Insert returns a new Buffer with the given lines inserted before index at.
// at must be within [0, Len()]; Len() appends at end of file.
func (b *Buffer) Insert(at int, lines ...string) (*Buffer, error) {
	if at < 0 || at > len(b.lines) {
		return nil, fmt.Errorf("insert index %d out of range [0,%d]", at, len(b.lines))
	}
	merged := make([]string, 0, len(b.lines)+len(lines))
	merged = append(merged, b.lines[:at]...)
	merged = append(merged, lines...)
	merged = append(merged, b.lines[at:]...)
	return &Buffer{lines: merged, eol: b.eol, finalNewline: b.finalNewline}, nil
}

// SpliceAll applies every insertion in a single pass. Insertions are applied
// in descending index order so earlier ones never shift the line numbers of
// later ones; insertions sharing an index keep their given order in the
// output. All indices are validated against the original buffer before any
// line moves.
func (b *Buffer) SpliceAll(ins []Insertion) (*Buffer, error) {
	for _, in := range ins {
		if in.At < 0 || in.At > len(b.lines) {
			return nil, fmt.Errorf("splice index %d out of range [0,%d]", in.At, len(b.lines))
		}
	}

	ordered := append([]Insertion(nil), ins...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].At > ordered[j].At
	})

	out := b
	var err error
	for i := 0; i < len(ordered); {
		// Gather the run of insertions sharing this index; stable sort kept
		// them in input order, so concatenating preserves stacking order.
		j := i
		var block []string
		for j < len(ordered) && ordered[j].At == ordered[i].At {
			block = append(block, ordered[j].Lines...)
			j++
		}
		out, err = out.Insert(ordered[i].At, block...)
		if err != nil {
			return nil, err
		}
		i = j
	}
	return out, nil
}

// String reassembles the buffer with its detected line-ending style.
func (b *Buffer) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	s := strings.Join(b.lines, b.eol)
	if b.finalNewline {
		s += b.eol
	}
	return s
}

// Bytes reassembles the buffer as raw file bytes.
func (b *Buffer) Bytes() []byte {
	return []byte(b.String())
}

// WriteFile writes the buffer to path atomically: the content goes to a temp
// file in the same directory, which is then renamed over the target. Existing
// file permissions are preserved.
func (b *Buffer) WriteFile(path string) error {
	return atomicWrite(path, b.Bytes())
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, ".marginalia-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
