package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Collision records a second declaration of an anchor name.
type Collision struct {
	Name      string
	First     int // line of the declaration the index keeps
	Duplicate int // line of the ignored declaration
}

// LabelIndex maps anchor names to line numbers. It is built once at load
// time; the first declaration of a name wins and later ones are recorded as
// collisions.
type LabelIndex struct {
	lines      map[string]int
	order      []string
	collisions []Collision
}

func newLabelIndex() *LabelIndex {
	return &LabelIndex{lines: make(map[string]int)}
}

func (x *LabelIndex) add(name string, line int) {
	if first, ok := x.lines[name]; ok {
		x.collisions = append(x.collisions, Collision{Name: name, First: first, Duplicate: line})
		return
	}
	x.lines[name] = line
	x.order = append(x.order, name)
}

// Lookup returns the line number of the named anchor.
func (x *LabelIndex) Lookup(name string) (int, bool) {
	n, ok := x.lines[name]
	return n, ok
}

// Has reports whether name is declared.
func (x *LabelIndex) Has(name string) bool {
	_, ok := x.lines[name]
	return ok
}

// Names returns anchor names in declaration order.
func (x *LabelIndex) Names() []string {
	return append([]string(nil), x.order...)
}

func (x *LabelIndex) Collisions() []Collision {
	return append([]Collision(nil), x.collisions...)
}

func (x *LabelIndex) Len() int {
	return len(x.order)
}

// Section is the bounded range an anchor introduces: the anchor line up to
// (not including) the next blank line. End is len+1 when the file ends first.
type Section struct {
	Anchor string
	Start  int
	End    int
	// Terminated is false when the section runs into the end of the file.
	Terminated bool
}

// Len is the number of non-anchor lines in the section.
func (s Section) Len() int {
	return s.End - s.Start - 1
}

// File is a parsed script: immutable lines, the label index and the section
// table. One File may back many Scripts.
type File struct {
	name     string
	lines    []Line // lines[0] is a blank sentinel
	labels   *LabelIndex
	sections map[string]Section
}

// LoadFile reads and parses a script file. A missing file is a fatal load
// error and nothing is parsed.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return Parse(filepath.Base(path), f)
}

// ParseString parses script text held in memory.
func ParseString(name, content string) (*File, error) {
	return Parse(name, strings.NewReader(content))
}

// Parse reads every line of r into a File.
func Parse(name string, r io.Reader) (*File, error) {
	file := &File{
		name:     name,
		lines:    []Line{{Number: 0, Op: OpBlank}},
		labels:   newLabelIndex(),
		sections: make(map[string]Section),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		file.lines = append(file.lines, ParseLine(n, scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script %s at line %d: %w", name, n+1, err)
	}

	file.index()
	return file, nil
}

func (f *File) index() {
	for i := 1; i < len(f.lines); i++ {
		l := f.lines[i]
		if l.Op != OpAnchor {
			continue
		}
		fields := l.Fields()
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		first := !f.labels.Has(name)
		f.labels.add(name, i)
		if first {
			f.sections[name] = f.sectionFrom(name, i)
		}
	}
}

func (f *File) sectionFrom(anchor string, start int) Section {
	for j := start + 1; j < len(f.lines); j++ {
		if f.lines[j].Op == OpBlank {
			return Section{Anchor: anchor, Start: start, End: j, Terminated: true}
		}
	}
	return Section{Anchor: anchor, Start: start, End: len(f.lines)}
}

// Name is the base name the file was loaded from.
func (f *File) Name() string {
	return f.name
}

// Len is the number of source lines (N).
func (f *File) Len() int {
	return len(f.lines) - 1
}

// Line returns line n (1..N). Index 0 returns the blank sentinel.
func (f *File) Line(n int) Line {
	return f.lines[n]
}

// Lines returns lines 1..N.
func (f *File) Lines() []Line {
	return f.lines[1:]
}

func (f *File) Labels() *LabelIndex {
	return f.labels
}

// Section returns the precomputed section for anchor.
func (f *File) Section(anchor string) (Section, bool) {
	s, ok := f.sections[anchor]
	return s, ok
}
