package token

import (
	"fmt"
	"sort"
)

// Position describes a fully resolved source location, suitable for
// reporting to a human.
type Position struct {
	Filename string
	Line     int
	Col      int
}

func (p Position) String() string {
	if p.Filename == "" && p.Line == 0 {
		return "-"
	}
	if p.Line == 0 {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// File tracks the byte-offset-to-line/column mapping for a single source
// file, and converts byte offsets scanned from its contents into packed
// Pos values.
type File struct {
	name  string
	size  int
	lines []int // byte offsets of line starts; lines[0] is always 0
}

// Name returns the file's name, as given to FileSet.AddFile.
func (f *File) Name() string { return f.name }

// Size returns the file's declared byte size.
func (f *File) Size() int { return f.size }

// AddLine records the byte offset at which a new line starts (the byte
// right after a newline character), so that offsets from it onward
// resolve to that line. Offsets must be
// added in increasing order; out-of-order or duplicate offsets are
// ignored.
func (f *File) AddLine(offset int) {
	if n := len(f.lines); n == 0 || f.lines[n-1] < offset {
		f.lines = append(f.lines, offset)
	}
}

// Pos returns the packed line/column Pos corresponding to the given byte
// offset within the file.
func (f *File) Pos(offset int) Pos {
	line, col := f.lineCol(offset)
	return MakePos(line, col)
}

func (f *File) lineCol(offset int) (line, col int) {
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset })
	i--
	if i < 0 {
		i = 0
	}
	return i + 1, offset - f.lines[i] + 1
}

// Position converts a Pos produced by this file back into a human-readable
// Position, attaching the file's name.
func (f *File) Position(p Pos) Position {
	line, col := p.LineCol()
	return Position{Filename: f.name, Line: line, Col: col}
}

// FileSet is a minimal registry of Files, one per source file being
// processed in a single compilation run. Unlike go/token.FileSet, Pos
// values here are self-contained (line/col, not a global offset), so the
// FileSet's only job is to let diagnostics look a File up by name.
type FileSet struct {
	files []*File
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet { return &FileSet{} }

// AddFile registers a new File with the given name and size. base is
// accepted for parity with go/token.FileSet.AddFile but is unused, since
// Pos values here do not share a global offset space across files.
func (fs *FileSet) AddFile(name string, base, size int) *File {
	f := &File{name: name, size: size, lines: []int{0}}
	fs.files = append(fs.files, f)
	return f
}

// File returns the previously added File with the given name, or nil if
// none was added under that name.
func (fs *FileSet) File(name string) *File {
	for _, f := range fs.files {
		if f.name == name {
			return f
		}
	}
	return nil
}
