// Package styled provides an immutable run-structured view of paragraph text.
//
// A Text is a string partitioned into runs. Every run covers a byte range
// [Begin, End) of the string and carries a style name plus the Role that
// style plays during verse segmentation. Runs are ordered, non-empty and
// leave no gaps, so the run list always covers the whole string exactly.
package styled

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
)

// Run is a maximal byte range sharing one style.
type Run struct {
	Begin int    `json:"begin" yaml:"begin"`
	End   int    `json:"end" yaml:"end"`
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
	Role  Role   `json:"role" yaml:"role"`
}

// Len returns the length of the run in bytes.
func (r Run) Len() int {
	return r.End - r.Begin
}

// Text is an immutable styled string. The zero value is an empty text.
type Text struct {
	s    string
	runs []Run
}

// New builds a Text from a string and its runs. The runs must partition s
// exactly: the first begins at 0, each begins where the previous ends, none
// is empty and the last ends at len(s). The run slice is copied.
func New(s string, runs []Run) (Text, error) {
	pos := 0
	for i, r := range runs {
		switch {
		case r.Begin != pos:
			return Text{}, segerrors.NewValidation("runs", fmt.Sprintf("run %d begins at %d, want %d", i, r.Begin, pos))
		case r.End <= r.Begin:
			return Text{}, segerrors.NewValidation("runs", fmt.Sprintf("run %d is empty", i))
		case r.End > len(s):
			return Text{}, segerrors.NewValidation("runs", fmt.Sprintf("run %d ends at %d past text length %d", i, r.End, len(s)))
		}
		pos = r.End
	}
	if pos != len(s) {
		return Text{}, segerrors.NewValidation("runs", fmt.Sprintf("runs cover %d of %d bytes", pos, len(s)))
	}

	cp := make([]Run, len(runs))
	copy(cp, runs)
	return Text{s: s, runs: cp}, nil
}

// MustNew is like New but panics on invalid runs.
func MustNew(s string, runs []Run) Text {
	t, err := New(s, runs)
	if err != nil {
		panic(err)
	}
	return t
}

// Plain returns s as a single unstyled run.
func Plain(s string) Text {
	if s == "" {
		return Text{}
	}
	return Text{s: s, runs: []Run{{Begin: 0, End: len(s), Role: RolePlain}}}
}

// String returns the unstyled text.
func (t Text) String() string {
	return t.s
}

// Len returns the length of the text in bytes.
func (t Text) Len() int {
	return len(t.s)
}

// RunCount returns the number of runs.
func (t Text) RunCount() int {
	return len(t.runs)
}

// Run returns the run at index i.
func (t Text) Run(i int) Run {
	return t.runs[i]
}

// Runs returns a copy of the run list.
func (t Text) Runs() []Run {
	cp := make([]Run, len(t.runs))
	copy(cp, t.runs)
	return cp
}

// RunText returns the text covered by run i.
func (t Text) RunText(i int) string {
	r := t.runs[i]
	return t.s[r.Begin:r.End]
}

// RunIndexAt returns the index of the run containing byte offset pos.
// Offsets at or past the end return RunCount.
func (t Text) RunIndexAt(pos int) int {
	if pos < 0 {
		return 0
	}
	return sort.Search(len(t.runs), func(i int) bool {
		return t.runs[i].End > pos
	})
}

// Slice returns the styled text covering [begin, end), with runs clipped to
// the range and rebased to start at 0.
func (t Text) Slice(begin, end int) Text {
	begin = max(begin, 0)
	end = min(end, len(t.s))
	if begin >= end {
		return Text{}
	}

	var runs []Run
	for i := t.RunIndexAt(begin); i < len(t.runs) && t.runs[i].Begin < end; i++ {
		r := t.runs[i]
		r.Begin = max(r.Begin, begin) - begin
		r.End = min(r.End, end) - begin
		runs = append(runs, r)
	}
	return Text{s: t.s[begin:end], runs: runs}
}

// Equal reports whether both texts have the same string and runs.
func (t Text) Equal(other Text) bool {
	if t.s != other.s || len(t.runs) != len(other.runs) {
		return false
	}
	for i := range t.runs {
		if t.runs[i] != other.runs[i] {
			return false
		}
	}
	return true
}

// Fingerprint returns a BLAKE3 digest of the string and its run layout.
// Two texts with equal fingerprints have the same content and styling.
func (t Text) Fingerprint() [32]byte {
	h := blake3.New()
	var buf [8]byte
	writeInt := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		_, _ = h.Write(buf[:])
	}

	writeInt(len(t.s))
	_, _ = h.Write([]byte(t.s))
	for _, r := range t.runs {
		writeInt(r.Begin)
		writeInt(r.End)
		writeInt(int(r.Role))
		writeInt(len(r.Style))
		_, _ = h.Write([]byte(r.Style))
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// Builder assembles a Text run by run. Adjacent appends with the same style
// are merged into one run, except chapter and verse numbers: each number
// append is its own run so "1" followed by "2" stays two verses.
type Builder struct {
	styles *StyleMap
	sb     strings.Builder
	runs   []Run
}

// NewBuilder creates a builder resolving style names through styles.
// A nil map uses DefaultStyles.
func NewBuilder(styles *StyleMap) *Builder {
	if styles == nil {
		styles = DefaultStyles()
	}
	return &Builder{styles: styles}
}

// Append adds text in the named style. Empty text is ignored.
func (b *Builder) Append(text, style string) *Builder {
	if text == "" {
		return b
	}

	begin := b.sb.Len()
	b.sb.WriteString(text)
	end := b.sb.Len()

	role := b.styles.Role(style)
	if n := len(b.runs); n > 0 && b.runs[n-1].Style == style && !role.IsNumber() {
		b.runs[n-1].End = end
		return b
	}
	b.runs = append(b.runs, Run{Begin: begin, End: end, Style: style, Role: role})
	return b
}

// Len returns the number of bytes appended so far.
func (b *Builder) Len() int {
	return b.sb.Len()
}

// Text returns the assembled text. The builder may keep appending afterwards.
func (b *Builder) Text() Text {
	runs := make([]Run, len(b.runs))
	copy(runs, b.runs)
	return Text{s: b.sb.String(), runs: runs}
}
