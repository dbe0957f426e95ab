package segment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

// VerseSegment is one verse (or chapter lead-in) of a paragraph.
// It holds copies of everything it reports and stays valid after the
// segmenter that produced it moves on.
type VerseSegment struct {
	// Start and End are the first and last reference covered; they differ
	// for verse bridges such as "3-4".
	Start ir.Ref `json:"start" yaml:"start"`
	End   ir.Ref `json:"end" yaml:"end"`

	// Text is the styled text of [VerseStart, EndIndex).
	Text styled.Text `json:"-" yaml:"-"`

	ParagraphID uuid.UUID `json:"paragraph_id" yaml:"paragraph_id"`
	OwnerID     uuid.UUID `json:"owner_id" yaml:"owner_id"`

	// VerseStart is where the segment (and its number run, if any) begins.
	VerseStart int `json:"verse_start" yaml:"verse_start"`
	// TextStart is where the body text begins, after any number run.
	TextStart int `json:"text_start" yaml:"text_start"`
	// EndIndex is the exclusive end of the segment.
	EndIndex int `json:"end_index" yaml:"end_index"`

	IsChapterNumberRun  bool `json:"is_chapter_number_run,omitempty" yaml:"is_chapter_number_run,omitempty"`
	IsVerseNumberRun    bool `json:"is_verse_number_run,omitempty" yaml:"is_verse_number_run,omitempty"`
	IsCompleteParagraph bool `json:"is_complete_paragraph,omitempty" yaml:"is_complete_paragraph,omitempty"`
	IsStanzaBreak       bool `json:"is_stanza_break,omitempty" yaml:"is_stanza_break,omitempty"`
}

// Range returns the reference range of the segment.
func (s VerseSegment) Range() ir.RefRange {
	return ir.RefRange{Start: s.Start, End: s.End}
}

// Len returns the length of the segment in bytes.
func (s VerseSegment) Len() int {
	return s.EndIndex - s.VerseStart
}

// HasNumberRun reports whether a chapter or verse number precedes the body.
func (s VerseSegment) HasNumberRun() bool {
	return s.TextStart > s.VerseStart
}

// NumberText returns the text of the leading number run, or "".
func (s VerseSegment) NumberText() string {
	return s.Text.String()[:s.TextStart-s.VerseStart]
}

// BodyText returns the segment text after the number run.
func (s VerseSegment) BodyText() string {
	return s.Text.String()[s.TextStart-s.VerseStart:]
}

func (s VerseSegment) String() string {
	return fmt.Sprintf("%s [%d,%d) %q", s.Range(), s.VerseStart, s.EndIndex, s.Text.String())
}
