package segment

import (
	"github.com/google/uuid"

	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
	"github.com/sillsdev/FieldWorks-sub105/internal/logging"
)

// State is the scanner position between steps. It is a plain value: copying
// it checkpoints a scan.
type State struct {
	// Cursor is where the next step starts scanning.
	Cursor int

	// VerseStart and TextStart describe the segment most recently emitted.
	VerseStart int
	TextStart  int

	// Start and End are the current reference range.
	Start ir.Ref
	End   ir.Ref

	InChapterNumber bool
	InVerseNumber   bool

	// Done is set once the paragraph has been fully emitted.
	Done bool

	// PrevParagraph is the paragraph the last segment came from.
	PrevParagraph uuid.UUID
}

// NewState returns the state for scanning a paragraph that begins at ref.
func NewState(ref ir.Ref) State {
	return State{Start: ref, End: ref}
}

// Restart rewinds the state to the beginning of a paragraph starting at ref.
// The previous paragraph identity is kept so stanza breaks are flagged only
// on first entry.
func (st State) Restart(ref ir.Ref) State {
	return State{Start: ref, End: ref, PrevParagraph: st.PrevParagraph}
}

// Step scans the next segment of snap starting at st.Cursor. It returns the
// advanced state and the segment, or ok=false when the paragraph is exhausted.
func Step(st State, snap *Snapshot) (next State, seg VerseSegment, ok bool) {
	text := snap.Text
	length := text.Len()

	if length == 0 {
		if st.Done {
			return st, VerseSegment{}, false
		}
		st.VerseStart, st.TextStart = 0, 0
		st.InChapterNumber, st.InVerseNumber = false, false
		seg = VerseSegment{
			Start:               st.Start,
			End:                 st.End,
			Text:                text,
			ParagraphID:         snap.ParagraphID,
			OwnerID:             snap.OwnerID,
			IsCompleteParagraph: true,
			IsStanzaBreak:       snap.Stanza && st.PrevParagraph != snap.ParagraphID,
		}
		st.Done = true
		st.PrevParagraph = snap.ParagraphID
		return st, seg, true
	}

	if st.Done || st.Cursor >= length {
		st.Done = true
		return st, VerseSegment{}, false
	}

	cursor := st.Cursor
	st.VerseStart, st.TextStart = cursor, cursor
	st.InChapterNumber, st.InVerseNumber = false, false
	chapterFound := false

scan:
	for cursor < length {
		i := text.RunIndexAt(cursor)
		run := text.Run(i)

		switch run.Role {
		case styled.RoleVerseNumber:
			if st.VerseStart != cursor {
				break scan
			}
			first, last, err := ir.ParseVerseNumber(text.RunText(i))
			if err != nil {
				logging.NumberRunRecovered("verse", text.RunText(i), run.Begin, snap.ParagraphID.String(), err)
				cursor = run.End
				continue
			}
			st.Start = st.Start.WithVerse(first)
			st.End = st.Start.WithVerse(last)
			st.VerseStart = cursor
			cursor = run.End
			st.TextStart = cursor
			st.InVerseNumber = true

		case styled.RoleChapterNumber:
			if st.VerseStart != cursor {
				break scan
			}
			chapter, err := ir.ParseChapterNumber(text.RunText(i))
			if err != nil {
				logging.NumberRunRecovered("chapter", text.RunText(i), run.Begin, snap.ParagraphID.String(), err)
				cursor = run.End
				continue
			}
			st.Start = st.Start.WithChapter(chapter)
			st.End = st.Start
			st.VerseStart = cursor
			cursor = run.End
			st.TextStart = cursor
			st.InChapterNumber = true
			chapterFound = true

		default:
			// A chapter number never shares its segment with text.
			if chapterFound {
				break scan
			}
			cursor = run.End
		}
	}

	end := cursor
	if !st.InChapterNumber {
		end = mergeEnd(text, cursor, st.Start.Verse)
	}

	seg = VerseSegment{
		Start:               st.Start,
		End:                 st.End,
		Text:                text.Slice(st.VerseStart, end),
		ParagraphID:         snap.ParagraphID,
		OwnerID:             snap.OwnerID,
		VerseStart:          st.VerseStart,
		TextStart:           st.TextStart,
		EndIndex:            end,
		IsChapterNumberRun:  st.InChapterNumber,
		IsVerseNumberRun:    st.InVerseNumber,
		IsCompleteParagraph: st.VerseStart == 0 && end == length,
	}

	st.Cursor = end
	st.Done = end >= length
	st.PrevParagraph = snap.ParagraphID
	return st, seg, true
}

// mergeEnd returns where a segment beginning with startVerse ends, given
// that the scan stopped at pos. Verse numbers that repeat startVerse are
// absorbed along with the text after them; the segment ends at the next
// chapter number, the next different verse number or the paragraph end.
// Only the starting verse is compared, so "3-4" followed by "3-5" merges.
func mergeEnd(text styled.Text, pos, startVerse int) int {
	for {
		i := nextNumberRun(text, pos)
		if i == text.RunCount() {
			return text.Len()
		}

		run := text.Run(i)
		if run.Role == styled.RoleChapterNumber {
			return run.Begin
		}
		first, _, err := ir.ParseVerseNumber(text.RunText(i))
		if err != nil || first != startVerse {
			return run.Begin
		}
		pos = run.End
	}
}

// nextNumberRun returns the index of the first chapter or verse number run
// beginning at or after pos, or RunCount if there is none.
func nextNumberRun(text styled.Text, pos int) int {
	n := text.RunCount()
	for i := text.RunIndexAt(pos); i < n; i++ {
		run := text.Run(i)
		if run.Begin >= pos && run.Role.IsNumber() {
			return i
		}
	}
	return n
}
