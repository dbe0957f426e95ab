package segment

import (
	"iter"
	"strings"

	"github.com/sillsdev/FieldWorks-sub105/core/ir"
)

// List is the complete, ordered segmentation of one paragraph.
type List struct {
	segments []VerseSegment
}

// Collect drains s from its current position. On error the segments emitted
// before the failure are returned along with it.
func Collect(s *Segmenter) (List, error) {
	var l List
	for {
		seg, ok, err := s.Next()
		if err != nil {
			return l, err
		}
		if !ok {
			return l, nil
		}
		l.segments = append(l.segments, seg)
	}
}

// CollectParagraph segments the vernacular text of p.
func CollectParagraph(p Paragraph, opts ...Option) (List, error) {
	s, err := New(p, opts...)
	if err != nil {
		return List{}, err
	}
	return Collect(s)
}

// CollectBackTranslation segments p's back translation in writing system ws.
func CollectBackTranslation(p TranslatedParagraph, ws string, opts ...Option) (List, error) {
	s, err := NewBackTranslation(p, ws, opts...)
	if err != nil {
		return List{}, err
	}
	return Collect(s)
}

// Len returns the number of segments.
func (l List) Len() int {
	return len(l.segments)
}

// At returns segment i.
func (l List) At(i int) VerseSegment {
	return l.segments[i]
}

// Segments returns a copy of the segments.
func (l List) Segments() []VerseSegment {
	cp := make([]VerseSegment, len(l.segments))
	copy(cp, l.segments)
	return cp
}

// All iterates the segments with their indexes.
func (l List) All() iter.Seq2[int, VerseSegment] {
	return func(yield func(int, VerseSegment) bool) {
		for i, seg := range l.segments {
			if !yield(i, seg) {
				return
			}
		}
	}
}

// Find returns the first segment whose reference range contains ref.
func (l List) Find(ref ir.Ref) (VerseSegment, bool) {
	for _, seg := range l.segments {
		if seg.Range().Contains(ref) {
			return seg, true
		}
	}
	return VerseSegment{}, false
}

// SegmentAt returns the segment covering byte offset pos of the paragraph.
func (l List) SegmentAt(pos int) (VerseSegment, bool) {
	for _, seg := range l.segments {
		if pos >= seg.VerseStart && pos < seg.EndIndex {
			return seg, true
		}
	}
	return VerseSegment{}, false
}

// Text returns the concatenated text of all segments, which is the
// paragraph text.
func (l List) Text() string {
	var sb strings.Builder
	for _, seg := range l.segments {
		sb.WriteString(seg.Text.String())
	}
	return sb.String()
}
