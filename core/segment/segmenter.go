package segment

import (
	"iter"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithStyles sets the style map used to recognize stanza-break paragraphs.
func WithStyles(styles *styled.StyleMap) Option {
	return func(s *Segmenter) {
		s.styles = styles
	}
}

// Segmenter walks the verse segments of one paragraph at a time.
//
// A Segmenter is not safe for concurrent use. It snapshots the paragraph
// text when started or reset and fails with ErrParagraphContentChanged if
// the paragraph changes before the scan finishes.
type Segmenter struct {
	para   Paragraph
	ws     string
	styles *styled.StyleMap
	source func(Paragraph) (styled.Text, error)
	snap   *Snapshot
	state  State
}

// New creates a segmenter over the vernacular contents of p.
func New(p Paragraph, opts ...Option) (*Segmenter, error) {
	return newSegmenter(p, "", contents, opts)
}

// NewBackTranslation creates a segmenter over p's back translation in the
// writing system ws. A paragraph without that translation scans as empty.
func NewBackTranslation(p TranslatedParagraph, ws string, opts ...Option) (*Segmenter, error) {
	if p == nil {
		return nil, segerrors.ErrNilParagraph
	}
	return newSegmenter(p, ws, translation(ws), opts)
}

func contents(p Paragraph) (styled.Text, error) {
	return p.Contents(), nil
}

func translation(ws string) func(Paragraph) (styled.Text, error) {
	return func(p Paragraph) (styled.Text, error) {
		tp, ok := p.(TranslatedParagraph)
		if !ok {
			return styled.Text{}, segerrors.NewUnsupported("back translation", "paragraph has no translations")
		}
		text, _ := tp.Translation(ws)
		return text, nil
	}
}

func newSegmenter(p Paragraph, ws string, source func(Paragraph) (styled.Text, error), opts []Option) (*Segmenter, error) {
	if p == nil {
		return nil, segerrors.ErrNilParagraph
	}
	s := &Segmenter{ws: ws, source: source}
	for _, opt := range opts {
		opt(s)
	}
	if s.styles == nil {
		s.styles = styled.DefaultStyles()
	}
	if err := s.Reposition(p); err != nil {
		return nil, err
	}
	return s, nil
}

// Paragraph returns the paragraph being scanned.
func (s *Segmenter) Paragraph() Paragraph {
	return s.para
}

// WritingSystem returns the back translation writing system, or "" for
// vernacular text.
func (s *Segmenter) WritingSystem() string {
	return s.ws
}

// State returns a copy of the current scan state.
func (s *Segmenter) State() State {
	return s.state
}

// Next returns the next segment. ok is false once the paragraph is
// exhausted. An error means the paragraph changed since the last reset;
// segments returned before it remain valid.
func (s *Segmenter) Next() (seg VerseSegment, ok bool, err error) {
	current, err := s.source(s.para)
	if err != nil {
		return VerseSegment{}, false, err
	}
	if !s.snap.Matches(current) {
		return VerseSegment{}, false, &segerrors.StaleParagraphError{
			ParagraphID: s.snap.ParagraphID,
			CachedLen:   s.snap.Text.Len(),
			CurrentLen:  current.Len(),
		}
	}

	s.state, seg, ok = Step(s.state, s.snap)
	return seg, ok, nil
}

// Reset restarts the scan at offset 0 of the same paragraph, taking a new
// snapshot of its current content.
func (s *Segmenter) Reset() error {
	return s.Reposition(s.para)
}

// Reposition restarts the scan on p. Moving to a different paragraph is what
// arms the stanza-break flag: re-scanning the same empty stanza paragraph
// does not report the break again.
func (s *Segmenter) Reposition(p Paragraph) error {
	if p == nil {
		return segerrors.ErrNilParagraph
	}
	text, err := s.source(p)
	if err != nil {
		return err
	}
	s.para = p
	s.snap = TakeSnapshot(p, text, s.styles)
	s.state = s.state.Restart(p.StartRef())
	return nil
}

// All iterates the remaining segments. Iteration stops after the first
// error, which is yielded with a zero segment.
func (s *Segmenter) All() iter.Seq2[VerseSegment, error] {
	return func(yield func(VerseSegment, error) bool) {
		for {
			seg, ok, err := s.Next()
			if err != nil {
				yield(VerseSegment{}, err)
				return
			}
			if !ok || !yield(seg, nil) {
				return
			}
		}
	}
}
