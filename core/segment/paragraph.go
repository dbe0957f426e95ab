package segment

import (
	"github.com/google/uuid"

	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

// Paragraph is the document model view the segmenter reads.
type Paragraph interface {
	// ID identifies the paragraph.
	ID() uuid.UUID

	// OwnerID identifies the text or section holding the paragraph.
	OwnerID() uuid.UUID

	// StyleName is the paragraph style, used to recognize stanza breaks.
	StyleName() string

	// Contents returns the current vernacular text.
	Contents() styled.Text

	// StartRef is the reference in effect at offset 0.
	StartRef() ir.Ref
}

// TranslatedParagraph is a Paragraph that also holds back translations.
type TranslatedParagraph interface {
	Paragraph

	// Translation returns the back translation for a writing system.
	Translation(ws string) (styled.Text, bool)
}

// Snapshot is the immutable input to Step: the text being scanned plus the
// paragraph facts carried into every segment.
type Snapshot struct {
	Text        styled.Text
	ParagraphID uuid.UUID
	OwnerID     uuid.UUID

	// Stanza is true when the paragraph style plays the stanza-break role.
	Stanza bool

	fingerprint [32]byte
}

// TakeSnapshot captures p's identity and the given text for scanning.
// A nil style map uses styled.DefaultStyles.
func TakeSnapshot(p Paragraph, text styled.Text, styles *styled.StyleMap) *Snapshot {
	return &Snapshot{
		Text:        text,
		ParagraphID: p.ID(),
		OwnerID:     p.OwnerID(),
		Stanza:      styles.Role(p.StyleName()) == styled.RoleStanzaBreak,
		fingerprint: text.Fingerprint(),
	}
}

// Matches reports whether text is still the content the snapshot was taken from.
func (s *Snapshot) Matches(text styled.Text) bool {
	return text.Len() == s.Text.Len() && text.Fingerprint() == s.fingerprint
}
