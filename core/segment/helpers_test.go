package segment

import (
	"testing"

	"github.com/google/uuid"

	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

// testParagraph is a minimal Paragraph with mutable contents.
type testParagraph struct {
	id       uuid.UUID
	owner    uuid.UUID
	style    string
	start    ir.Ref
	contents styled.Text
}

func newTestParagraph(style string, start ir.Ref, contents styled.Text) *testParagraph {
	return &testParagraph{
		id:       uuid.New(),
		owner:    uuid.New(),
		style:    style,
		start:    start,
		contents: contents,
	}
}

func (p *testParagraph) ID() uuid.UUID         { return p.id }
func (p *testParagraph) OwnerID() uuid.UUID    { return p.owner }
func (p *testParagraph) StyleName() string     { return p.style }
func (p *testParagraph) Contents() styled.Text { return p.contents }
func (p *testParagraph) StartRef() ir.Ref      { return p.start }

// translatedTestParagraph adds back translations.
type translatedTestParagraph struct {
	*testParagraph
	translations map[string]styled.Text
}

func newTranslatedTestParagraph(style string, start ir.Ref, contents styled.Text) *translatedTestParagraph {
	return &translatedTestParagraph{
		testParagraph: newTestParagraph(style, start, contents),
		translations:  make(map[string]styled.Text),
	}
}

func (p *translatedTestParagraph) Translation(ws string) (styled.Text, bool) {
	t, ok := p.translations[ws]
	return t, ok
}

// text builds a styled text from alternating text/style pairs.
func text(pairs ...string) styled.Text {
	b := styled.NewBuilder(nil)
	for i := 0; i+1 < len(pairs); i += 2 {
		b.Append(pairs[i], pairs[i+1])
	}
	return b.Text()
}

func gen(chapter, verse int) ir.Ref {
	return ir.NewRef(1, chapter, verse)
}

func collect(t *testing.T, p Paragraph) []VerseSegment {
	t.Helper()
	l, err := CollectParagraph(p)
	if err != nil {
		t.Fatalf("CollectParagraph() error: %v", err)
	}
	return l.Segments()
}
