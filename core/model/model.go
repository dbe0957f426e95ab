// Package model is an in-memory scripture document model: books made of
// styled paragraphs with optional back translations.
//
// Paragraph satisfies segment.TranslatedParagraph.
package model

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

// Paragraph is one styled paragraph of a book. Contents and translations may
// be replaced at any time; readers always see a complete styled.Text.
type Paragraph struct {
	id      uuid.UUID
	ownerID uuid.UUID
	style   string
	start   ir.Ref

	mu           sync.RWMutex
	contents     styled.Text
	translations map[string]styled.Text
}

// NewParagraph creates a paragraph with a fresh identity.
func NewParagraph(ownerID uuid.UUID, style string, start ir.Ref, contents styled.Text) *Paragraph {
	return &Paragraph{
		id:       uuid.New(),
		ownerID:  ownerID,
		style:    style,
		start:    start,
		contents: contents,
	}
}

// ID identifies the paragraph.
func (p *Paragraph) ID() uuid.UUID { return p.id }

// OwnerID identifies the book or section holding the paragraph.
func (p *Paragraph) OwnerID() uuid.UUID { return p.ownerID }

// StyleName is the paragraph style.
func (p *Paragraph) StyleName() string { return p.style }

// StartRef is the reference in effect at the start of the paragraph.
func (p *Paragraph) StartRef() ir.Ref { return p.start }

// Contents returns the current vernacular text.
func (p *Paragraph) Contents() styled.Text {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.contents
}

// SetContents replaces the vernacular text.
func (p *Paragraph) SetContents(t styled.Text) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contents = t
}

// Translation returns the back translation for writing system ws.
func (p *Paragraph) Translation(ws string) (styled.Text, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.translations[ws]
	return t, ok
}

// SetTranslation stores the back translation for writing system ws.
func (p *Paragraph) SetTranslation(ws string, t styled.Text) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.translations == nil {
		p.translations = make(map[string]styled.Text)
	}
	p.translations[ws] = t
}

// WritingSystems returns the writing systems that have a back translation.
func (p *Paragraph) WritingSystems() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.translations))
	for ws := range p.translations {
		out = append(out, ws)
	}
	return out
}

// Book is an ordered list of paragraphs for one canonical book.
type Book struct {
	ID         uuid.UUID
	Number     int
	Title      string
	Paragraphs []*Paragraph
}

// NewBook creates an empty book.
func NewBook(number int) *Book {
	return &Book{
		ID:     uuid.New(),
		Number: number,
		Title:  ir.BookName(number),
	}
}

// Code returns the USFM book code.
func (b *Book) Code() string {
	return ir.BookCode(b.Number)
}

// AddParagraph appends a paragraph owned by the book.
func (b *Book) AddParagraph(style string, start ir.Ref, contents styled.Text) *Paragraph {
	p := NewParagraph(b.ID, style, start, contents)
	b.Paragraphs = append(b.Paragraphs, p)
	return p
}

// AttachTranslation copies the paragraphs of bt into b as back translations
// for ws, pairing paragraphs by position. It returns the number attached;
// extra paragraphs on either side are left alone.
func (b *Book) AttachTranslation(bt *Book, ws string) int {
	n := min(len(b.Paragraphs), len(bt.Paragraphs))
	for i := 0; i < n; i++ {
		b.Paragraphs[i].SetTranslation(ws, bt.Paragraphs[i].Contents())
	}
	return n
}
