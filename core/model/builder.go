package model

import (
	"strings"
	"unicode"

	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

// Marker and style names the builder emits for number runs.
const (
	ChapterStyle = "c"
	VerseStyle   = "v"
	DefaultStyle = "p"
)

// StyleKind classifies paragraph styles for loading.
type StyleKind int

const (
	// KindBody paragraphs hold scripture text and receive chapter numbers.
	KindBody StyleKind = iota
	// KindHeading paragraphs are kept but never receive a chapter number.
	KindHeading
	// KindIdentification paragraphs (running headers, tables of contents,
	// main titles, remarks) are not part of the text and are dropped.
	KindIdentification
)

// ClassifyStyle returns the kind of a USFM/USX paragraph style. Trailing
// level digits are ignored, so "s2" is a heading like "s".
func ClassifyStyle(style string) StyleKind {
	switch strings.TrimRightFunc(style, unicode.IsDigit) {
	case "ide", "h", "toc", "toca", "mt", "mte", "rem", "sts", "cl", "usfm":
		return KindIdentification
	case "s", "ms", "mr", "r", "sr", "sp", "d", "qa", "is", "imt", "cd":
		return KindHeading
	}
	return KindBody
}

type piece struct {
	text  string
	style string
}

// BookBuilder assembles a Book from a stream of loader events. It tracks the
// reference in effect so every paragraph gets a correct start ref, and holds
// a chapter number back until the next body paragraph opens so the number
// run lands at the start of that paragraph.
type BookBuilder struct {
	book    *Book
	styles  *styled.StyleMap
	ref     ir.Ref
	chapter string

	open   bool
	skip   bool
	style  string
	start  ir.Ref
	pieces []piece
}

// NewBookBuilder starts a book. A nil style map uses styled.DefaultStyles.
func NewBookBuilder(number int, styles *styled.StyleMap) *BookBuilder {
	if styles == nil {
		styles = styled.DefaultStyles()
	}
	return &BookBuilder{
		book:   NewBook(number),
		styles: styles,
		ref:    ir.NewRef(number, 0, 0),
	}
}

// Ref returns the reference in effect at the current position.
func (b *BookBuilder) Ref() ir.Ref {
	return b.ref
}

// StartParagraph closes the open paragraph and opens one in style.
func (b *BookBuilder) StartParagraph(style string) {
	b.flush()
	b.open = true
	b.style = style
	b.start = b.ref

	switch {
	case ClassifyStyle(style) == KindIdentification:
		b.skip = true
	case b.styles.Role(style) == styled.RoleStanzaBreak:
		b.flush()
	case ClassifyStyle(style) == KindBody && b.chapter != "":
		b.appendChapter()
	}
}

// Chapter records a chapter number. It closes the open paragraph; the number
// run is placed at the start of the next body paragraph.
func (b *BookBuilder) Chapter(number string) {
	b.flush()
	b.chapter = strings.TrimSpace(number)
}

// Verse appends a verse-number run, opening a default paragraph if needed.
func (b *BookBuilder) Verse(number string) {
	number = strings.TrimSpace(number)
	if number == "" {
		return
	}
	b.ensureBody()
	if b.skip {
		return
	}
	b.pieces = append(b.pieces, piece{number, VerseStyle})
	if first, _, err := ir.ParseVerseNumber(number); err == nil {
		b.ref = b.ref.WithVerse(first)
	}
}

// Text appends text in a character style ("" for plain). Runs of whitespace
// collapse to a single space. Whitespace-only text outside a paragraph is
// ignored.
func (b *BookBuilder) Text(s, style string) {
	s = collapseSpace(s)
	if s == "" {
		return
	}
	if !b.open {
		if strings.TrimSpace(s) == "" {
			return
		}
		b.ensureBody()
	}
	if b.skip {
		return
	}
	b.pieces = append(b.pieces, piece{s, style})
}

// Book closes the open paragraph and returns the finished book.
func (b *BookBuilder) Book() *Book {
	b.flush()
	return b.book
}

func (b *BookBuilder) ensureBody() {
	if !b.open {
		b.StartParagraph(DefaultStyle)
	}
}

func (b *BookBuilder) appendChapter() {
	b.pieces = append(b.pieces, piece{b.chapter, ChapterStyle})
	if n, err := ir.ParseChapterNumber(b.chapter); err == nil {
		b.ref = b.ref.WithChapter(n)
	}
	b.chapter = ""
}

func (b *BookBuilder) flush() {
	if !b.open {
		return
	}
	defer b.reset()
	if b.skip {
		return
	}

	trimPieces(b.pieces)
	tb := styled.NewBuilder(b.styles)
	for _, p := range b.pieces {
		tb.Append(p.text, p.style)
	}
	text := tb.Text()
	if text.Len() == 0 && b.styles.Role(b.style) != styled.RoleStanzaBreak {
		return
	}
	b.book.AddParagraph(b.style, b.start, text)
}

func (b *BookBuilder) reset() {
	b.open = false
	b.skip = false
	b.style = ""
	b.pieces = b.pieces[:0]
}

// trimPieces drops leading and trailing whitespace of the paragraph.
func trimPieces(pieces []piece) {
	for i := range pieces {
		pieces[i].text = strings.TrimLeftFunc(pieces[i].text, unicode.IsSpace)
		if pieces[i].text != "" {
			break
		}
	}
	for i := len(pieces) - 1; i >= 0; i-- {
		pieces[i].text = strings.TrimRightFunc(pieces[i].text, unicode.IsSpace)
		if pieces[i].text != "" {
			break
		}
	}
}

func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}
