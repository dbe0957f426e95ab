package ir

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
)

// MaxNumber is the largest chapter or verse number the BBCCCVVV encoding can hold.
const MaxNumber = 999

// Ref represents a canonical scripture reference.
type Ref struct {
	// Book is the canonical book number (1 = GEN ... 66 = REV).
	Book int `json:"book" yaml:"book"`

	// Chapter is the chapter number (1-indexed, 0 for book introductions).
	Chapter int `json:"chapter" yaml:"chapter"`

	// Verse is the verse number (1-indexed, 0 for chapter headings).
	Verse int `json:"verse" yaml:"verse"`
}

// NewRef creates a reference from its parts.
func NewRef(book, chapter, verse int) Ref {
	return Ref{Book: book, Chapter: chapter, Verse: verse}
}

// RefFromBBCCCVVV decodes a reference from its canonical integer encoding.
func RefFromBBCCCVVV(n int) Ref {
	return Ref{
		Book:    n / 1000000,
		Chapter: n / 1000 % 1000,
		Verse:   n % 1000,
	}
}

// BBCCCVVV returns the canonical integer encoding used for ordering.
func (r Ref) BBCCCVVV() int {
	return r.Book*1000000 + r.Chapter*1000 + r.Verse
}

// Compare orders references by book, then chapter, then verse.
func (r Ref) Compare(other Ref) int {
	return cmp.Compare(r.BBCCCVVV(), other.BBCCCVVV())
}

// Less reports whether r sorts before other.
func (r Ref) Less(other Ref) bool {
	return r.Compare(other) < 0
}

// IsValid reports whether the reference names a known book and encodable numbers.
func (r Ref) IsValid() bool {
	return r.Book >= 1 && r.Book <= BookCount &&
		r.Chapter >= 0 && r.Chapter <= MaxNumber &&
		r.Verse >= 0 && r.Verse <= MaxNumber
}

// WithChapter returns a copy moved to the start of the given chapter.
// The verse resets to 1 since the first verse after a chapter number is
// usually left unnumbered.
func (r Ref) WithChapter(chapter int) Ref {
	r.Chapter = chapter
	r.Verse = 1
	return r
}

// WithVerse returns a copy with the verse replaced.
func (r Ref) WithVerse(verse int) Ref {
	r.Verse = verse
	return r
}

// String returns the reference as "GEN 1:1".
func (r Ref) String() string {
	var sb strings.Builder
	if code := BookCode(r.Book); code != "" {
		sb.WriteString(code)
	} else {
		sb.WriteString(strconv.Itoa(r.Book))
	}
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(r.Chapter))
	sb.WriteString(":")
	sb.WriteString(strconv.Itoa(r.Verse))
	return sb.String()
}

// RefRange represents a contiguous range of references, such as a verse bridge.
type RefRange struct {
	// Start is the beginning of the range.
	Start Ref `json:"start" yaml:"start"`

	// End is the end of the range (inclusive).
	End Ref `json:"end" yaml:"end"`
}

// IsBridge returns true if the range spans more than one verse.
func (rr RefRange) IsBridge() bool {
	return rr.End.Compare(rr.Start) > 0
}

// Contains returns true if the reference is within this range.
func (rr RefRange) Contains(ref Ref) bool {
	n := ref.BBCCCVVV()
	return n >= rr.Start.BBCCCVVV() && n <= rr.End.BBCCCVVV()
}

// Overlaps returns true if the two ranges share at least one reference.
func (rr RefRange) Overlaps(other RefRange) bool {
	return rr.Start.Compare(other.End) <= 0 && other.Start.Compare(rr.End) <= 0
}

// String returns "GEN 1:3" or "GEN 1:3-4" for a same-chapter bridge.
func (rr RefRange) String() string {
	if !rr.IsBridge() {
		return rr.Start.String()
	}
	if rr.Start.Book == rr.End.Book && rr.Start.Chapter == rr.End.Chapter {
		return fmt.Sprintf("%s-%d", rr.Start, rr.End.Verse)
	}
	return fmt.Sprintf("%s-%s", rr.Start, rr.End)
}

// numberGrammar is the participle grammar for number run text. Anything
// that is not a digit group, a segment letter or a bridge dash is elided, so
// punctuation, Unicode spaces and bidi marks around a number are ignored.
// Examples: "3", "3-4", "3a", "3b-4", "12–13", "5.", "(5)", "\u200f5"
//
//nolint:govet // participle grammar tags are not standard struct tags
type numberGrammar struct {
	Tokens []numberToken `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type numberToken struct {
	Int     *int    `  @Int`
	Segment *string `| @Segment`
	Dash    bool    `| @Dash`
}

// numberLexer tokenizes number runs. Other matches any single character the
// earlier rules do not.
var numberLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Segment", Pattern: `[a-z]`},
	{Name: "Dash", Pattern: `[-\x{2010}-\x{2014}]`},
	{Name: "Other", Pattern: `[\s\S]`},
})

var numberParser = participle.MustBuild[numberGrammar](
	participle.Lexer(numberLexer),
	participle.Elide("Other"),
)

// numberRun is the meaningful part of a number run: the first digit group,
// an optional segment letter after it, and the bridge end when a dash and a
// second digit group follow.
type numberRun struct {
	start    int
	end      int
	segment  bool
	bridge   bool
	trailing bool
}

func scanNumberRun(s string) (numberRun, bool, error) {
	parsed, err := numberParser.ParseString("", s)
	if err != nil {
		return numberRun{}, false, err
	}

	toks := parsed.Tokens
	i := 0
	for i < len(toks) && toks[i].Int == nil {
		i++
	}
	if i == len(toks) {
		return numberRun{}, false, nil
	}

	nr := numberRun{start: *toks[i].Int, end: *toks[i].Int}
	i++
	if i < len(toks) && toks[i].Segment != nil {
		nr.segment = true
		i++
	}
	if i+1 < len(toks) && toks[i].Dash && toks[i+1].Int != nil {
		nr.bridge = true
		nr.end = *toks[i+1].Int
		i += 2
		if i < len(toks) && toks[i].Segment != nil {
			i++
		}
	}
	nr.trailing = i < len(toks)
	return nr, true, nil
}

// ParseVerseNumber parses the text of a verse-number run.
// A bridge such as "3-4" returns its first and last verse; a single verse
// returns the same number twice. Segment letters, punctuation and spacing
// around the digits are dropped. It fails only when the run holds no digits
// or a number too large to encode. A bridge that ends before it starts is
// read as its first verse.
func ParseVerseNumber(s string) (start, end int, err error) {
	nr, ok, err := scanNumberRun(s)
	if err != nil {
		return 0, 0, segerrors.NewVerseNumber(s, fmt.Errorf("%w: %v", segerrors.ErrInvalidVerseNumber, err))
	}
	if !ok {
		return 0, 0, segerrors.NewVerseNumber(s, nil)
	}
	if nr.start > MaxNumber || nr.end > MaxNumber {
		return 0, 0, segerrors.NewVerseNumber(s, fmt.Errorf("%w: exceeds %d", segerrors.ErrInvalidVerseNumber, MaxNumber))
	}
	if nr.end < nr.start {
		nr.end = nr.start
	}
	return nr.start, nr.end, nil
}

// ParseChapterNumber parses the text of a chapter-number run. Punctuation and
// spacing around the number are ignored, but segment letters and bridges are
// not chapter numbers.
func ParseChapterNumber(s string) (int, error) {
	nr, ok, err := scanNumberRun(s)
	if err != nil {
		return 0, segerrors.NewChapterNumber(s, fmt.Errorf("%w: %v", segerrors.ErrInvalidChapterNumber, err))
	}
	if !ok || nr.segment || nr.bridge || nr.trailing || nr.start > MaxNumber {
		return 0, segerrors.NewChapterNumber(s, nil)
	}
	return nr.start, nil
}

// refGrammar is the participle grammar for textual references.
// Examples: "GEN 1", "GEN 1:1", "1JN 3:16-18"
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Book    string     `@Book`
	Chapter int        `@Int`
	Verses  *versePart `( ":" @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse int  `@Int`
	End   *int `( Dash @Int )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `[1-4][A-Za-z]{2}|[A-Za-z][A-Za-z0-9]{2}`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Dash", Pattern: `[-\x{2013}]`},
	{Name: "Punct", Pattern: `:`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses a textual reference into a range.
// Supported formats:
//   - "GEN 1" (whole chapter, verses 0-999)
//   - "GEN 1:1" (single verse)
//   - "GEN 1:1-3" (verse range)
func ParseRef(s string) (RefRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RefRange{}, segerrors.NewParse("reference", "", "empty reference string")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return RefRange{}, &segerrors.ParseError{Format: "reference", Message: fmt.Sprintf("invalid reference format %q", s), Err: fmt.Errorf("%w: %v", segerrors.ErrInvalidInput, err)}
	}

	book, ok := BookNumber(parsed.Book)
	if !ok {
		return RefRange{}, segerrors.NewParse("reference", "", fmt.Sprintf("unknown book %q", parsed.Book))
	}

	start := Ref{Book: book, Chapter: parsed.Chapter}
	end := start
	switch {
	case parsed.Verses == nil:
		start.Verse, end.Verse = 0, MaxNumber
	case parsed.Verses.End != nil:
		start.Verse, end.Verse = parsed.Verses.Verse, *parsed.Verses.End
	default:
		start.Verse, end.Verse = parsed.Verses.Verse, parsed.Verses.Verse
	}
	if end.Less(start) {
		return RefRange{}, segerrors.NewParse("reference", "", fmt.Sprintf("range %q ends before it starts", s))
	}

	return RefRange{Start: start, End: end}, nil
}
