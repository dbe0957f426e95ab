// Package usfm loads USFM (Unified Standard Format Markers) books into the
// document model.
//
// The input is tokenized into markers and text. Paragraph markers open
// paragraphs, \c and \v produce number runs, character markers such as
// \wj ... \wj* produce styled runs, and footnotes and cross references are
// dropped.
package usfm

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/model"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

var usfmLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Marker", Pattern: `\\\+?[a-z][a-z0-9-]*\*?|\\\*`},
	{Name: "Text", Pattern: `[^\\]+`},
	{Name: "Stray", Pattern: `\\`},
})

var markerType = usfmLexer.Symbols()["Marker"]

// charMarkers open a character style closed by the matching \name*.
var charMarkers = map[string]bool{
	"add": true, "addpn": true, "bd": true, "bdit": true, "bk": true,
	"dc": true, "em": true, "it": true, "k": true, "lit": true,
	"nd": true, "no": true, "ord": true, "pn": true, "png": true,
	"qac": true, "qs": true, "qt": true, "rq": true, "sc": true,
	"sig": true, "sls": true, "sup": true, "tl": true, "w": true,
	"wj": true,
}

// noteMarkers open content skipped up to the matching \name*.
var noteMarkers = map[string]bool{
	"f": true, "fe": true, "ef": true, "x": true, "ex": true, "fig": true,
}

// Load parses a USFM book. A nil style map uses styled.DefaultStyles.
func Load(r io.Reader, styles *styled.StyleMap) (*model.Book, error) {
	lex, err := usfmLexer.Lex("", r)
	if err != nil {
		return nil, segerrors.NewIO("read", "", err)
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, &segerrors.ParseError{Format: "usfm", Message: "tokenizing", Err: fmt.Errorf("%w: %v", segerrors.ErrInvalidInput, err)}
	}

	code := bookCode(tokens)
	if code == "" {
		return nil, segerrors.NewParse("usfm", "", `missing \id marker`)
	}
	number, ok := ir.BookNumber(code)
	if !ok {
		return nil, segerrors.NewParse("usfm", "", fmt.Sprintf("unknown book code %q", code))
	}

	p := &parser{b: model.NewBookBuilder(number, styles)}
	for _, tok := range tokens {
		if tok.EOF() {
			break
		}
		if tok.Type == markerType {
			p.marker(tok.Value)
		} else {
			p.text(tok.Value)
		}
	}
	return p.b.Book(), nil
}

// bookCode returns the first word after \id.
func bookCode(tokens []lexer.Token) string {
	for i, tok := range tokens {
		if tok.Type == markerType && tok.Value == `\id` && i+1 < len(tokens) {
			word, _ := firstWord(tokens[i+1].Value)
			return strings.ToUpper(word)
		}
	}
	return ""
}

type parser struct {
	b *model.BookBuilder

	// arg is the marker whose argument the next text token carries.
	arg string
	// afterMarker is set when the next text token follows an opening marker
	// and so begins with the separating space.
	afterMarker bool
	// skipTo is the note marker being skipped.
	skipTo string
	chars  []string
}

func (p *parser) marker(value string) {
	name := strings.TrimPrefix(strings.TrimPrefix(value, `\`), "+")
	closing := strings.HasSuffix(name, "*")
	name = strings.TrimSuffix(name, "*")

	if p.skipTo != "" {
		if closing && name == p.skipTo {
			p.skipTo = ""
			p.afterMarker = false
		}
		return
	}
	p.arg = ""
	p.afterMarker = !closing
	if closing {
		p.closeChar(name)
		return
	}

	switch {
	case name == "id", name == "c", name == "v":
		p.arg = name
	case noteMarkers[name]:
		p.skipTo = name
	case charMarkers[name]:
		p.chars = append(p.chars, name)
	case strings.HasSuffix(name, "-s"), strings.HasSuffix(name, "-e"):
		// Milestones carry no text.
	default:
		p.chars = p.chars[:0]
		p.b.StartParagraph(name)
	}
}

func (p *parser) text(s string) {
	if p.skipTo != "" {
		return
	}
	if p.afterMarker {
		s = trimSeparator(s)
		p.afterMarker = false
	}

	switch p.arg {
	case "id":
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = ""
		}
	case "c":
		num, rest := firstWord(s)
		p.b.Chapter(num)
		s = rest
	case "v":
		num, rest := firstWord(s)
		p.b.Verse(num)
		s = rest
	}
	p.arg = ""

	style := ""
	if n := len(p.chars); n > 0 {
		style = p.chars[n-1]
	}
	p.b.Text(s, style)
}

func (p *parser) closeChar(name string) {
	for i := len(p.chars) - 1; i >= 0; i-- {
		if p.chars[i] == name {
			p.chars = p.chars[:i]
			return
		}
	}
}

// firstWord splits s after leading whitespace into its first word and the
// text following the single separator after it.
func firstWord(s string) (word, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], trimSeparator(s[i:])
}

func trimSeparator(s string) string {
	if s != "" && (s[0] == ' ' || s[0] == '\n' || s[0] == '\t' || s[0] == '\r') {
		if strings.HasPrefix(s, "\r\n") {
			return s[2:]
		}
		return s[1:]
	}
	return s
}
